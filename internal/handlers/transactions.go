package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"stockdesk/internal/auth"
	"stockdesk/internal/database"
	"stockdesk/internal/models"

	"github.com/gin-gonic/gin"
)

type saleInput struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Customer  string  `json:"customer"`
	UnitPrice float64 `json:"unit_price"` // 0 means the product price
}

func (in *saleInput) validate() error {
	in.Customer = strings.TrimSpace(in.Customer)

	verr := &auth.ValidationError{}
	if in.ProductID == 0 {
		verr.Add("product_id", "is required")
	}
	if in.Quantity <= 0 {
		verr.Add("quantity", "must be positive")
	}
	if in.UnitPrice < 0 {
		verr.Add("unit_price", "must not be negative")
	}
	if len(in.Customer) > 255 {
		verr.Add("customer", "is too long")
	}
	return verr.OrNil()
}

func (h *Handler) ListSales(c *gin.Context) {
	var sales []models.Sale
	err := h.DB.WithContext(c.Request.Context()).
		Preload("Product").
		Order("created_at desc").
		Order("id desc").
		Limit(listLimit).
		Find(&sales).Error
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sales": sales})
}

func (h *Handler) CreateSale(c *gin.Context) {
	var in saleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	if err := in.validate(); err != nil {
		fail(c, err)
		return
	}

	sale := models.Sale{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Customer:  in.Customer,
		UnitPrice: in.UnitPrice,
		CashierID: userID(c),
	}
	if err := database.RecordSale(c.Request.Context(), h.DB, &sale); err != nil {
		if database.IsNotFound(err) {
			err = fieldError("product_id", "unknown product")
		}
		fail(c, err)
		return
	}

	h.audit(c, "sale", sale.ID, "create",
		fmt.Sprintf("Sold %d x product #%d for %.2f", sale.Quantity, sale.ProductID, sale.Total))
	c.JSON(http.StatusCreated, sale)
}

func (h *Handler) DeleteSale(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	sale, err := database.VoidSale(c.Request.Context(), h.DB, id)
	if err != nil {
		fail(c, err)
		return
	}
	h.audit(c, "sale", sale.ID, "delete",
		fmt.Sprintf("Voided sale, returned %d x product #%d to stock", sale.Quantity, sale.ProductID))
	c.Status(http.StatusNoContent)
}

type purchaseInput struct {
	VendorID  uint    `json:"vendor_id"`
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
	Received  bool    `json:"received"` // receive immediately
}

func (h *Handler) validatePurchase(c *gin.Context, in purchaseInput) error {
	verr := &auth.ValidationError{}
	if in.Quantity <= 0 {
		verr.Add("quantity", "must be positive")
	}
	if in.UnitCost < 0 {
		verr.Add("unit_cost", "must not be negative")
	}

	ctx := c.Request.Context()
	if in.VendorID == 0 {
		verr.Add("vendor_id", "is required")
	} else if ok, err := h.exists(ctx, &models.Vendor{}, in.VendorID); err != nil {
		return err
	} else if !ok {
		verr.Add("vendor_id", "unknown vendor")
	}
	if in.ProductID == 0 {
		verr.Add("product_id", "is required")
	} else if ok, err := h.exists(ctx, &models.Product{}, in.ProductID); err != nil {
		return err
	} else if !ok {
		verr.Add("product_id", "unknown product")
	}
	return verr.OrNil()
}

func (h *Handler) ListPurchases(c *gin.Context) {
	var purchases []models.Purchase
	err := h.DB.WithContext(c.Request.Context()).
		Preload("Vendor").
		Preload("Product").
		Order("created_at desc").
		Order("id desc").
		Limit(listLimit).
		Find(&purchases).Error
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": purchases})
}

func (h *Handler) CreatePurchase(c *gin.Context) {
	var in purchaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	if err := h.validatePurchase(c, in); err != nil {
		fail(c, err)
		return
	}

	purchase := models.Purchase{
		VendorID:    in.VendorID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		CreatedByID: userID(c),
	}
	if err := database.CreatePurchase(c.Request.Context(), h.DB, &purchase, in.Received); err != nil {
		fail(c, err)
		return
	}

	h.audit(c, "purchase", purchase.ID, "create",
		fmt.Sprintf("Ordered %d x product #%d from vendor #%d", purchase.Quantity, purchase.ProductID, purchase.VendorID))
	if in.Received {
		h.audit(c, "purchase", purchase.ID, "receive", fmt.Sprintf("Received %d x product #%d", purchase.Quantity, purchase.ProductID))
	}
	c.JSON(http.StatusCreated, purchase)
}

func (h *Handler) ReceivePurchase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	purchase, err := database.ReceivePurchase(c.Request.Context(), h.DB, id)
	if err != nil {
		fail(c, err)
		return
	}
	h.audit(c, "purchase", purchase.ID, "receive", fmt.Sprintf("Received %d x product #%d", purchase.Quantity, purchase.ProductID))
	c.JSON(http.StatusOK, purchase)
}

func (h *Handler) DeletePurchase(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := database.DeletePendingPurchase(c.Request.Context(), h.DB, id); err != nil {
		fail(c, err)
		return
	}
	h.audit(c, "purchase", id, "delete", fmt.Sprintf("Deleted purchase #%d", id))
	c.Status(http.StatusNoContent)
}
