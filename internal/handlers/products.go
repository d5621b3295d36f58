package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"stockdesk/internal/auth"
	"stockdesk/internal/models"

	"github.com/gin-gonic/gin"
)

const listLimit = 500

type productInput struct {
	SKU        string  `json:"sku"`
	Name       string  `json:"name"`
	Barcode    string  `json:"barcode"`
	CategoryID *uint   `json:"category_id"`
	BrandID    *uint   `json:"brand_id"`
	Price      float64 `json:"price"`
	Cost       float64 `json:"cost"`
	Stock      int     `json:"stock"`
	MinStock   int     `json:"min_stock"`
}

func (h *Handler) validateProduct(ctx context.Context, in *productInput) error {
	verr := &auth.ValidationError{}

	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	in.Barcode = strings.TrimSpace(in.Barcode)

	switch {
	case in.SKU == "":
		verr.Add("sku", "is required")
	case len(in.SKU) > 64:
		verr.Add("sku", "must be at most 64 characters")
	}
	switch {
	case in.Name == "":
		verr.Add("name", "is required")
	case len(in.Name) > 255:
		verr.Add("name", "must be at most 255 characters")
	}
	if len(in.Barcode) > 64 {
		verr.Add("barcode", "must be at most 64 characters")
	}
	if in.Price < 0 {
		verr.Add("price", "must not be negative")
	}
	if in.Cost < 0 {
		verr.Add("cost", "must not be negative")
	}
	if in.Stock < 0 {
		verr.Add("stock", "must not be negative")
	}
	if in.MinStock < 0 {
		verr.Add("min_stock", "must not be negative")
	}

	if in.CategoryID != nil {
		ok, err := h.exists(ctx, &models.Category{}, *in.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			verr.Add("category_id", "unknown category")
		}
	}
	if in.BrandID != nil {
		ok, err := h.exists(ctx, &models.Brand{}, *in.BrandID)
		if err != nil {
			return err
		}
		if !ok {
			verr.Add("brand_id", "unknown brand")
		}
	}
	return verr.OrNil()
}

func (h *Handler) exists(ctx context.Context, model interface{}, id uint) (bool, error) {
	var n int64
	err := h.DB.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (in productInput) apply(p *models.Product) {
	p.SKU = in.SKU
	p.Name = in.Name
	p.Barcode = in.Barcode
	p.CategoryID = in.CategoryID
	p.BrandID = in.BrandID
	p.Price = in.Price
	p.Cost = in.Cost
	p.Stock = in.Stock
	p.MinStock = in.MinStock
}

// ListProducts supports ?q= (name or SKU), ?category_id= and ?low_stock=true.
func (h *Handler) ListProducts(c *gin.Context) {
	q := h.DB.WithContext(c.Request.Context()).
		Preload("Category").
		Preload("Brand").
		Order("name").
		Limit(listLimit)

	if term := strings.ToLower(strings.TrimSpace(c.Query("q"))); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}
	if raw := c.Query("category_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			fail(c, fieldError("category_id", "must be a number"))
			return
		}
		q = q.Where("category_id = ?", id)
	}
	if low, _ := strconv.ParseBool(c.Query("low_stock")); low {
		q = q.Where("stock > 0 AND stock <= min_stock")
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) GetProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var p models.Product
	err := h.DB.WithContext(c.Request.Context()).
		Preload("Category").
		Preload("Brand").
		First(&p, id).Error
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	if err := h.validateProduct(c.Request.Context(), &in); err != nil {
		fail(c, err)
		return
	}

	var p models.Product
	in.apply(&p)
	if err := h.DB.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		fail(c, err)
		return
	}

	h.audit(c, "product", p.ID, "create", "Created product "+p.SKU)
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in productInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	if err := h.validateProduct(c.Request.Context(), &in); err != nil {
		fail(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var p models.Product
	if err := db.First(&p, id).Error; err != nil {
		fail(c, err)
		return
	}
	before := p.Stock
	in.apply(&p)
	if err := db.Save(&p).Error; err != nil {
		fail(c, err)
		return
	}

	details := "Updated product " + p.SKU
	if before != p.Stock {
		details += fmt.Sprintf(" (stock %d -> %d)", before, p.Stock)
	}
	h.audit(c, "product", p.ID, "update", details)
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.deleteRecord(c, &models.Product{}, "product", id)
}

// deleteRecord soft-deletes one row and audits it.
func (h *Handler) deleteRecord(c *gin.Context, model interface{}, entity string, id uint) {
	res := h.DB.WithContext(c.Request.Context()).Delete(model, id)
	if res.Error != nil {
		fail(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	h.audit(c, entity, id, "delete", fmt.Sprintf("Deleted %s #%d", entity, id))
	c.Status(http.StatusNoContent)
}
