package handlers

import (
	"net/http"
	"net/mail"
	"strings"

	"stockdesk/internal/auth"
	"stockdesk/internal/models"

	"github.com/gin-gonic/gin"
)

type vendorInput struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

func (in *vendorInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.ContactName = strings.TrimSpace(in.ContactName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)

	verr := &auth.ValidationError{}
	switch {
	case in.Name == "":
		verr.Add("name", "is required")
	case len(in.Name) > 255:
		verr.Add("name", "is too long")
	}
	if in.Email != "" {
		if _, err := mail.ParseAddress(in.Email); err != nil {
			verr.Add("email", "is not a valid address")
		}
	}
	if len(in.Phone) > 50 {
		verr.Add("phone", "is too long")
	}
	return verr.OrNil()
}

func (in vendorInput) apply(v *models.Vendor) {
	v.Name = in.Name
	v.ContactName = in.ContactName
	v.Email = in.Email
	v.Phone = in.Phone
	v.Address = in.Address
}

func (h *Handler) ListVendors(c *gin.Context) {
	var vendors []models.Vendor
	if err := h.DB.WithContext(c.Request.Context()).Order("name").Find(&vendors).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vendors": vendors})
}

func (h *Handler) CreateVendor(c *gin.Context) {
	var in vendorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	if err := in.validate(); err != nil {
		fail(c, err)
		return
	}

	var vendor models.Vendor
	in.apply(&vendor)
	if err := h.DB.WithContext(c.Request.Context()).Create(&vendor).Error; err != nil {
		fail(c, err)
		return
	}
	h.audit(c, "vendor", vendor.ID, "create", "Created vendor "+vendor.Name)
	c.JSON(http.StatusCreated, vendor)
}

func (h *Handler) UpdateVendor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in vendorInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	if err := in.validate(); err != nil {
		fail(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var vendor models.Vendor
	if err := db.First(&vendor, id).Error; err != nil {
		fail(c, err)
		return
	}
	in.apply(&vendor)
	if err := db.Save(&vendor).Error; err != nil {
		fail(c, err)
		return
	}
	h.audit(c, "vendor", vendor.ID, "update", "Updated vendor "+vendor.Name)
	c.JSON(http.StatusOK, vendor)
}

func (h *Handler) DeleteVendor(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.deleteRecord(c, &models.Vendor{}, "vendor", id)
}
