package handlers

import (
	"net/http"
	"strings"

	"stockdesk/internal/auth"
	"stockdesk/internal/models"

	"github.com/gin-gonic/gin"
)

type categoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in *categoryInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	return validateName(in.Name, 100)
}

func validateName(name string, max int) error {
	verr := &auth.ValidationError{}
	switch {
	case name == "":
		verr.Add("name", "is required")
	case len(name) > max:
		verr.Add("name", "is too long")
	}
	return verr.OrNil()
}

func (h *Handler) ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := h.DB.WithContext(c.Request.Context()).Order("name").Find(&categories).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	if err := in.validate(); err != nil {
		fail(c, err)
		return
	}

	category := models.Category{Name: in.Name, Description: in.Description}
	if err := h.DB.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		fail(c, err)
		return
	}
	h.audit(c, "category", category.ID, "create", "Created category "+category.Name)
	c.JSON(http.StatusCreated, category)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in categoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	if err := in.validate(); err != nil {
		fail(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var category models.Category
	if err := db.First(&category, id).Error; err != nil {
		fail(c, err)
		return
	}
	category.Name = in.Name
	category.Description = in.Description
	if err := db.Save(&category).Error; err != nil {
		fail(c, err)
		return
	}
	h.audit(c, "category", category.ID, "update", "Updated category "+category.Name)
	c.JSON(http.StatusOK, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.deleteRecord(c, &models.Category{}, "category", id)
}

type brandInput struct {
	Name string `json:"name"`
}

func (h *Handler) ListBrands(c *gin.Context) {
	var brands []models.Brand
	if err := h.DB.WithContext(c.Request.Context()).Order("name").Find(&brands).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"brands": brands})
}

func (h *Handler) CreateBrand(c *gin.Context) {
	var in brandInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateName(in.Name, 100); err != nil {
		fail(c, err)
		return
	}

	brand := models.Brand{Name: in.Name}
	if err := h.DB.WithContext(c.Request.Context()).Create(&brand).Error; err != nil {
		fail(c, err)
		return
	}
	h.audit(c, "brand", brand.ID, "create", "Created brand "+brand.Name)
	c.JSON(http.StatusCreated, brand)
}

func (h *Handler) UpdateBrand(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var in brandInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badJSON(c)
		return
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validateName(in.Name, 100); err != nil {
		fail(c, err)
		return
	}

	db := h.DB.WithContext(c.Request.Context())
	var brand models.Brand
	if err := db.First(&brand, id).Error; err != nil {
		fail(c, err)
		return
	}
	brand.Name = in.Name
	if err := db.Save(&brand).Error; err != nil {
		fail(c, err)
		return
	}
	h.audit(c, "brand", brand.ID, "update", "Updated brand "+brand.Name)
	c.JSON(http.StatusOK, brand)
}

func (h *Handler) DeleteBrand(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	h.deleteRecord(c, &models.Brand{}, "brand", id)
}
