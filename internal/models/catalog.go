package models

import "gorm.io/gorm"

type Category struct {
	gorm.Model
	Name        string `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

type Brand struct {
	gorm.Model
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

type Product struct {
	gorm.Model
	SKU     string `gorm:"size:64;uniqueIndex;not null" json:"sku"`
	Name    string `gorm:"size:255;not null" json:"name"`
	Barcode string `gorm:"size:64" json:"barcode"` // falls back to SKU when empty

	CategoryID *uint     `json:"category_id"`
	Category   *Category `json:"category,omitempty"`
	BrandID    *uint     `json:"brand_id"`
	Brand      *Brand    `json:"brand,omitempty"`

	Price    float64 `gorm:"type:numeric(12,2);not null" json:"price"`
	Cost     float64 `gorm:"type:numeric(12,2)" json:"cost"`
	Stock    int     `gorm:"not null;default:0" json:"stock"`
	MinStock int     `gorm:"not null;default:0" json:"min_stock"`
}

// BarcodeValue is the value printed on the product label.
func (p Product) BarcodeValue() string {
	if p.Barcode != "" {
		return p.Barcode
	}
	return p.SKU
}
