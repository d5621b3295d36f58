package models

import "gorm.io/gorm"

type SaleStatus string
type PurchaseStatus string

const (
	SaleCompleted SaleStatus = "completed"

	PurchasePending  PurchaseStatus = "pending"
	PurchaseReceived PurchaseStatus = "received"
)

type Sale struct {
	gorm.Model
	Customer string `gorm:"size:255" json:"customer"`

	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `json:"product"`

	Quantity  int        `gorm:"not null" json:"quantity"`
	UnitPrice float64    `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Total     float64    `gorm:"type:numeric(12,2);not null" json:"total"`
	Status    SaleStatus `gorm:"type:varchar(20);not null" json:"status"`

	CashierID uint `json:"cashier_id"` // User.ID who rang the sale
}

type Purchase struct {
	gorm.Model
	VendorID uint   `gorm:"not null" json:"vendor_id"`
	Vendor   Vendor `json:"vendor"`

	ProductID uint    `gorm:"not null" json:"product_id"`
	Product   Product `json:"product"`

	Quantity int            `gorm:"not null" json:"quantity"`
	UnitCost float64        `gorm:"type:numeric(12,2);not null" json:"unit_cost"`
	Total    float64        `gorm:"type:numeric(12,2);not null" json:"total"`
	Status   PurchaseStatus `gorm:"type:varchar(20);not null" json:"status"`

	CreatedByID uint `json:"created_by_id"`
}
