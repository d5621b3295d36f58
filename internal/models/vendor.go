package models

import "gorm.io/gorm"

type Vendor struct {
	gorm.Model
	Name        string `gorm:"size:255;not null" json:"name"`
	ContactName string `gorm:"size:255" json:"contact_name"`
	Email       string `gorm:"size:255" json:"email"`
	Phone       string `gorm:"size:50" json:"phone"`
	Address     string `gorm:"type:text" json:"address"`
}
