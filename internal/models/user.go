package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleAssistant UserRole = "assistant"
	RoleCashier   UserRole = "cashier"
)

// AllRoles lists every role in display order.
var AllRoles = []UserRole{RoleAdmin, RoleAssistant, RoleCashier}

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAssistant, RoleCashier:
		return true
	}
	return false
}

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:100;not null" json:"username"`
	FullName     string   `gorm:"size:255;not null" json:"full_name"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
}
