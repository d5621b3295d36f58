package database

import (
	"log"

	"stockdesk/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type SeedUser struct {
	Username string
	FullName string
	Password string
	Role     models.UserRole
}

// DemoUsers are created next to the admin when demo seeding is on.
var DemoUsers = []SeedUser{
	{Username: "assistant@stockdesk.local", FullName: "Demo Assistant", Password: "Assist123!", Role: models.RoleAssistant},
	{Username: "cashier@stockdesk.local", FullName: "Demo Cashier", Password: "Cash123!", Role: models.RoleCashier},
}

// EnsureAdmin creates the admin account unless some admin already exists.
// Admins only come from configuration.
func EnsureAdmin(db *gorm.DB, username, password string) {
	var count int64
	if err := db.Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&count).Error; err != nil {
		log.Printf("failed to check admin user: %v", err)
		return
	}
	if count > 0 {
		return
	}

	if createUser(db, SeedUser{Username: username, FullName: "Administrator", Password: password, Role: models.RoleAdmin}) {
		log.Printf("created default admin user: %s", username)
	}
}

// SeedUsers creates the given accounts, skipping usernames that exist.
func SeedUsers(db *gorm.DB, users []SeedUser) {
	for _, u := range users {
		var count int64
		if err := db.Model(&models.User{}).
			Where("username = ?", u.Username).
			Count(&count).Error; err != nil {
			log.Printf("failed to check seed user %s: %v", u.Username, err)
			continue
		}
		if count > 0 {
			continue
		}
		if createUser(db, u) {
			log.Printf("created seed user: %s (role=%s)", u.Username, u.Role)
		}
	}
}

func createUser(db *gorm.DB, u SeedUser) bool {
	hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("failed to hash password for %s: %v", u.Username, err)
		return false
	}
	user := models.User{
		Username:     u.Username,
		FullName:     u.FullName,
		PasswordHash: string(hash),
		Role:         u.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("failed to create user %s: %v", u.Username, err)
		return false
	}
	return true
}
