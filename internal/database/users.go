package database

import (
	"context"
	"errors"
	"strings"

	"stockdesk/internal/auth"
	"stockdesk/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserRepository is the identity provider backed by the users table.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func identityOf(u *models.User) *auth.Identity {
	return &auth.Identity{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: u.FullName,
		Role:        u.Role,
	}
}

// dummyHash keeps the miss path as slow as a real comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("stockdesk-dummy"), bcrypt.DefaultCost)

func (r *UserRepository) Authenticate(ctx context.Context, identifier, secret string) (*auth.Identity, error) {
	identifier = strings.TrimSpace(identifier)

	var user models.User
	err := r.db.WithContext(ctx).Where("username = ?", identifier).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(secret))
		return nil, auth.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(secret)); err != nil {
		return nil, auth.ErrInvalidCredentials
	}
	return identityOf(&user), nil
}

func (r *UserRepository) Enroll(ctx context.Context, acct auth.Account) (*auth.Identity, error) {
	db := r.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", acct.Username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, auth.ErrIdentifierTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(acct.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{
		Username:     acct.Username,
		FullName:     acct.FullName,
		PasswordHash: string(hash),
		Role:         acct.Role,
	}
	if err := db.Create(&user).Error; err != nil {
		// lost a race with a concurrent sign-up
		if IsUniqueViolation(err) {
			return nil, auth.ErrIdentifierTaken
		}
		return nil, err
	}
	return identityOf(&user), nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("username").Find(&users).Error
	return users, err
}
