package auth

import (
	"strings"

	"stockdesk/internal/models"
)

const (
	minUsernameLen = 3
	maxUsernameLen = 100
	minPasswordLen = 6
	maxPasswordLen = 72 // bcrypt input limit
)

// Registration is the raw sign-up form.
type Registration struct {
	Username        string `form:"username" json:"username"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
	FullName        string `form:"full_name" json:"full_name"`
	Role            string `form:"role" json:"role"`
}

// Validate checks the form and returns the account to enroll.
// An empty ConfirmPassword is not compared, for API clients.
func (r Registration) Validate(allowed RoleSet) (Account, error) {
	verr := &ValidationError{}

	username := strings.TrimSpace(r.Username)
	switch {
	case username == "":
		verr.Add("username", "username is required")
	case len(username) < minUsernameLen:
		verr.Add("username", "username must be at least 3 characters")
	case len(username) > maxUsernameLen:
		verr.Add("username", "username is too long")
	case strings.ContainsAny(username, " \t\r\n"):
		verr.Add("username", "username must not contain spaces")
	}

	switch {
	case r.Password == "":
		verr.Add("password", "password is required")
	case len(r.Password) < minPasswordLen:
		verr.Add("password", "password must be at least 6 characters")
	case len(r.Password) > maxPasswordLen:
		verr.Add("password", "password is too long")
	}
	if r.ConfirmPassword != "" && r.ConfirmPassword != r.Password {
		verr.Add("confirm_password", "passwords do not match")
	}

	fullName := strings.TrimSpace(r.FullName)
	if fullName == "" {
		verr.Add("full_name", "full name is required")
	}

	role := models.UserRole(strings.ToLower(strings.TrimSpace(r.Role)))
	switch {
	case role == "":
		verr.Add("role", "role is required")
	case !role.Valid():
		verr.Add("role", "unknown role")
	case !allowed.Admits(role):
		verr.Add("role", "role is not open for registration")
	}

	if err := verr.OrNil(); err != nil {
		return Account{}, err
	}
	return Account{
		Username: username,
		Password: r.Password,
		FullName: fullName,
		Role:     role,
	}, nil
}
