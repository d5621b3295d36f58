package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"stockdesk/internal/auth"
	"stockdesk/internal/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func TestFail_StatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		err    error
		status int
	}{
		{fieldError("name", "is required"), http.StatusBadRequest},
		{&auth.AuthError{Op: "login", Err: auth.ErrInvalidCredentials}, http.StatusUnauthorized},
		{&auth.AuthError{Op: "register", Err: auth.ErrIdentifierTaken}, http.StatusConflict},
		{database.ErrInsufficientStock, http.StatusBadRequest},
		{fmt.Errorf("receive: %w", database.ErrAlreadyReceived), http.StatusConflict},
		{gorm.ErrRecordNotFound, http.StatusNotFound},
		{gorm.ErrDuplicatedKey, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/x", nil)

		fail(c, tt.err)
		if rec.Code != tt.status {
			t.Errorf("fail(%v) = %d, want %d", tt.err, rec.Code, tt.status)
		}
	}
}

func TestParseID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for raw, want := range map[string]bool{"1": true, "42": true, "0": false, "-1": false, "abc": false} {
		rec := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(rec)
		c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/products/"+raw, nil)
		c.Params = gin.Params{{Key: "id", Value: raw}}

		_, ok := parseID(c)
		if ok != want {
			t.Errorf("parseID(%q) ok = %v, want %v", raw, ok, want)
		}
		if !ok && rec.Code != http.StatusBadRequest {
			t.Errorf("parseID(%q) status = %d", raw, rec.Code)
		}
	}
}
