package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"stockdesk/internal/auth"
	"stockdesk/internal/database"
	"stockdesk/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// FailureRecorder counts rejected logins and registrations.
type FailureRecorder interface {
	AuthFailure(op, reason string)
}

// Handler carries the dependencies every view needs.
type Handler struct {
	DB           *gorm.DB
	Sessions     *auth.Store
	Tokens       *auth.TokenIssuer
	Users        *database.UserRepository
	Failures     FailureRecorder
	CookieSecure bool
	Clock        func() time.Time
}

func (h *Handler) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

func (h *Handler) recordFailure(op string, err error) {
	if h.Failures == nil {
		return
	}
	reason := "error"
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		reason = "invalid_credentials"
	case errors.Is(err, auth.ErrIdentifierTaken):
		reason = "identifier_taken"
	case auth.IsValidationError(err):
		reason = "validation"
	}
	h.Failures.AuthFailure(op, reason)
}

// userID of the signed-in caller, 0 when anonymous.
func userID(c *gin.Context) uint {
	if sess := middleware.CurrentSession(c); sess != nil {
		return sess.UserID
	}
	return 0
}

func (h *Handler) audit(c *gin.Context, entity string, entityID uint, action, details string) {
	database.CreateAuditLog(h.DB.WithContext(c.Request.Context()), userID(c), entity, entityID, action, details)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

func fieldError(field, msg string) *auth.ValidationError {
	verr := &auth.ValidationError{}
	verr.Add(field, msg)
	return verr
}

// fail maps an error to a JSON response.
func fail(c *gin.Context, err error) {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
	case errors.Is(err, auth.ErrIdentifierTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "username already registered"})
	case errors.Is(err, database.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": gin.H{"quantity": "insufficient stock"}})
	case errors.Is(err, database.ErrAlreadyReceived):
		c.JSON(http.StatusConflict, gin.H{"error": "purchase already received"})
	case database.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case database.IsUniqueViolation(err):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	default:
		log.Printf("request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func badJSON(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
}
