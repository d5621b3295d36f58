package middleware

import (
	"net/http"
	"strings"

	"stockdesk/internal/auth"
	"stockdesk/internal/guard"
	"stockdesk/internal/models"

	"github.com/gin-gonic/gin"
)

// DecisionRecorder is told about every guard outcome.
type DecisionRecorder interface {
	GuardDecision(state string)
}

// Guard builds role-gated middleware sharing one recorder.
type Guard struct {
	Recorder DecisionRecorder
}

// RequireAuth admits any signed-in role.
func (g Guard) RequireAuth() gin.HandlerFunc {
	return g.RequireRole()
}

// RequireRole admits sessions whose role is in roles. No roles means any role.
func (g Guard) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	allowed := auth.NewRoleSet(roles...)

	return func(c *gin.Context) {
		state := guard.Evaluate(Resolved(c), CurrentSession(c), allowed)
		if g.Recorder != nil {
			g.Recorder.GuardDecision(state.String())
		}

		switch state {
		case guard.Authorized:
			c.Next()
		case guard.Loading:
			c.Header("Retry-After", "1")
			if IsAPI(c) {
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session check pending, retry shortly"})
				return
			}
			c.HTML(http.StatusServiceUnavailable, "loading.html", gin.H{})
			c.Abort()
		case guard.Unauthenticated:
			if IsAPI(c) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
				return
			}
			c.Redirect(http.StatusFound, guard.LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
		default:
			if IsAPI(c) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
				return
			}
			c.HTML(http.StatusForbidden, "denied.html", gin.H{"CurrentSession": CurrentSession(c)})
			c.Abort()
		}
	}
}

// IsAPI reports whether the request expects JSON rather than a page.
func IsAPI(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}
