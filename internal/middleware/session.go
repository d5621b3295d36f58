package middleware

import (
	"log"
	"strings"

	"stockdesk/internal/auth"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionCtxKey  = "CurrentSession"
	resolvedCtxKey = "SessionResolved"
	holderCtxKey   = "SessionHolder"
)

// ResolveSession runs the session check once per request and stores the
// result in the gin context. A bearer token takes precedence over the cookie.
func ResolveSession(store *auth.Store, tokens *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var holder auth.Holder
		if raw, ok := bearerToken(c.GetHeader("Authorization")); ok {
			sid, err := tokens.Parse(raw)
			if err != nil {
				// an invalid token is a signed-out client, not a pending check.
				// An empty token holder keeps the cookie out of this request.
				c.Set(holderCtxKey, auth.NewTokenHolder(""))
				c.Set(resolvedCtxKey, true)
				c.Next()
				return
			}
			holder = auth.NewTokenHolder(sid)
		} else {
			holder = sessions.Default(c)
		}
		c.Set(holderCtxKey, holder)

		sess, err := store.Current(c.Request.Context(), holder)
		if err != nil {
			log.Printf("session check failed: %v", err)
			c.Next()
			return
		}
		c.Set(resolvedCtxKey, true)
		if sess != nil {
			c.Set(sessionCtxKey, sess)
		}
		c.Next()
	}
}

// CurrentSession returns the session resolved for this request, if any.
func CurrentSession(c *gin.Context) *auth.Session {
	if v, ok := c.Get(sessionCtxKey); ok {
		if sess, ok := v.(*auth.Session); ok {
			return sess
		}
	}
	return nil
}

// Resolved reports whether the session check for this request completed.
func Resolved(c *gin.Context) bool {
	return c.GetBool(resolvedCtxKey)
}

// Holder returns where this request's session id lives: the cookie session
// or, for bearer requests, the token.
func Holder(c *gin.Context) auth.Holder {
	if v, ok := c.Get(holderCtxKey); ok {
		if h, ok := v.(auth.Holder); ok {
			return h
		}
	}
	return sessions.Default(c)
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}
	token := strings.TrimSpace(value[len(bearer):])
	if token == "" {
		return "", false
	}
	return token, true
}
