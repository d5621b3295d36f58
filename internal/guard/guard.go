// Package guard decides whether a requested view may render for the
// session resolved on the current request.
package guard

import (
	"net/url"
	"strings"

	"stockdesk/internal/auth"
	"stockdesk/internal/models"
)

type State int

const (
	// Loading: the session check has not resolved yet.
	Loading State = iota
	Authorized
	Unauthenticated
	Denied
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Authorized:
		return "authorized"
	case Unauthenticated:
		return "unauthenticated"
	case Denied:
		return "denied"
	}
	return "unknown"
}

const (
	LoginPath     = "/login"
	LogoutPath    = "/logout"
	RegisterPath  = "/register"
	DashboardPath = "/dashboard"
	apiPrefix     = "/api"
)

// noReturn are paths a browser must not be sent back to after sign-in.
var noReturn = []string{LoginPath, LogoutPath, RegisterPath, apiPrefix}

// under reports whether p is prefix itself or lies beneath it.
func under(p, prefix string) bool {
	if !strings.HasPrefix(p, prefix) {
		return false
	}
	rest := p[len(prefix):]
	return rest == "" || rest[0] == '/' || rest[0] == '?'
}

// Evaluate is the whole decision. It has no side effects.
func Evaluate(resolved bool, sess *auth.Session, allowed auth.RoleSet) State {
	switch {
	case !resolved:
		return Loading
	case sess == nil:
		return Unauthenticated
	case !allowed.Admits(sess.Role):
		return Denied
	}
	return Authorized
}

// HomeFor is the landing view after sign-in. Every role lands on the
// dashboard, which admits every role.
func HomeFor(role models.UserRole) string {
	return DashboardPath
}

// LoginRedirect builds the sign-in URL that returns to path afterwards.
func LoginRedirect(path string) string {
	if !IsLocalPath(path) || path == LoginPath {
		return LoginPath
	}
	return LoginPath + "?next=" + url.QueryEscape(path)
}

// AfterLogin picks where to send a freshly signed-in role.
func AfterLogin(next string, role models.UserRole) string {
	if !IsLocalPath(next) {
		return HomeFor(role)
	}
	for _, p := range noReturn {
		if under(next, p) {
			return HomeFor(role)
		}
	}
	return next
}

// IsLocalPath accepts absolute paths on this host only.
func IsLocalPath(p string) bool {
	if p == "" || p[0] != '/' || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return false
	}
	u, err := url.Parse(p)
	return err == nil && u.Scheme == "" && u.Host == ""
}
