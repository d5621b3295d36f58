package middleware

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stockdesk/internal/auth"
	"stockdesk/internal/models"

	"github.com/gin-gonic/gin"
)

type countingRecorder map[string]int

func (r countingRecorder) GuardDecision(state string) { r[state]++ }

// newGuarded serves path behind RequireRole(roles...) with a fixed
// session check outcome. It reports whether the view ran.
func newGuarded(t *testing.T, path string, resolved bool, sess *auth.Session, rec DecisionRecorder, roles ...models.UserRole) (*gin.Engine, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	tmpl := template.Must(template.New("denied.html").Parse(`denied`))
	template.Must(tmpl.New("loading.html").Parse(`loading`))
	r.SetHTMLTemplate(tmpl)

	r.Use(func(c *gin.Context) {
		if resolved {
			c.Set(resolvedCtxKey, true)
		}
		if sess != nil {
			c.Set(sessionCtxKey, sess)
		}
	})

	ran := false
	g := Guard{Recorder: rec}
	r.GET(path, g.RequireRole(roles...), func(c *gin.Context) {
		ran = true
		c.String(http.StatusOK, "view")
	})
	return r, &ran
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// subsets of every role, including the empty set.
func roleSubsets() [][]models.UserRole {
	var out [][]models.UserRole
	n := len(models.AllRoles)
	for mask := 0; mask < 1<<n; mask++ {
		var set []models.UserRole
		for i, r := range models.AllRoles {
			if mask&(1<<i) != 0 {
				set = append(set, r)
			}
		}
		out = append(out, set)
	}
	return out
}

func TestRequireRole_RoleOutsideSetNeverReachesView(t *testing.T) {
	for _, set := range roleSubsets() {
		for _, role := range models.AllRoles {
			allowed := len(set) == 0
			for _, r := range set {
				if r == role {
					allowed = true
				}
			}

			for _, path := range []string{"/page", "/api/v1/thing"} {
				r, ran := newGuarded(t, path, true, &auth.Session{Role: role}, nil, set...)
				rec := serve(r, path)

				if *ran != allowed {
					t.Errorf("set %v role %s %s: view ran = %v, want %v", set, role, path, *ran, allowed)
				}
				if !allowed && rec.Code != http.StatusForbidden {
					t.Errorf("set %v role %s %s: status %d, want 403", set, role, path, rec.Code)
				}
			}
		}
	}
}

func TestRequireRole_UnknownRoleDenied(t *testing.T) {
	r, ran := newGuarded(t, "/page", true, &auth.Session{Role: "superuser"}, nil)
	if rec := serve(r, "/page"); rec.Code != http.StatusForbidden || *ran {
		t.Errorf("status %d, ran %v", rec.Code, *ran)
	}
}

func TestRequireRole_States(t *testing.T) {
	cashier := &auth.Session{Role: models.RoleCashier}

	tests := []struct {
		name     string
		path     string
		resolved bool
		sess     *auth.Session
		status   int
		location string
		body     string
		state    string
	}{
		{name: "page loading", path: "/page", status: http.StatusServiceUnavailable, body: "loading", state: "loading"},
		{name: "api loading", path: "/api/v1/thing", status: http.StatusServiceUnavailable, state: "loading"},
		{name: "page signed out", path: "/page?tab=2", resolved: true, status: http.StatusFound, location: "/login?next=%2Fpage%3Ftab%3D2", state: "unauthenticated"},
		{name: "api signed out", path: "/api/v1/thing", resolved: true, status: http.StatusUnauthorized, state: "unauthenticated"},
		{name: "page denied", path: "/page", resolved: true, sess: cashier, status: http.StatusForbidden, body: "denied", state: "denied"},
		{name: "api denied", path: "/api/v1/thing", resolved: true, sess: cashier, status: http.StatusForbidden, state: "denied"},
		{name: "admin", path: "/page", resolved: true, sess: &auth.Session{Role: models.RoleAdmin}, status: http.StatusOK, body: "view", state: "authorized"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts := countingRecorder{}
			route, _, _ := strings.Cut(tt.path, "?")
			r, ran := newGuarded(t, route, tt.resolved, tt.sess, counts, models.RoleAdmin)
			rec := serve(r, tt.path)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if *ran != (tt.status == http.StatusOK) {
				t.Errorf("view ran = %v", *ran)
			}
			if tt.location != "" && rec.Header().Get("Location") != tt.location {
				t.Errorf("Location = %q, want %q", rec.Header().Get("Location"), tt.location)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.body)
			}
			if tt.status == http.StatusServiceUnavailable && rec.Header().Get("Retry-After") != "1" {
				t.Errorf("missing Retry-After")
			}
			if counts[tt.state] != 1 {
				t.Errorf("recorded %v, want one %q", counts, tt.state)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]struct {
		token string
		ok    bool
	}{
		"Bearer abc":  {"abc", true},
		"Bearer  abc": {"abc", true},
		"Bearer ":     {"", false},
		"Basic abc":   {"", false},
		"":            {"", false},
	}
	for header, want := range tests {
		token, ok := bearerToken(header)
		if token != want.token || ok != want.ok {
			t.Errorf("bearerToken(%q) = %q, %v", header, token, ok)
		}
	}
}
