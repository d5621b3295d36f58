package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"stockdesk/internal/auth"
	"stockdesk/internal/models"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_CountsAndExposes(t *testing.T) {
	m := New()
	m.Observe(context.Background(), auth.Event{Kind: auth.EventLogin, Session: auth.Session{Role: models.RoleAdmin}})
	m.Observe(context.Background(), auth.Event{Kind: auth.EventLogin, Session: auth.Session{Role: models.RoleAdmin}})
	m.AuthFailure("login", "invalid_credentials")
	m.GuardDecision("denied")

	if got := testutil.ToFloat64(m.sessionEvents.WithLabelValues("login", "admin")); got != 2 {
		t.Errorf("login events = %v", got)
	}

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`stockdesk_auth_failures_total{op="login",reason="invalid_credentials"} 1`,
		`stockdesk_guard_decisions_total{state="denied"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
