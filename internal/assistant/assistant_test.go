package assistant

import (
	"errors"
	"strings"
	"testing"

	"stockdesk/internal/auth"
)

func TestAnswer_PredefinedQuestion(t *testing.T) {
	for _, q := range Questions() {
		r, err := Answer(strings.ToUpper(q.Question))
		if err != nil {
			t.Fatalf("answer: %v", err)
		}
		if r.Question != q.ID {
			t.Errorf("%q matched %q, want %q", q.Question, r.Question, q.ID)
		}
	}
}

func TestAnswer_FragmentOfQuestion(t *testing.T) {
	r, _ := Answer("low stock alerts")
	if r.Question != "6" {
		t.Errorf("fragment matched %q", r.Question)
	}
}

func TestAnswer_LeadingWordsOfQuestion(t *testing.T) {
	r, _ := Answer("How can I check the dashboard?")
	if r.Question != "2" {
		t.Errorf("leading words matched %q", r.Question)
	}
}

func TestAnswer_KeywordFallbacks(t *testing.T) {
	cases := map[string]string{
		"where is my stock count":   "For inventory management",
		"refund a customer":         "For sales management",
		"export the chart":          "The Reports section",
		"change my permission":      "User management features",
		"print a label":             "The barcode system",
		"what's the weather today?": "I'm here to help",
	}
	for msg, prefix := range cases {
		r, err := Answer(msg)
		if err != nil {
			t.Fatalf("answer %q: %v", msg, err)
		}
		if r.Question != "" || !strings.HasPrefix(r.Text, prefix) {
			t.Errorf("%q -> %q (question %q)", msg, r.Text[:20], r.Question)
		}
	}
}

func TestAnswer_Empty_ValidationError(t *testing.T) {
	for _, msg := range []string{"", "   \n", strings.Repeat("x", maxMessageLen+1)} {
		_, err := Answer(msg)
		var verr *auth.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("expected ValidationError for %d chars, got %v", len(msg), err)
		}
	}
}

func TestQuestions_ReturnsCopy(t *testing.T) {
	qs := Questions()
	qs[0].Question = "changed"
	if Questions()[0].Question == "changed" {
		t.Error("Questions exposes the backing slice")
	}
}
