package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"saldo/internal/core"
)

func TestRequestBodyParser_JSON(t *testing.T) {
	body := `{"name": " Rent ", "amount": 42.5, "kind": "expense"}`
	req := httptest.NewRequest(http.MethodPost, "/api/templates", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	parser := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !parser.IsJSON() {
		t.Error("Expected IsJSON() to be true")
	}

	f := parser.TemplateFields()
	if f.Name != "Rent" {
		t.Errorf("Name = %q, want 'Rent'", f.Name)
	}
	if f.Amount != "42.5" {
		t.Errorf("Amount = %q, want '42.5'", f.Amount)
	}
	if f.Kind != core.Expense {
		t.Errorf("Kind = %q", f.Kind)
	}
	if f.Date != "" {
		t.Errorf("Date = %q, want empty", f.Date)
	}
}

func TestRequestBodyParser_FormData(t *testing.T) {
	body := "name=Gym+fee&amount=30%2C00&periodicity=monthly"
	req := httptest.NewRequest(http.MethodPost, "/api/templates", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	parser := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if parser.IsJSON() {
		t.Error("Expected IsJSON() to be false for form data")
	}

	f := parser.TemplateFields()
	if f.Name != "Gym fee" || f.Amount != "30,00" || f.Periodicity != core.Monthly {
		t.Errorf("unexpected fields %+v", f)
	}
}

func TestRequestBodyParser_EmptyBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/templates", strings.NewReader(""))

	parser := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := parser.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if val := parser.Get("nonexistent"); val != "" {
		t.Errorf("Get('nonexistent') = %q, want empty string", val)
	}
}

func TestRequestBodyParser_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/templates", strings.NewReader(`{"name":`))

	parser := NewRequestBodyParser(httptest.NewRecorder(), req)
	if err := parser.Parse(); err == nil {
		t.Fatal("expected error for truncated JSON")
	}
	if err := parser.Parse(); err == nil {
		t.Fatal("second Parse should report the same error")
	}
}

func TestSanitizeInput(t *testing.T) {
	if got := sanitizeInput("  a\x00b\tc\x07 "); got != "ab\tc" {
		t.Fatalf("sanitizeInput = %q", got)
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"-1", -1, false},
		{" 12 ", 12, false},
		{"", 0, true},
		{"next", 0, true},
		{"5000", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseOffset(tt.in)
			if tt.wantErr {
				if !errors.Is(err, core.ErrInvalidMonth) {
					t.Fatalf("parseOffset(%q) err = %v, want ErrInvalidMonth", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Fatalf("parseOffset(%q) = %d, %v", tt.in, got, err)
			}
		})
	}
}
