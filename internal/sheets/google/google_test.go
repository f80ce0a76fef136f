package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"saldo/internal/core"
)

func TestNewMissingSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), "  ")
	if err == nil || err.Error() != "missing GOOGLE_SPREADSHEET_ID" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewMissingCredentials(t *testing.T) {
	for _, k := range []string{"GOOGLE_SERVICE_ACCOUNT_JSON", "GOOGLE_SERVICE_ACCOUNT_FILE", "GOOGLE_APPLICATION_CREDENTIALS"} {
		t.Setenv(k, "")
	}
	_, err := New(context.Background(), "sheet-id")
	if err == nil || !strings.Contains(err.Error(), "missing service account credentials") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewUnreadableCredentialsFile(t *testing.T) {
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_JSON", "")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT_FILE", t.TempDir()+"/missing.json")
	if _, err := New(context.Background(), "sheet-id"); err == nil {
		t.Fatal("expected error for unreadable credentials file")
	}
}

type fakeSheets struct {
	mu      sync.Mutex
	titles  []string
	calls   []string
	updated [][]any
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodGet:
		var sheets []map[string]any
		for _, title := range f.titles {
			sheets = append(sheets, map[string]any{"properties": map[string]any{"title": title}})
		}
		json.NewEncoder(w).Encode(map[string]any{"sheets": sheets})
	case strings.HasSuffix(r.URL.Path, ":batchUpdate"):
		var req gsheet.BatchUpdateSpreadsheetRequest
		json.NewDecoder(r.Body).Decode(&req)
		for _, q := range req.Requests {
			if q.AddSheet != nil {
				f.titles = append(f.titles, q.AddSheet.Properties.Title)
			}
		}
		io.WriteString(w, `{}`)
	case strings.HasSuffix(r.URL.Path, ":clear"):
		io.WriteString(w, `{}`)
	case r.Method == http.MethodPut:
		var vr gsheet.ValueRange
		json.NewDecoder(r.Body).Decode(&vr)
		f.updated = vr.Values
		io.WriteString(w, `{}`)
	default:
		http.Error(w, "unexpected call", http.StatusNotFound)
	}
}

func TestWriteMonthViewCreatesSheetOnce(t *testing.T) {
	fake := &fakeSheets{titles: []string{"2025-09"}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	ctx := context.Background()
	svc, err := gsheet.NewService(ctx,
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
		goption.WithoutAuthentication())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	client := NewWithService(svc, "sheet-id")

	view := core.MonthView{
		Month:       core.Month{Year: 2025, Month: time.October},
		DaysInMonth: 31,
		Days: map[string][]core.Occurrence{
			"2025-10-05": {{Name: "Rent", Kind: core.Expense, Category: "home", Periodicity: core.Monthly, Amount: core.Money{Cents: 100000}}},
		},
	}
	for i := 0; i < 2; i++ {
		if err := client.WriteMonthView(ctx, view); err != nil {
			t.Fatalf("WriteMonthView: %v", err)
		}
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	adds := 0
	for _, c := range fake.calls {
		if strings.HasSuffix(c, ":batchUpdate") {
			adds++
		}
	}
	if adds != 1 {
		t.Fatalf("sheet added %d times, calls: %v", adds, fake.calls)
	}
	if len(fake.updated) < 2 || fake.updated[1][1] != "Rent" {
		t.Fatalf("updated values = %v", fake.updated)
	}
}
