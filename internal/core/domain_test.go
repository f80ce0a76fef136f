package core

import (
	"errors"
	"testing"
	"time"
)

func validTemplate() Template {
	return Template{
		ID:          "t1",
		Name:        "Rent",
		Amount:      Money{Cents: 100000},
		Kind:        Expense,
		Periodicity: Monthly,
		Category:    "home",
		OriginDate:  NewDate(2025, 1, 5),
	}
}

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestDateOfIgnoresClockTime(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	got := DateOf(time.Date(2025, 3, 10, 23, 30, 0, 0, loc))
	if !got.Equal(NewDate(2025, 3, 10).Time) {
		t.Fatalf("DateOf = %s, want 2025-03-10", got)
	}
}

func TestDateKeyIsZeroPadded(t *testing.T) {
	// 1 December and 11 February must not collide.
	a := NewDate(2025, 12, 1).Key()
	b := NewDate(2025, 2, 11).Key()
	if a == b {
		t.Fatalf("keys collide: %s", a)
	}
	if a != "2025-12-01" || b != "2025-02-11" {
		t.Fatalf("unexpected keys %q %q", a, b)
	}
	d, err := ParseDate(a)
	if err != nil || !d.Equal(NewDate(2025, 12, 1).Time) {
		t.Fatalf("ParseDate(%q) = %v, %v", a, d, err)
	}
	if _, err := ParseDate("1-12-2025"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestMonthArithmetic(t *testing.T) {
	tests := []struct {
		name  string
		month Month
		days  int
		first time.Weekday
	}{
		{"february non leap", Month{2025, time.February}, 28, time.Saturday},
		{"february leap", Month{2024, time.February}, 29, time.Thursday},
		{"april", Month{2025, time.April}, 30, time.Tuesday},
		{"october", Month{2025, time.October}, 31, time.Wednesday},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.month.Days(); got != tt.days {
				t.Errorf("Days() = %d, want %d", got, tt.days)
			}
			if got := tt.month.First().Weekday(); got != tt.first {
				t.Errorf("First().Weekday() = %v, want %v", got, tt.first)
			}
			if _, ok := tt.month.Day(tt.days + 1); ok {
				t.Errorf("Day(%d) should not exist", tt.days+1)
			}
		})
	}

	if got := (Month{2025, time.January}).Add(-1); got != (Month{2024, time.December}) {
		t.Fatalf("Add(-1) = %v", got)
	}
	if got := (Month{2025, time.November}).Add(3); got != (Month{2026, time.February}) {
		t.Fatalf("Add(3) = %v", got)
	}
	m, err := ParseMonth("2025-02")
	if err != nil || m != (Month{2025, time.February}) || m.Key() != "2025-02" {
		t.Fatalf("ParseMonth = %v, %v", m, err)
	}
}

func TestTemplateValidate(t *testing.T) {
	if err := validTemplate().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Template)
		want   error
	}{
		{"empty name", func(tp *Template) { tp.Name = "  " }, ErrInvalidTemplate},
		{"negative amount", func(tp *Template) { tp.Amount = Money{Cents: -1} }, ErrInvalidTemplate},
		{"unknown kind", func(tp *Template) { tp.Kind = "transfer" }, ErrInvalidTemplate},
		{"unknown periodicity", func(tp *Template) { tp.Periodicity = "yearly" }, ErrInvalidTemplate},
		{"zero origin", func(tp *Template) { tp.OriginDate = Date{} }, ErrInvalidTemplate},
		{"stop before origin", func(tp *Template) { tp.StopDate = NewDate(2025, 1, 4) }, ErrInvalidTemplate},
		{"empty category", func(tp *Template) { tp.Category = "" }, ErrInvalidCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tp := validTemplate()
			tt.mutate(&tp)
			if err := tp.Validate(); !errors.Is(err, tt.want) {
				t.Fatalf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}

	zero := validTemplate()
	zero.Amount = Money{}
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should be accepted, got %v", err)
	}
}

func TestExceptionKeyRoundTrip(t *testing.T) {
	e := Exception{TemplateID: "abc@def", Date: NewDate(2025, 3, 10)}
	got, err := ParseExceptionKey(e.Key())
	if err != nil {
		t.Fatalf("ParseExceptionKey: %v", err)
	}
	if got.TemplateID != e.TemplateID || !got.Date.Equal(e.Date.Time) {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	for _, bad := range []string{"", "@2025-01-01", "id@", "id@1-1-2025", "no-separator"} {
		if _, err := ParseExceptionKey(bad); !errors.Is(err, ErrInvalidException) {
			t.Errorf("ParseExceptionKey(%q) = %v, want ErrInvalidException", bad, err)
		}
	}
}

func TestExceptionSetSuppressesOnlyThatDay(t *testing.T) {
	s := NewExceptionSet(Exception{TemplateID: "t1", Date: NewDate(2025, 3, 10)})
	if !s.Suppresses("t1", NewDate(2025, 3, 10)) {
		t.Fatal("expected suppression on 2025-03-10")
	}
	if s.Suppresses("t1", NewDate(2025, 3, 11)) || s.Suppresses("t2", NewDate(2025, 3, 10)) {
		t.Fatal("suppression leaked to another day or template")
	}
	if s.Add(Exception{TemplateID: "t1", Date: NewDate(2025, 3, 10)}) {
		t.Fatal("duplicate exception reported as new")
	}
}

func TestLedgerApply(t *testing.T) {
	l := NewLedger()
	l.Add(validTemplate())

	if !l.Apply(Mutation{Kind: AddException, TemplateID: "t1", Date: NewDate(2025, 2, 5)}) {
		t.Fatal("expected exception to be added")
	}
	if l.Apply(Mutation{Kind: AddException, TemplateID: "missing", Date: NewDate(2025, 2, 5)}) {
		t.Fatal("exception for unknown template should be a no-op")
	}
	if !l.Apply(Mutation{Kind: SetStopDate, TemplateID: "t1", Date: NewDate(2025, 6, 5)}) {
		t.Fatal("expected stop date to be set")
	}
	if l.Apply(Mutation{Kind: SetStopDate, TemplateID: "t1", Date: NewDate(2025, 6, 5)}) {
		t.Fatal("same stop date should not report a change")
	}
	if l.Apply(Mutation{Kind: SetStopDate, TemplateID: "t1", Date: NewDate(2025, 8, 5)}) {
		t.Fatal("later stop date must not extend the template")
	}
	tp, _ := l.Find("t1")
	if !tp.StopDate.Equal(NewDate(2025, 6, 5).Time) {
		t.Fatalf("stop date = %s", tp.StopDate)
	}
	if !l.Apply(Mutation{Kind: SetStopDate, TemplateID: "t1", Date: NewDate(2025, 4, 5)}) {
		t.Fatal("earlier stop date should move the stop")
	}
	tp, _ = l.Find("t1")
	if !tp.StopDate.Equal(NewDate(2025, 4, 5).Time) {
		t.Fatalf("stop date = %s, want 2025-04-05", tp.StopDate)
	}
	if !l.Apply(Mutation{Kind: RemoveTemplate, TemplateID: "t1"}) {
		t.Fatal("expected template removal")
	}
	if l.Apply(Mutation{Kind: RemoveTemplate, TemplateID: "t1"}) {
		t.Fatal("second removal should be a no-op")
	}
}

func TestRecordLedgerRoundTrip(t *testing.T) {
	l := NewLedger()
	stopped := validTemplate()
	stopped.StopDate = NewDate(2025, 4, 5)
	l.Add(stopped)
	l.Exceptions.Add(Exception{TemplateID: "t1", Date: NewDate(2025, 2, 5)})

	data, err := MarshalRecord(l.ToRecord())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rec, err := UnmarshalRecord(data)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := rec.Ledger()
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	tp, ok := got.Find("t1")
	if !ok || !tp.StopDate.Equal(stopped.StopDate.Time) || tp.Amount != stopped.Amount {
		t.Fatalf("template mismatch: %+v", tp)
	}
	if !got.Exceptions.Suppresses("t1", NewDate(2025, 2, 5)) {
		t.Fatal("exception lost in round trip")
	}

	if _, err := (Record{Exceptions: []string{"t1_5-2-2025"}}).Ledger(); err == nil {
		t.Fatal("expected error for legacy unpadded exception key")
	}
}

func TestParseDeleteMode(t *testing.T) {
	for _, s := range []string{"skip_occurrence", "stop_future", "delete_all"} {
		if _, err := ParseDeleteMode(s); err != nil {
			t.Errorf("ParseDeleteMode(%q): %v", s, err)
		}
	}
	if _, err := ParseDeleteMode("only_today"); !errors.Is(err, ErrInvalidDeleteMode) {
		t.Fatalf("expected ErrInvalidDeleteMode, got %v", err)
	}
}
