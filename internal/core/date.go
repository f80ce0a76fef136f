package core

import (
	"errors"
	"fmt"
	"time"
)

// DateKeyLayout is the zero-padded layout used for every persisted date key.
const DateKeyLayout = "2006-01-02"

const monthKeyLayout = "2006-01"

var (
	ErrInvalidDate  = errors.New("invalid date")
	ErrInvalidMonth = errors.New("invalid month")
)

type (
	// Date is a calendar day. The embedded time is always midnight UTC so
	// values compare with Equal/Before/After without zone surprises.
	Date struct {
		time.Time
	}

	// Month identifies a calendar month.
	Month struct {
		Year  int
		Month time.Month
	}
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses a YYYY-MM-DD key.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateKeyLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return fmt.Errorf("%w: date cannot be zero", ErrInvalidDate)
	}
	return nil
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// IsEmpty returns true if the date is zero (optional dates)
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

// Key is the stable, injective YYYY-MM-DD form of the date.
func (d Date) Key() string {
	return d.Format(DateKeyLayout)
}

func (d Date) String() string {
	return d.Key()
}

// MonthOf returns the month containing d.
func MonthOf(d Date) Month {
	return Month{Year: d.Year(), Month: time.Month(d.Month())}
}

// NewMonth normalizes out-of-range months (13 -> January of next year).
func NewMonth(year int, month time.Month) Month {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a YYYY-MM key.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse(monthKeyLayout, s)
	if err != nil {
		return Month{}, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// First is the first day of the month.
func (m Month) First() Date {
	return NewDate(m.Year, int(m.Month), 1)
}

// Last is the last day of the month.
func (m Month) Last() Date {
	return NewDate(m.Year, int(m.Month), m.Days())
}

// Days is the number of days in the month.
func (m Month) Days() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Day returns the given day of the month. ok is false when the month is
// shorter than day.
func (m Month) Day(day int) (Date, bool) {
	if day < 1 || day > m.Days() {
		return Date{}, false
	}
	return NewDate(m.Year, int(m.Month), day), true
}

// Contains reports whether d falls inside the month.
func (m Month) Contains(d Date) bool {
	return d.Year() == m.Year && time.Month(d.Month()) == m.Month
}

// Add moves the month by offset months.
func (m Month) Add(offset int) Month {
	return NewMonth(m.Year, m.Month+time.Month(offset))
}

// Key is the YYYY-MM form of the month.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) String() string {
	return m.Key()
}
