package core

import "time"

// DateFormat is the canonical wire and storage representation of a date.
const DateFormat = "2006-01-02"

// Date is a calendar day with no intra-day precision. All values are
// normalized to midnight UTC so equality means "same day".
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, int(m), d)
}

// ParseDate parses an ISO-8601 day string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return DateOf(t), nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Before reports whether d falls on an earlier day than x.
func (d Date) Before(x Date) bool {
	return d.Time.Before(x.Time)
}

// Equal reports whether d and x are the same day.
func (d Date) Equal(x Date) bool {
	return d.Time.Equal(x.Time)
}

func (d Date) String() string {
	return d.Format(DateFormat)
}
