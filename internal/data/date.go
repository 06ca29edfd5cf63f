// internal/data/date.go
package data

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// dateLayout is the wire format for calendar dates, e.g. "2026-02-14".
const dateLayout = "2006-01-02"

// Date is a calendar date with no time-of-day component, normalized to
// midnight UTC at every entry point (JSON, SQL, constructors). Birth
// dates, death dates and loan due dates are all plain dates.
type Date struct {
	time.Time
}

// NewDate builds a Date from a time.Time, discarding the clock and location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date.
func Today() Date {
	return NewDate(time.Now())
}

// AddDays returns the date n days after d. Negative n goes backwards.
func (d Date) AddDays(n int) Date {
	return Date{d.Time.AddDate(0, 0, n)}
}

// AddWeeks returns the date n weeks after d.
func (d Date) AddWeeks(n int) Date {
	return d.AddDays(7 * n)
}

// String renders the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Time.Format(dateLayout)
}

// MarshalJSON renders the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a quoted YYYY-MM-DD string. Anything else,
// including a full RFC 3339 timestamp, is rejected so clients cannot
// smuggle a time-of-day through the API.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q: must use YYYY-MM-DD format", s)
	}
	*d = Date{t}
	return nil
}

// Value implements driver.Valuer so a Date can be passed directly as a
// query argument for a DATE column.
func (d Date) Value() (driver.Value, error) {
	return d.Time, nil
}

// Scan implements sql.Scanner, accepting the time.Time that lib/pq
// produces for DATE columns.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case nil:
		*d = Date{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}
