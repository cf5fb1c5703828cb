package adherence

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Civil day (schedules and activities are keyed by calendar date)
// =============================================================================

type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func Today() Date {
	return DateOf(time.Now().UTC())
}

func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD): %w", s, err)
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool  { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool  { return d.Time.Equal(other.Time) }
func (d Date) IsZero() bool           { return d.Time.IsZero() }

// InRange reports whether d falls within [from, to] inclusive.
func (d Date) InRange(from, to Date) bool {
	return !d.Before(from) && !d.After(to)
}

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }

// Properties
func (d Date) Weekday() time.Weekday { return d.Time.Weekday() }
func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
func (d Date) IsWorkday() bool { return !d.IsWeekend() }

// At returns the instant at the given minute-of-day on this date.
func (d Date) At(m ClockMinute) time.Time {
	return d.Time.Add(time.Duration(m) * time.Minute)
}

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// MarshalJSON/UnmarshalJSON keep the wire format a plain YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid date %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// =============================================================================
// CLOCK MINUTE - Minute of day (all overlap math happens in this unit)
// =============================================================================

type ClockMinute int

const EndOfDay ClockMinute = 24 * 60

// Operating window: adherence is computed over 08:00-20:00 only.
const (
	OpeningHour             = 8
	ClosingHour             = 20
	WindowStart ClockMinute = OpeningHour * 60
	WindowEnd   ClockMinute = ClosingHour * 60
)

func NewClock(hour, minute int) ClockMinute {
	return ClockMinute(hour*60 + minute)
}

func ClockOf(t time.Time) ClockMinute {
	return NewClock(t.Hour(), t.Minute())
}

func (c ClockMinute) Hour() int   { return int(c) / 60 }
func (c ClockMinute) Minute() int { return int(c) % 60 }

func (c ClockMinute) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// ClampToWindow truncates a [start, end) span to the operating window.
// Returns ok=false when the span lies entirely outside the window.
func ClampToWindow(start, end ClockMinute) (ClockMinute, ClockMinute, bool) {
	if start < WindowStart {
		start = WindowStart
	}
	if end > WindowEnd {
		end = WindowEnd
	}
	if start >= end {
		return 0, 0, false
	}
	return start, end, true
}

// Overlaps applies the half-open interval test: [start, end) overlaps the
// minute [m, m+1) iff start < m+1 AND end > m. Exact boundary touches do
// not count.
func Overlaps(start, end, m ClockMinute) bool {
	return start < m+1 && end > m
}
