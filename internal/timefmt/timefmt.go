// Package timefmt converts between instants and the canonical
// "YYYY-MM-DD HH:MM:SS" strings stored in every persisted document.
// All canonical strings are expressed in the fixed display zone (UTC+9).
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	// Layout is the canonical time layout.
	Layout = "2006-01-02 15:04:05"
	// DateLayout is the date-only prefix of Layout.
	DateLayout = "2006-01-02"
	// MonthLayout is the month-only prefix of Layout.
	MonthLayout = "2006-01"

	displayOffset = 9 * 60 * 60
)

// Zone is the display timezone. It is a fixed offset so that formatting never
// depends on the host locale.
var Zone = time.FixedZone("UTC+9", displayOffset)

var ErrInvalidTime = errors.New("invalid time")

// Clock supplies the current instant.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Now returns the clock's current instant in canonical form.
func Now(c Clock) string {
	return ToCanonical(c.Now())
}

// ToCanonical formats t in the display zone.
func ToCanonical(t time.Time) string {
	return t.In(Zone).Format(Layout)
}

// ParseCanonical is the inverse of ToCanonical.
func ParseCanonical(s string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, s, Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not %s", ErrInvalidTime, s, Layout)
	}
	return t, nil
}

// MustParseCanonical panics on malformed input. Only for tests and constants.
func MustParseCanonical(s string) time.Time {
	t, err := ParseCanonical(s)
	if err != nil {
		panic(err)
	}
	return t
}

// ForeignISOToCanonical accepts RFC 3339 timestamps with an offset or a Z
// suffix, and bare dates. A bare date is UTC midnight, so it renders as
// 09:00:00 in the display zone.
func ForeignISOToCanonical(iso string) (string, error) {
	s := strings.TrimSpace(iso)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ToCanonical(t), nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return ToCanonical(t), nil
	}
	// Offsets without a colon ("+0900") appear in some exports.
	if t, err := time.Parse("2006-01-02T15:04:05Z0700", s); err == nil {
		return ToCanonical(t), nil
	}
	return "", fmt.Errorf("%w: cannot parse %q as ISO-8601", ErrInvalidTime, iso)
}

// ExtractDate returns the date prefix of a canonical string. Strings without a
// space are returned unchanged.
func ExtractDate(s string) string {
	if strings.Contains(s, " ") && len(s) >= 10 {
		return s[:10]
	}
	return s
}

// ExtractMonth returns the YYYY-MM prefix of a date or canonical string.
func ExtractMonth(s string) string {
	if len(s) >= 7 {
		return s[:7]
	}
	return s
}

// CompareDates orders two YYYY-MM-DD strings. The format is fixed width, so
// byte order is calendar order.
func CompareDates(a, b string) int {
	return strings.Compare(a, b)
}

// Today returns the clock's current date in the display zone.
func Today(c Clock) string {
	return ExtractDate(Now(c))
}

// AddDays shifts a YYYY-MM-DD date by n days.
func AddDays(date string, n int) (string, error) {
	t, err := time.ParseInLocation(DateLayout, date, Zone)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not %s", ErrInvalidTime, date, DateLayout)
	}
	return t.AddDate(0, 0, n).Format(DateLayout), nil
}

// SecondsBetween returns whole seconds from start to end, truncating
// sub-second remainders.
func SecondsBetween(start, end time.Time) int64 {
	return int64(end.Sub(start) / time.Second)
}
