// Package timecard records daily attendance as alternating check-in and
// check-out entries keyed by date.
package timecard

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/christopherklint97/daylog/internal/timefmt"
)

// EntryType is either a check-in ("start") or a check-out ("end").
type EntryType string

const (
	EntryStart EntryType = "start"
	EntryEnd   EntryType = "end"
)

var (
	ErrInvalidEntry = errors.New("invalid timecard entry")
	ErrValidation   = errors.New("invalid timecard data")
)

// Entry is one check-in or check-out.
type Entry struct {
	Type EntryType `json:"type" jsonschema:"enum=start,enum=end"`
	Time string    `json:"time"`
}

// NewEntry validates and builds an entry.
func NewEntry(typ EntryType, ts string) (Entry, error) {
	if typ != EntryStart && typ != EntryEnd {
		return Entry{}, fmt.Errorf("%w: type must be %q or %q, got %q", ErrInvalidEntry, EntryStart, EntryEnd, typ)
	}
	if ts == "" {
		return Entry{}, fmt.Errorf("%w: time is required", ErrInvalidEntry)
	}
	return Entry{Type: typ, Time: ts}, nil
}

// CreateCheckInEntry returns a start entry at the clock's current time.
func CreateCheckInEntry(clock timefmt.Clock) Entry {
	return Entry{Type: EntryStart, Time: timefmt.Now(clock)}
}

// CreateCheckOutEntry returns an end entry at the clock's current time.
func CreateCheckOutEntry(clock timefmt.Clock) Entry {
	return Entry{Type: EntryEnd, Time: timefmt.Now(clock)}
}

// Date is the entry's own date.
func (e Entry) Date() string { return timefmt.ExtractDate(e.Time) }

// UnmarshalJSON rejects entries with a bad type or a missing time.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type json.RawMessage `json:"type"`
		Time json.RawMessage `json:"time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: entry must be an object", ErrInvalidEntry)
	}
	var typ, ts string
	if err := decodeString(raw.Type, &typ); err != nil {
		return fmt.Errorf("%w: type must be a string", ErrInvalidEntry)
	}
	if err := decodeString(raw.Time, &ts); err != nil {
		return fmt.Errorf("%w: time must be a string", ErrInvalidEntry)
	}
	entry, err := NewEntry(EntryType(typ), ts)
	if err != nil {
		return err
	}
	*e = entry
	return nil
}

func decodeString(raw json.RawMessage, dst *string) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	if raw[0] != '"' {
		return errors.New("not a string")
	}
	return json.Unmarshal(raw, dst)
}
