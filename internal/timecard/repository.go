package timecard

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"sort"
	"time"

	"github.com/christopherklint97/daylog/internal/timefmt"
)

// Data maps a YYYY-MM-DD date to that day's entries in recorded order.
type Data map[string][]Entry

// State is the attendance state of a single day.
type State string

const (
	StateEmpty  State = "EMPTY"
	StateOpen   State = "OPEN"
	StateClosed State = "CLOSED"
)

// Repository applies attendance operations. Inputs are never mutated.
type Repository struct {
	clock timefmt.Clock
}

func NewRepository(clock timefmt.Clock) *Repository {
	if clock == nil {
		clock = timefmt.SystemClock{}
	}
	return &Repository{clock: clock}
}

// AddCheckIn appends a start entry to date, or to today when date is empty.
// Alternation is not checked here; see ValidateEntries.
func (r *Repository) AddCheckIn(data Data, date string) Data {
	return appendEntry(data, date, CreateCheckInEntry(r.clock))
}

// AddCheckOut appends an end entry to date, or to today when date is empty.
func (r *Repository) AddCheckOut(data Data, date string) Data {
	return appendEntry(data, date, CreateCheckOutEntry(r.clock))
}

func appendEntry(data Data, date string, e Entry) Data {
	if date == "" {
		date = e.Date()
	}
	out := clone(data)
	out[date] = append(slices.Clone(out[date]), e)
	return out
}

// DeleteEntry removes the entry at index. Removing the last entry of a date
// removes the date.
func (r *Repository) DeleteEntry(data Data, date string, index int) Data {
	out := clone(data)
	entries, ok := out[date]
	if !ok || index < 0 || index >= len(entries) {
		return out
	}
	entries = slices.Delete(slices.Clone(entries), index, index+1)
	if len(entries) == 0 {
		delete(out, date)
	} else {
		out[date] = entries
	}
	return out
}

// UpdateEntry replaces the entry at index.
func (r *Repository) UpdateEntry(data Data, date string, index int, e Entry) Data {
	out := clone(data)
	entries, ok := out[date]
	if !ok || index < 0 || index >= len(entries) {
		return out
	}
	entries = slices.Clone(entries)
	entries[index] = e
	out[date] = entries
	return out
}

// ValidateEntries reports whether entries alternate start, end, start, ...
// An open trailing start is valid.
func ValidateEntries(entries []Entry) bool {
	if len(entries) == 0 || entries[0].Type == EntryEnd {
		return false
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Type == entries[i-1].Type {
			return false
		}
	}
	return true
}

// WorkingMinutes returns the minutes worked on date. Each start/end pair is
// floored to whole minutes; a trailing start counts up to now. ok is false
// when the date has no entries or they do not alternate.
func (r *Repository) WorkingMinutes(data Data, date string) (minutes int, ok bool) {
	entries := data[date]
	if !ValidateEntries(entries) {
		return 0, false
	}
	now := r.clock.Now()
	for i := 0; i < len(entries); i += 2 {
		start, err := timefmt.ParseCanonical(entries[i].Time)
		if err != nil {
			return 0, false
		}
		end := now
		if i+1 < len(entries) {
			if end, err = timefmt.ParseCanonical(entries[i+1].Time); err != nil {
				return 0, false
			}
		}
		minutes += int(end.Sub(start) / time.Minute)
	}
	return minutes, true
}

// CurrentState reports whether the day is empty, clocked in or clocked out,
// judged by its last entry.
func CurrentState(data Data, date string) State {
	entries := data[date]
	if len(entries) == 0 {
		return StateEmpty
	}
	if entries[len(entries)-1].Type == EntryStart {
		return StateOpen
	}
	return StateClosed
}

// SortedDates returns the dates most recent first.
func SortedDates(data Data) []string {
	dates := slices.Collect(maps.Keys(data))
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates
}

// FromJSON decodes the timecard document. Each entry is validated as it is
// decoded.
func FromJSON(raw map[string]json.RawMessage) (Data, error) {
	out := make(Data, len(raw))
	for date, body := range raw {
		var entries []Entry
		if err := json.Unmarshal(body, &entries); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrValidation, date, err)
		}
		if entries == nil {
			return nil, fmt.Errorf("%w: %s must be an array", ErrValidation, date)
		}
		out[date] = entries
	}
	return out, nil
}

// ToJSON returns a copy safe to marshal.
func ToJSON(data Data) map[string][]Entry {
	return clone(data)
}

func FromJSONText(text string) (Data, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parsing timecard JSON: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: document must be an object", ErrValidation)
	}
	return FromJSON(raw)
}

func ToJSONText(data Data) (string, error) {
	if data == nil {
		data = Data{}
	}
	b, err := json.MarshalIndent(ToJSON(data), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling timecard: %w", err)
	}
	return string(b), nil
}

func clone(data Data) Data {
	out := make(Data, len(data))
	for k, v := range data {
		out[k] = slices.Clone(v)
	}
	return out
}
