package listitem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/christopherklint97/daylog/internal/timefmt"
)

var (
	ErrValidation = errors.New("invalid list item")
	ErrIDMismatch = errors.New("list item id mismatch")
)

// Record is the JSON shape of a ListItem in the todos document.
type Record struct {
	Type        Kind        `json:"type,omitempty" jsonschema:"enum=todo,enum=calendarEvent"`
	ID          string      `json:"id"`
	Taskcode    string      `json:"taskcode"`
	Text        string      `json:"text"`
	CompletedAt *string     `json:"completedAt"`
	CreatedAt   string      `json:"createdAt,omitempty"`
	UpdatedAt   string      `json:"updatedAt,omitempty"`
	TimeRanges  []TimeRange `json:"timeRanges"`
	StartTime   *string     `json:"startTime,omitempty"`
	EndTime     *string     `json:"endTime,omitempty"`
}

// FromRecord restores an item. Missing timestamps default to now and a
// missing type means Todo.
func FromRecord(r Record, now time.Time) (ListItem, error) {
	ts := timefmt.ToCanonical(now)
	f := fields{
		id:          r.ID,
		taskcode:    r.Taskcode,
		text:        r.Text,
		completedAt: cloneString(r.CompletedAt),
		createdAt:   r.CreatedAt,
		updatedAt:   r.UpdatedAt,
		timeRanges:  cloneRanges(r.TimeRanges),
	}
	if f.createdAt == "" {
		f.createdAt = ts
	}
	if f.updatedAt == "" {
		f.updatedAt = ts
	}
	if f.timeRanges == nil {
		f.timeRanges = []TimeRange{}
	}

	switch r.Type {
	case "", KindTodo:
		return Todo{f}, nil
	case KindCalendarEvent:
		return CalendarEvent{
			fields:    f,
			startTime: cloneString(r.StartTime),
			endTime:   cloneString(r.EndTime),
		}, nil
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrValidation, r.Type)
	}
}

// ParseItem validates and restores a single JSON-encoded item.
func ParseItem(data []byte, now time.Time) (ListItem, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing list item JSON: %w", err)
	}
	rec, err := decodeRecord("item", raw)
	if err != nil {
		return nil, err
	}
	return FromRecord(rec, now)
}

// decodeRecord checks the shape of one element before decoding it, so that a
// missing field is reported instead of silently zero-valued.
func decodeRecord(path string, raw json.RawMessage) (Record, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return Record{}, fmt.Errorf("%w: %s must be an object", ErrValidation, path)
	}

	for _, key := range []string{"id", "taskcode", "text"} {
		v, ok := obj[key]
		if !ok {
			return Record{}, fmt.Errorf("%w: %s.%s is required", ErrValidation, path, key)
		}
		if !isJSONString(v) {
			return Record{}, fmt.Errorf("%w: %s.%s must be a string", ErrValidation, path, key)
		}
	}
	v, ok := obj["completedAt"]
	if !ok {
		return Record{}, fmt.Errorf("%w: %s.completedAt is required", ErrValidation, path)
	}
	if !isJSONString(v) && !isJSONNull(v) {
		return Record{}, fmt.Errorf("%w: %s.completedAt must be a string or null", ErrValidation, path)
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %s: %v", ErrValidation, path, err)
	}
	for i, tr := range rec.TimeRanges {
		if tr.Start == "" {
			return Record{}, fmt.Errorf("%w: %s.timeRanges[%d].start is required", ErrValidation, path, i)
		}
		if tr.IsOpen() && i != len(rec.TimeRanges)-1 {
			return Record{}, fmt.Errorf("%w: %s.timeRanges[%d] is open but not last", ErrValidation, path, i)
		}
	}
	return rec, nil
}

func isJSONString(v json.RawMessage) bool {
	v = bytes.TrimSpace(v)
	return len(v) > 0 && v[0] == '"'
}

func isJSONNull(v json.RawMessage) bool {
	return string(bytes.TrimSpace(v)) == "null"
}
