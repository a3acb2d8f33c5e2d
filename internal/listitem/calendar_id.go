package listitem

import (
	"fmt"
	"slices"
	"time"
	"unicode/utf16"

	"github.com/christopherklint97/daylog/internal/timefmt"
)

// EventTime is a Google Calendar start/end value: either a timestamp or, for
// all-day events, a bare date.
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Value returns the timestamp, falling back to the date.
func (t EventTime) Value() string {
	if t.DateTime != "" {
		return t.DateTime
	}
	return t.Date
}

// ExternalCalendarEvent is one event as produced by the calendar fetch script.
type ExternalCalendarEvent struct {
	ID      string    `json:"id,omitempty"`
	Summary string    `json:"summary"`
	Start   EventTime `json:"start"`
	End     EventTime `json:"end"`
	Created string    `json:"created,omitempty"`
}

// CalendarItemID derives the stable id of an imported event from its start
// and creation timestamps. Re-importing the same event yields the same id.
func CalendarItemID(startTime, createdTime string) string {
	units := utf16.Encode([]rune(startTime + createdTime))
	forward := hashHex(units)

	reversed := slices.Clone(units)
	slices.Reverse(reversed)
	backward := hashHex(reversed)

	return fmt.Sprintf("cal-%s-%s-%s-%s-%s%s",
		forward,
		backward[:4],
		backward[4:],
		forward[:4],
		backward,
		forward[4:],
	)
}

// hashHex is the 32-bit "h*31 + c" rolling hash over UTF-16 code units,
// rendered as the zero-padded hex of its absolute value.
func hashHex(units []uint16) string {
	var h int32
	for _, u := range units {
		h = (h << 5) - h + int32(u)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return fmt.Sprintf("%08x", abs)
}

// FromGoogleCalendarEvent converts an external event into a CalendarEvent.
func FromGoogleCalendarEvent(ev ExternalCalendarEvent, taskcode string, now time.Time) (CalendarEvent, error) {
	created, err := optionalCanonical(ev.Created)
	if err != nil {
		return CalendarEvent{}, fmt.Errorf("event %q created: %w", ev.Summary, err)
	}
	start, err := optionalCanonical(ev.Start.Value())
	if err != nil {
		return CalendarEvent{}, fmt.Errorf("event %q start: %w", ev.Summary, err)
	}
	end, err := optionalCanonical(ev.End.Value())
	if err != nil {
		return CalendarEvent{}, fmt.Errorf("event %q end: %w", ev.Summary, err)
	}

	ts := timefmt.ToCanonical(now)
	createdAt := ts
	if created != nil {
		createdAt = *created
	}

	return CalendarEvent{
		fields: fields{
			id:         CalendarItemID(ev.Start.Value(), ev.Created),
			taskcode:   taskcode,
			text:       ev.Summary,
			createdAt:  createdAt,
			updatedAt:  ts,
			timeRanges: []TimeRange{},
		},
		startTime: start,
		endTime:   end,
	}, nil
}

func optionalCanonical(iso string) (*string, error) {
	if iso == "" {
		return nil, nil
	}
	s, err := timefmt.ForeignISOToCanonical(iso)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
