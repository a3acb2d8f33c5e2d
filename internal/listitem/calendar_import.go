package listitem

import (
	"fmt"
	"slices"

	"github.com/christopherklint97/daylog/internal/timefmt"
)

// CreateTodosFromCalendarEvents converts external events into Todos whose ids
// are derived the same way as CalendarEvent ids. A Todo is created on the
// event's start date so that it shows up on that day.
func (r *Repository) CreateTodosFromCalendarEvents(events []ExternalCalendarEvent, taskcode string) ([]ListItem, error) {
	out := make([]ListItem, 0, len(events))
	for _, ev := range events {
		now := r.clock.Now()
		ts := timefmt.ToCanonical(now)
		created := ts
		start, err := optionalCanonical(ev.Start.Value())
		if err != nil {
			return nil, fmt.Errorf("event %q start: %w", ev.Summary, err)
		}
		if start != nil {
			created = *start
		}
		out = append(out, Todo{fields{
			id:         CalendarItemID(ev.Start.Value(), ev.Created),
			taskcode:   taskcode,
			text:       ev.Summary,
			createdAt:  created,
			updatedAt:  ts,
			timeRanges: []TimeRange{},
		}})
	}
	return out, nil
}

// AddTodosFromCalendarEvents merges imported events into items. An existing
// item with the same derived id is replaced in place; new ones are appended.
func (r *Repository) AddTodosFromCalendarEvents(items []ListItem, events []ExternalCalendarEvent, taskcode string) ([]ListItem, error) {
	todos, err := r.CreateTodosFromCalendarEvents(events, taskcode)
	if err != nil {
		return nil, err
	}
	return merge(items, todos), nil
}

// AddCalendarEvents merges events as CalendarEvent items, with the same
// replace-by-id semantics as AddTodosFromCalendarEvents.
func (r *Repository) AddCalendarEvents(items []ListItem, events []ExternalCalendarEvent, taskcode string) ([]ListItem, error) {
	imported := make([]ListItem, 0, len(events))
	for _, ev := range events {
		ce, err := FromGoogleCalendarEvent(ev, taskcode, r.clock.Now())
		if err != nil {
			return nil, err
		}
		imported = append(imported, ce)
	}
	return merge(items, imported), nil
}

func merge(items, incoming []ListItem) []ListItem {
	out := slices.Clone(items)
	for _, it := range incoming {
		if i := indexOf(out, it.ID()); i >= 0 {
			out[i] = it
			continue
		}
		out = append(out, it)
	}
	return out
}
