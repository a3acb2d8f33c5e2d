package listitem

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/christopherklint97/daylog/internal/timefmt"
)

// Repository applies collection-level operations to item slices. It never
// mutates its inputs; every operation returns a new slice.
type Repository struct {
	clock timefmt.Clock
	newID func() string
}

// NewRepository returns a Repository reading time from clock. A nil newID
// generates random UUIDs.
func NewRepository(clock timefmt.Clock, newID func() string) *Repository {
	if clock == nil {
		clock = timefmt.SystemClock{}
	}
	if newID == nil {
		newID = uuid.NewString
	}
	return &Repository{clock: clock, newID: newID}
}

// Clock exposes the repository's time source.
func (r *Repository) Clock() timefmt.Clock { return r.clock }

// CreateTodo builds a fresh Todo with a new id.
func (r *Repository) CreateTodo(taskcode, text string) Todo {
	return NewTodo(r.newID(), taskcode, text, r.clock.Now())
}

// AddTodo appends a freshly created Todo.
func (r *Repository) AddTodo(items []ListItem, taskcode, text string) []ListItem {
	out := slices.Clone(items)
	return append(out, r.CreateTodo(taskcode, text))
}

// Find returns the item with the given id.
func (r *Repository) Find(items []ListItem, id string) (ListItem, bool) {
	i := indexOf(items, id)
	if i < 0 {
		return nil, false
	}
	return items[i], true
}

func (r *Repository) ToggleItem(items []ListItem, id string) []ListItem {
	return r.update(items, id, func(it ListItem) ListItem {
		return it.ToggleCompleted(r.clock.Now())
	})
}

func (r *Repository) DeleteItem(items []ListItem, id string) []ListItem {
	out := make([]ListItem, 0, len(items))
	for _, it := range items {
		if it.ID() != id {
			out = append(out, it)
		}
	}
	return out
}

func (r *Repository) EditItemText(items []ListItem, id, text string) []ListItem {
	return r.update(items, id, func(it ListItem) ListItem {
		return it.WithText(text, r.clock.Now())
	})
}

func (r *Repository) EditItemTaskcode(items []ListItem, id, taskcode string) []ListItem {
	return r.update(items, id, func(it ListItem) ListItem {
		return it.WithTaskcode(taskcode, r.clock.Now())
	})
}

func (r *Repository) StartItemTimer(items []ListItem, id string) []ListItem {
	return r.update(items, id, func(it ListItem) ListItem {
		return it.StartTimer(r.clock.Now())
	})
}

func (r *Repository) StopItemTimer(items []ListItem, id string) []ListItem {
	return r.update(items, id, func(it ListItem) ListItem {
		return it.StopTimer(r.clock.Now())
	})
}

// ReorderItems moves the element at from to position to. Out-of-range
// indices leave the collection unchanged.
func (r *Repository) ReorderItems(items []ListItem, from, to int) []ListItem {
	out := slices.Clone(items)
	if from == to || from < 0 || from >= len(out) || to < 0 || to >= len(out) {
		return out
	}
	moved := out[from]
	out = slices.Delete(out, from, from+1)
	return slices.Insert(out, to, moved)
}

// StartItemTimerExclusive stops every running timer, then starts the timer
// of id. All timers are stopped even when id is not present.
func (r *Repository) StartItemTimerExclusive(items []ListItem, id string) []ListItem {
	return r.StartItemTimer(r.StopAllRunningItems(items), id)
}

// FindRunningItem returns the first item whose timer is running.
func (r *Repository) FindRunningItem(items []ListItem) (ListItem, bool) {
	for _, it := range items {
		if it.IsTimerRunning() {
			return it, true
		}
	}
	return nil, false
}

func (r *Repository) StopAllRunningItems(items []ListItem) []ListItem {
	out := make([]ListItem, len(items))
	for i, it := range items {
		if it.IsTimerRunning() {
			it = it.StopTimer(r.clock.Now())
		}
		out[i] = it
	}
	return out
}

// FromJSONArray validates and restores every element of a decoded array.
func (r *Repository) FromJSONArray(raw []json.RawMessage) ([]ListItem, error) {
	items := make([]ListItem, 0, len(raw))
	for i, elem := range raw {
		rec, err := decodeRecord(fmt.Sprintf("items[%d]", i), elem)
		if err != nil {
			return nil, err
		}
		it, err := FromRecord(rec, r.clock.Now())
		if err != nil {
			return nil, fmt.Errorf("items[%d]: %w", i, err)
		}
		items = append(items, it)
	}
	return items, nil
}

// ToJSONArray converts items to their JSON records.
func (r *Repository) ToJSONArray(items []ListItem) []Record {
	out := make([]Record, len(items))
	for i, it := range items {
		out[i] = it.Record()
	}
	return out
}

// FromJSONText parses the todos document.
func (r *Repository) FromJSONText(text string) ([]ListItem, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("parsing items JSON: %w", err)
	}
	return r.FromJSONArray(raw)
}

// ToJSONText serializes items as an indented JSON array.
func (r *Repository) ToJSONText(items []ListItem) (string, error) {
	data, err := json.MarshalIndent(r.ToJSONArray(items), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling items: %w", err)
	}
	return string(data), nil
}

// EditSingleItemFromJSON replaces the item id with the one encoded in
// jsonText. The encoded id must equal id.
func (r *Repository) EditSingleItemFromJSON(items []ListItem, id, jsonText string) ([]ListItem, error) {
	edited, err := ParseItem([]byte(jsonText), r.clock.Now())
	if err != nil {
		return nil, err
	}
	if edited.ID() != id {
		return nil, fmt.Errorf("%w: expected %q, got %q", ErrIDMismatch, id, edited.ID())
	}
	return r.update(items, id, func(ListItem) ListItem { return edited }), nil
}

func (r *Repository) update(items []ListItem, id string, fn func(ListItem) ListItem) []ListItem {
	out := slices.Clone(items)
	if i := indexOf(out, id); i >= 0 {
		out[i] = fn(out[i])
	}
	return out
}

func indexOf(items []ListItem, id string) int {
	return slices.IndexFunc(items, func(it ListItem) bool { return it.ID() == id })
}
