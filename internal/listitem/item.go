// Package listitem holds the tracked work items (plain todos and imported
// calendar events) and the collection operations applied to them.
//
// Items are immutable values: every mutator returns a new item and leaves
// the receiver untouched.
package listitem

import (
	"slices"
	"time"

	"github.com/christopherklint97/daylog/internal/timefmt"
)

// Kind discriminates the ListItem variants in the JSON document.
type Kind string

const (
	KindTodo          Kind = "todo"
	KindCalendarEvent Kind = "calendarEvent"
)

// TimeRange is one timer measurement. A nil End means the timer is running.
type TimeRange struct {
	Start string  `json:"start"`
	End   *string `json:"end"`
}

// IsOpen reports whether the range has not been closed yet.
func (r TimeRange) IsOpen() bool { return r.End == nil }

// seconds returns the whole seconds covered by the range, counting an open
// range up to now. Unparseable timestamps contribute nothing.
func (r TimeRange) seconds(now time.Time) int64 {
	start, err := timefmt.ParseCanonical(r.Start)
	if err != nil {
		return 0
	}
	end := now
	if r.End != nil {
		if end, err = timefmt.ParseCanonical(*r.End); err != nil {
			return 0
		}
	}
	return timefmt.SecondsBetween(start, end)
}

// ListItem is the capability shared by Todo and CalendarEvent.
type ListItem interface {
	ID() string
	Kind() Kind
	Taskcode() string
	Text() string
	CompletedAt() *string
	IsCompleted() bool
	CreatedAt() string
	UpdatedAt() string
	TimeRanges() []TimeRange

	WithTaskcode(code string, now time.Time) ListItem
	WithText(text string, now time.Time) ListItem
	WithCompleted(completed bool, now time.Time) ListItem
	ToggleCompleted(now time.Time) ListItem
	StartTimer(now time.Time) ListItem
	StopTimer(now time.Time) ListItem
	IsTimerRunning() bool

	// TotalExecutionMinutes sums every range and rounds to whole minutes.
	TotalExecutionMinutes(now time.Time) int
	// ExecutionSecondsOn sums the ranges that start on date, in seconds.
	ExecutionSecondsOn(date string, now time.Time) int64

	Record() Record

	listItem()
}

// fields is the state common to both variants.
type fields struct {
	id          string
	taskcode    string
	text        string
	completedAt *string
	createdAt   string
	updatedAt   string
	timeRanges  []TimeRange
}

func (f fields) ID() string           { return f.id }
func (f fields) Taskcode() string     { return f.taskcode }
func (f fields) Text() string         { return f.text }
func (f fields) CreatedAt() string    { return f.createdAt }
func (f fields) UpdatedAt() string    { return f.updatedAt }
func (f fields) IsCompleted() bool    { return f.completedAt != nil }
func (f fields) CompletedAt() *string { return cloneString(f.completedAt) }

func (f fields) TimeRanges() []TimeRange { return cloneRanges(f.timeRanges) }

func (f fields) touched(now time.Time) fields {
	f.updatedAt = timefmt.ToCanonical(now)
	f.timeRanges = cloneRanges(f.timeRanges)
	return f
}

func (f fields) totalSeconds(now time.Time) int64 {
	var total int64
	for _, r := range f.timeRanges {
		total += r.seconds(now)
	}
	return total
}

func (f fields) totalMinutes(now time.Time) int {
	return roundHalfUp(float64(f.totalSeconds(now)) / 60)
}

func (f fields) secondsOn(date string, now time.Time) int64 {
	var total int64
	for _, r := range f.timeRanges {
		if timefmt.ExtractDate(r.Start) == date {
			total += r.seconds(now)
		}
	}
	return total
}

func (f fields) record(kind Kind) Record {
	ranges := cloneRanges(f.timeRanges)
	if ranges == nil {
		ranges = []TimeRange{}
	}
	return Record{
		Type:        kind,
		ID:          f.id,
		Taskcode:    f.taskcode,
		Text:        f.text,
		CompletedAt: cloneString(f.completedAt),
		CreatedAt:   f.createdAt,
		UpdatedAt:   f.updatedAt,
		TimeRanges:  ranges,
	}
}

func roundHalfUp(v float64) int {
	if v < 0 {
		return -roundHalfUp(-v)
	}
	return int(v + 0.5)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneRanges(in []TimeRange) []TimeRange {
	if in == nil {
		return nil
	}
	out := slices.Clone(in)
	for i := range out {
		out[i].End = cloneString(out[i].End)
	}
	return out
}

func strPtr(s string) *string { return &s }
