package listitem

import (
	"time"

	"github.com/christopherklint97/daylog/internal/timefmt"
)

// Todo is a plain task with a start/stop timer history.
type Todo struct {
	fields
}

// NewTodo builds an incomplete Todo with no timer history.
func NewTodo(id, taskcode, text string, now time.Time) Todo {
	ts := timefmt.ToCanonical(now)
	return Todo{fields{
		id:         id,
		taskcode:   taskcode,
		text:       text,
		createdAt:  ts,
		updatedAt:  ts,
		timeRanges: []TimeRange{},
	}}
}

func (Todo) Kind() Kind { return KindTodo }
func (Todo) listItem()  {}

func (t Todo) WithTaskcode(code string, now time.Time) ListItem {
	f := t.touched(now)
	f.taskcode = code
	return Todo{f}
}

func (t Todo) WithText(text string, now time.Time) ListItem {
	f := t.touched(now)
	f.text = text
	return Todo{f}
}

func (t Todo) WithCompleted(completed bool, now time.Time) ListItem {
	f := t.touched(now)
	if completed {
		f.completedAt = strPtr(f.updatedAt)
	} else {
		f.completedAt = nil
	}
	return Todo{f}
}

func (t Todo) ToggleCompleted(now time.Time) ListItem {
	return t.WithCompleted(!t.IsCompleted(), now)
}

func (t Todo) StartTimer(now time.Time) ListItem {
	f := t.touched(now)
	f.timeRanges = append(f.timeRanges, TimeRange{Start: f.updatedAt})
	return Todo{f}
}

// StopTimer closes the open range. Without one the receiver is returned as is.
func (t Todo) StopTimer(now time.Time) ListItem {
	if !t.IsTimerRunning() {
		return t
	}
	f := t.touched(now)
	f.timeRanges[len(f.timeRanges)-1].End = strPtr(f.updatedAt)
	return Todo{f}
}

func (t Todo) IsTimerRunning() bool {
	n := len(t.timeRanges)
	return n > 0 && t.timeRanges[n-1].IsOpen()
}

func (t Todo) TotalExecutionMinutes(now time.Time) int { return t.totalMinutes(now) }

func (t Todo) ExecutionSecondsOn(date string, now time.Time) int64 {
	return t.secondsOn(date, now)
}

func (t Todo) Record() Record { return t.record(KindTodo) }
