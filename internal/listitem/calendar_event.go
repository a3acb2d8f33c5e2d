package listitem

import (
	"time"
)

// CalendarEvent is an item imported from a calendar. Its timer cannot be
// started or stopped; completing it records the scheduled window as its only
// time range.
type CalendarEvent struct {
	fields
	startTime *string
	endTime   *string
}

func (CalendarEvent) Kind() Kind { return KindCalendarEvent }
func (CalendarEvent) listItem()  {}

// StartTime is the scheduled start in canonical form, or nil.
func (e CalendarEvent) StartTime() *string { return cloneString(e.startTime) }

// EndTime is the scheduled end in canonical form, or nil.
func (e CalendarEvent) EndTime() *string { return cloneString(e.endTime) }

func (e CalendarEvent) with(f fields) CalendarEvent {
	e.fields = f
	return e
}

func (e CalendarEvent) WithTaskcode(code string, now time.Time) ListItem {
	f := e.touched(now)
	f.taskcode = code
	return e.with(f)
}

func (e CalendarEvent) WithText(text string, now time.Time) ListItem {
	f := e.touched(now)
	f.text = text
	return e.with(f)
}

// WithCompleted marks the event done. Completing synthesizes a single range
// from the scheduled window when both ends are known; un-completing always
// clears the ranges.
func (e CalendarEvent) WithCompleted(completed bool, now time.Time) ListItem {
	f := e.touched(now)
	f.timeRanges = []TimeRange{}
	if completed {
		f.completedAt = strPtr(f.updatedAt)
		if e.startTime != nil && e.endTime != nil {
			f.timeRanges = []TimeRange{{Start: *e.startTime, End: strPtr(*e.endTime)}}
		}
	} else {
		f.completedAt = nil
	}
	return e.with(f)
}

func (e CalendarEvent) ToggleCompleted(now time.Time) ListItem {
	return e.WithCompleted(!e.IsCompleted(), now)
}

func (e CalendarEvent) StartTimer(time.Time) ListItem { return e }
func (e CalendarEvent) StopTimer(time.Time) ListItem  { return e }
func (e CalendarEvent) IsTimerRunning() bool          { return false }

func (e CalendarEvent) TotalExecutionMinutes(now time.Time) int { return e.totalMinutes(now) }

func (e CalendarEvent) ExecutionSecondsOn(date string, now time.Time) int64 {
	return e.secondsOn(date, now)
}

func (e CalendarEvent) Record() Record {
	r := e.record(KindCalendarEvent)
	r.StartTime = cloneString(e.startTime)
	r.EndTime = cloneString(e.endTime)
	return r
}
