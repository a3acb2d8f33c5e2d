package scheduler

import (
	"fmt"
	"slices"
	"time"

	"github.com/christopherklint97/daylog/internal/config"
	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/report"
	"github.com/christopherklint97/daylog/internal/timecard"
	"github.com/christopherklint97/daylog/internal/timefmt"
)

// Reminder is one nudge produced by a check.
type Reminder struct {
	Title   string
	Message string
}

// Evaluate decides which reminders apply at now. Times are judged in the
// display zone, like every stored timestamp.
func Evaluate(sched config.ScheduleConfig, now time.Time, items []listitem.ListItem, card timecard.Data) []Reminder {
	now = now.In(timefmt.Zone)
	date := now.Format(timefmt.DateLayout)
	state := timecard.CurrentState(card, date)
	workDay := isWorkDay(sched, now)
	phase := dayPhase(sched, now)

	var out []Reminder
	if workDay && phase == duringWork && state == timecard.StateEmpty {
		out = append(out, Reminder{Title: "daylog", Message: "You have not checked in today."})
	}
	if workDay && phase == afterWork && state == timecard.StateOpen {
		out = append(out, Reminder{Title: "daylog", Message: "Still checked in after " + sched.WorkEnd + "."})
	}

	running, started, ok := runningTimer(items)
	switch {
	case ok && sched.LongTimerMinutes > 0 && now.Sub(started) >= time.Duration(sched.LongTimerMinutes)*time.Minute:
		out = append(out, Reminder{
			Title:   "Timer still running",
			Message: fmt.Sprintf("%q has been running for %s.", running.Text(), report.FormatDuration(timefmt.SecondsBetween(started, now))),
		})
	case !ok && phase == duringWork && state == timecard.StateOpen:
		out = append(out, Reminder{Title: "daylog", Message: "No timer is running."})
	}
	return out
}

// runningTimer finds the first running item and when its open range began.
func runningTimer(items []listitem.ListItem) (listitem.ListItem, time.Time, bool) {
	for _, it := range items {
		if !it.IsTimerRunning() {
			continue
		}
		ranges := it.TimeRanges()
		start, err := timefmt.ParseCanonical(ranges[len(ranges)-1].Start)
		if err != nil {
			continue
		}
		return it, start, true
	}
	return nil, time.Time{}, false
}

type phase int

const (
	beforeWork phase = iota
	duringWork
	afterWork
)

func dayPhase(sched config.ScheduleConfig, t time.Time) phase {
	startH, startM, _ := config.ParseClock(sched.WorkStart)
	endH, endM, _ := config.ParseClock(sched.WorkEnd)

	nowMins := t.Hour()*60 + t.Minute()
	switch {
	case nowMins < startH*60+startM:
		return beforeWork
	case nowMins <= endH*60+endM:
		return duringWork
	default:
		return afterWork
	}
}

func isWorkDay(sched config.ScheduleConfig, t time.Time) bool {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday = 7
	}
	return slices.Contains(sched.WorkDays, weekday)
}
