// Package report derives per-day execution times and the stacked bar model
// shown in the daily report.
package report

import (
	"fmt"
	"time"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/project"
)

const (
	// NeutralColor is used for items whose task code has no project colour.
	NeutralColor = "#9e9e9e"

	// MinDisplaySeconds keeps short days on a 12-hour scale.
	MinDisplaySeconds = 12 * 60 * 60
)

// Segment is one item's share of the stacked bar.
type Segment struct {
	ItemID   string `json:"itemId"`
	ItemText string `json:"itemText"`
	Seconds  int64  `json:"seconds"`
	Color    string `json:"color"`
}

// StackBar is the display model of one day's tracked time.
type StackBar struct {
	Segments          []Segment `json:"segments"`
	TotalSeconds      int64     `json:"totalSeconds"`
	DisplayMaxSeconds int64     `json:"displayMaxSeconds"`
	HourMarkers       []int     `json:"hourMarkers"`
}

// ExecutionTimeForDate returns the seconds item spent on date.
func ExecutionTimeForDate(item listitem.ListItem, date string, now time.Time) int64 {
	return item.ExecutionSecondsOn(date, now)
}

// ExecutionTimesForDate maps item id to seconds on date, omitting zeros.
func ExecutionTimesForDate(items []listitem.ListItem, date string, now time.Time) map[string]int64 {
	out := make(map[string]int64)
	for _, it := range items {
		if s := ExecutionTimeForDate(it, date, now); s != 0 {
			out[it.ID()] = s
		}
	}
	return out
}

// ColorForItem resolves the item's project colour, or NeutralColor.
func ColorForItem(item listitem.ListItem, date string, projects project.Repository) string {
	if color, ok := projects.ColorForTaskcode(date, item.Taskcode()); ok {
		return color
	}
	return NeutralColor
}

// StackBarDisplay builds the stacked bar for date. Items keep their original
// order and zero-time items are left out.
func StackBarDisplay(items []listitem.ListItem, date string, projects project.Repository, now time.Time) StackBar {
	bar := StackBar{Segments: []Segment{}}
	for _, it := range items {
		s := ExecutionTimeForDate(it, date, now)
		if s == 0 {
			continue
		}
		bar.Segments = append(bar.Segments, Segment{
			ItemID:   it.ID(),
			ItemText: it.Text(),
			Seconds:  s,
			Color:    ColorForItem(it, date, projects),
		})
		bar.TotalSeconds += s
	}
	bar.DisplayMaxSeconds = max(bar.TotalSeconds, MinDisplaySeconds)

	hours := int((bar.DisplayMaxSeconds + 3599) / 3600)
	bar.HourMarkers = make([]int, hours+1)
	for i := range bar.HourMarkers {
		bar.HourMarkers[i] = i
	}
	return bar
}

// TaskcodeTotal is the time spent on one task code.
type TaskcodeTotal struct {
	Taskcode string
	Seconds  int64
	Color    string
}

// DailySummary totals seconds per task code, ordered by first appearance.
func DailySummary(items []listitem.ListItem, date string, projects project.Repository, now time.Time) []TaskcodeTotal {
	var out []TaskcodeTotal
	index := make(map[string]int)
	for _, it := range items {
		s := ExecutionTimeForDate(it, date, now)
		if s == 0 {
			continue
		}
		i, ok := index[it.Taskcode()]
		if !ok {
			i = len(out)
			index[it.Taskcode()] = i
			out = append(out, TaskcodeTotal{Taskcode: it.Taskcode(), Color: ColorForItem(it, date, projects)})
		}
		out[i].Seconds += s
	}
	return out
}

// FormatDuration renders seconds as "1h 05m", or "12m" under an hour.
func FormatDuration(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%dh %02dm", minutes/60, minutes%60)
}
