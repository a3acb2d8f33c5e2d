package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/project"
)

// 2025-01-15 09:00:00 in the display zone.
var testNow = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

var testProjects = project.Repository{
	"2025-01": {
		{ProjectCode: "ALPHA", Color: "#e57373", Taskcodes: []project.Taskcode{{Code: "DEV"}}},
	},
}

func tracked(id, taskcode string, d time.Duration) listitem.ListItem {
	return listitem.NewTodo(id, taskcode, "item "+id, testNow).
		StartTimer(testNow).
		StopTimer(testNow.Add(d))
}

func TestExecutionTimesForDate_OmitsZero(t *testing.T) {
	items := []listitem.ListItem{
		tracked("a", "DEV", time.Hour),
		listitem.NewTodo("b", "", "idle", testNow),
		tracked("c", "", 90*time.Second),
	}
	got := ExecutionTimesForDate(items, "2025-01-15", testNow.Add(2*time.Hour))
	assert.Equal(t, map[string]int64{"a": 3600, "c": 90}, got)
}

func TestColorForItem(t *testing.T) {
	assert.Equal(t, "#e57373", ColorForItem(tracked("a", "DEV", time.Minute), "2025-01-15", testProjects))
	assert.Equal(t, NeutralColor, ColorForItem(tracked("a", "OPS", time.Minute), "2025-01-15", testProjects))
	assert.Equal(t, NeutralColor, ColorForItem(tracked("a", "DEV", time.Minute), "2025-02-01", testProjects))
	assert.Equal(t, NeutralColor, ColorForItem(tracked("a", "DEV", time.Minute), "2025-01-15", nil))
}

func TestStackBarDisplay_TwelveHourFloor(t *testing.T) {
	items := []listitem.ListItem{tracked("a", "DEV", time.Hour)}
	bar := StackBarDisplay(items, "2025-01-15", testProjects, testNow.Add(2*time.Hour))

	assert.Equal(t, int64(3600), bar.TotalSeconds)
	assert.Equal(t, int64(43200), bar.DisplayMaxSeconds)
	assert.Len(t, bar.HourMarkers, 13)
	assert.Equal(t, 0, bar.HourMarkers[0])
	assert.Equal(t, 12, bar.HourMarkers[12])
	require.Len(t, bar.Segments, 1)
	assert.Equal(t, Segment{ItemID: "a", ItemText: "item a", Seconds: 3600, Color: "#e57373"}, bar.Segments[0])
}

func TestStackBarDisplay_LongDayScalesToTotal(t *testing.T) {
	items := []listitem.ListItem{
		tracked("a", "DEV", 8*time.Hour),
		tracked("b", "", 5*time.Hour+30*time.Minute),
	}
	bar := StackBarDisplay(items, "2025-01-15", testProjects, testNow.Add(20*time.Hour))

	assert.Equal(t, int64(48600), bar.TotalSeconds)
	assert.Equal(t, int64(48600), bar.DisplayMaxSeconds)
	assert.Len(t, bar.HourMarkers, 15) // ceil(13.5) = 14 -> 0..14
	assert.Equal(t, []string{"a", "b"}, []string{bar.Segments[0].ItemID, bar.Segments[1].ItemID})
	assert.Equal(t, NeutralColor, bar.Segments[1].Color)
}

func TestStackBarDisplay_EmptyDay(t *testing.T) {
	bar := StackBarDisplay(nil, "2025-01-15", testProjects, testNow)
	assert.Empty(t, bar.Segments)
	assert.NotNil(t, bar.Segments)
	assert.Equal(t, int64(0), bar.TotalSeconds)
	assert.Equal(t, int64(MinDisplaySeconds), bar.DisplayMaxSeconds)
	assert.Len(t, bar.HourMarkers, 13)
}

func TestDailySummary_GroupsByTaskcode(t *testing.T) {
	items := []listitem.ListItem{
		tracked("a", "DEV", time.Hour),
		tracked("b", "OPS", 30*time.Minute),
		tracked("c", "DEV", 15*time.Minute),
	}
	got := DailySummary(items, "2025-01-15", testProjects, testNow.Add(3*time.Hour))
	assert.Equal(t, []TaskcodeTotal{
		{Taskcode: "DEV", Seconds: 4500, Color: "#e57373"},
		{Taskcode: "OPS", Seconds: 1800, Color: NeutralColor},
	}, got)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0m", FormatDuration(0))
	assert.Equal(t, "12m", FormatDuration(12*60+59))
	assert.Equal(t, "1h 05m", FormatDuration(3900))
	assert.Equal(t, "10h 00m", FormatDuration(36000))
}
