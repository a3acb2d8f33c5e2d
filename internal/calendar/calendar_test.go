package calendar

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/timefmt"
)

const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//daylog//test//EN
BEGIN:VEVENT
UID:standup@example.com
DTSTAMP:20240428T120000Z
CREATED:20240401T000000Z
DTSTART:20240501T010000Z
DTEND:20240501T013000Z
SUMMARY:Standup
END:VEVENT
BEGIN:VEVENT
UID:holiday@example.com
DTSTAMP:20240428T120000Z
DTSTART;VALUE=DATE:20240501
DTEND;VALUE=DATE:20240502
SUMMARY:Holiday
END:VEVENT
BEGIN:VEVENT
UID:later@example.com
DTSTAMP:20240428T120000Z
DTSTART:20240503T010000Z
DTEND:20240503T020000Z
SUMMARY:Later
END:VEVENT
END:VCALENDAR
`

func crlf(s string) string { return strings.ReplaceAll(s, "\n", "\r\n") }

func mustDay(t *testing.T, date string) Window {
	t.Helper()
	w, err := DayWindow(date)
	require.NoError(t, err)
	return w
}

func TestDecodeICS_FiltersWindow(t *testing.T) {
	events, err := DecodeICS(strings.NewReader(crlf(sampleICS)), mustDay(t, "2024-05-01"))
	require.NoError(t, err)
	require.Len(t, events, 2)

	standup := events[0]
	assert.Equal(t, "standup@example.com", standup.ID)
	assert.Equal(t, "Standup", standup.Summary)
	assert.Equal(t, "2024-05-01T10:00:00+09:00", standup.Start.DateTime)
	assert.Equal(t, "2024-05-01T10:30:00+09:00", standup.End.DateTime)
	assert.Equal(t, "2024-04-01T00:00:00Z", standup.Created)

	holiday := events[1]
	assert.Equal(t, "Holiday", holiday.Summary)
	assert.Equal(t, "2024-05-01", holiday.Start.Date)
	assert.Empty(t, holiday.Start.DateTime)
	assert.Equal(t, "2024-04-28T12:00:00Z", holiday.Created)
}

func TestDecodeICS_ZeroWindowKeepsAll(t *testing.T) {
	events, err := DecodeICS(strings.NewReader(crlf(sampleICS)), Window{})
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestDecodeICS_ConvertsToStableItems(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, timefmt.Zone)
	decode := func() listitem.CalendarEvent {
		events, err := DecodeICS(strings.NewReader(crlf(sampleICS)), mustDay(t, "2024-05-01"))
		require.NoError(t, err)
		ev, err := listitem.FromGoogleCalendarEvent(events[0], "MTG", now)
		require.NoError(t, err)
		return ev
	}

	first, second := decode(), decode()
	assert.Equal(t, first.ID(), second.ID())
	require.NotNil(t, first.StartTime())
	assert.Equal(t, "2024-05-01 10:00:00", *first.StartTime())
	assert.Equal(t, "2024-04-01 09:00:00", first.CreatedAt())
}

func TestDecodeFetchResult(t *testing.T) {
	body := `{
		"success": true,
		"events": [
			{"summary": "Review", "start": {"dateTime": "2024-05-01T14:00:00+09:00"}, "end": {"dateTime": "2024-05-01T15:00:00+09:00"}, "created": "2024-04-20T00:00:00.000Z"},
			{"summary": "Offsite", "start": {"date": "2024-05-02"}, "end": {"date": "2024-05-03"}}
		]
	}`

	events, err := DecodeFetchResult(strings.NewReader(body), Window{})
	require.NoError(t, err)
	assert.Len(t, events, 2)

	events, err = DecodeFetchResult(strings.NewReader(body), mustDay(t, "2024-05-01"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Review", events[0].Summary)

	events, err = DecodeFetchResult(strings.NewReader(body), mustDay(t, "2024-05-02"))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Offsite", events[0].Summary)
}

func TestDecodeFetchResult_Failure(t *testing.T) {
	_, err := DecodeFetchResult(strings.NewReader(`{"success": false, "error": "token expired"}`), Window{})
	require.ErrorIs(t, err, ErrFetchFailed)
	assert.Contains(t, err.Error(), "token expired")

	_, err = DecodeFetchResult(strings.NewReader(`{not json`), Window{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrFetchFailed)
}

func TestDecodeFetchResult_BareArray(t *testing.T) {
	events, err := DecodeFetchResult(strings.NewReader(`[{"summary":"Solo","start":{"date":"2024-05-01"},"end":{"date":"2024-05-02"}}]`), Window{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Solo", events[0].Summary)
}

func TestDecode_Sniffs(t *testing.T) {
	events, err := Decode(strings.NewReader("\n  "+crlf(sampleICS)), Window{})
	require.NoError(t, err)
	assert.Len(t, events, 3)

	events, err = Decode(strings.NewReader(` {"success":true,"events":[]}`), Window{})
	require.NoError(t, err)
	assert.Empty(t, events)

	events, err = Decode(strings.NewReader(""), Window{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "events.ics")
	require.NoError(t, os.WriteFile(path, []byte(crlf(sampleICS)), 0644))

	events, err := Load(context.Background(), path, mustDay(t, "2024-05-03"), nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Later", events[0].Summary)

	_, err = Load(context.Background(), filepath.Join(dir, "missing.json"), Window{}, nil)
	assert.Error(t, err)

	_, err = Load(context.Background(), "", Window{}, nil)
	assert.Error(t, err)
}

func TestDayWindow_Invalid(t *testing.T) {
	_, err := DayWindow("May 1st")
	assert.ErrorIs(t, err, timefmt.ErrInvalidTime)
}
