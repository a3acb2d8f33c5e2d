package calendar

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/timefmt"
)

// ErrFetchFailed is returned when the fetch script reports success=false.
var ErrFetchFailed = errors.New("calendar fetch failed")

// Window limits decoded events to those overlapping [Start, End).
// The zero Window keeps everything.
type Window struct {
	Start time.Time
	End   time.Time
}

// DayWindow covers the whole of date in the display zone.
func DayWindow(date string) (Window, error) {
	start, err := time.ParseInLocation(timefmt.DateLayout, date, timefmt.Zone)
	if err != nil {
		return Window{}, fmt.Errorf("%w: %q", timefmt.ErrInvalidTime, date)
	}
	return Window{Start: start, End: start.AddDate(0, 0, 1)}, nil
}

func (w Window) IsZero() bool { return w.Start.IsZero() && w.End.IsZero() }

func (w Window) overlaps(start, end time.Time) bool {
	if w.IsZero() {
		return true
	}
	if !end.After(start) {
		return !start.Before(w.Start) && start.Before(w.End)
	}
	return start.Before(w.End) && end.After(w.Start)
}

// fetchResult is the output document of the calendar fetch script.
type fetchResult struct {
	Success bool                             `json:"success"`
	Events  []listitem.ExternalCalendarEvent `json:"events"`
	Error   string                           `json:"error"`
}

// DecodeFetchResult reads the fetch script's {success, events, error}
// document. A bare array of events is accepted as well.
func DecodeFetchResult(r io.Reader, window Window) ([]listitem.ExternalCalendarEvent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading calendar: %w", err)
	}
	data = bytes.TrimSpace(data)

	var events []listitem.ExternalCalendarEvent
	if len(data) > 0 && data[0] == '[' {
		if err := json.Unmarshal(data, &events); err != nil {
			return nil, fmt.Errorf("parsing calendar events: %w", err)
		}
	} else {
		var res fetchResult
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("parsing calendar result: %w", err)
		}
		if !res.Success {
			msg := res.Error
			if msg == "" {
				msg = "no error message"
			}
			return nil, fmt.Errorf("%w: %s", ErrFetchFailed, msg)
		}
		events = res.Events
	}

	if window.IsZero() {
		return events, nil
	}
	out := events[:0]
	for _, ev := range events {
		start, errS := eventTime(ev.Start)
		end, errE := eventTime(ev.End)
		if errS != nil || errE != nil {
			// Keep what we cannot place; the importer reports bad times.
			out = append(out, ev)
			continue
		}
		if window.overlaps(start, end) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func eventTime(t listitem.EventTime) (time.Time, error) {
	if t.Value() == "" {
		return time.Time{}, nil
	}
	if t.DateTime == "" {
		return time.ParseInLocation(timefmt.DateLayout, t.Date, timefmt.Zone)
	}
	s, err := timefmt.ForeignISOToCanonical(t.Value())
	if err != nil {
		return time.Time{}, err
	}
	return timefmt.ParseCanonical(s)
}

// DecodeICS parses iCalendar data into external events overlapping window.
// All-day events carry a bare date; CREATED, or DTSTAMP when absent, becomes
// the creation time used for the item id.
func DecodeICS(r io.Reader, window Window) ([]listitem.ExternalCalendarEvent, error) {
	dec := ical.NewDecoder(r)
	var events []listitem.ExternalCalendarEvent

	for {
		cal, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing calendar: %w", err)
		}

		for _, component := range cal.Children {
			if component.Name != ical.CompEvent {
				continue
			}
			event := ical.Event{Component: component}

			start, err := event.DateTimeStart(timefmt.Zone)
			if err != nil {
				continue // skip malformed events
			}
			end, err := event.DateTimeEnd(timefmt.Zone)
			if err != nil {
				end = time.Time{}
			}
			if !window.overlaps(start, end) {
				continue
			}

			summary, _ := event.Props.Text(ical.PropSummary)
			uid, _ := event.Props.Text(ical.PropUID)
			ev := listitem.ExternalCalendarEvent{
				ID:      uid,
				Summary: summary,
				Start:   icsEventTime(event.Props.Get(ical.PropDateTimeStart), start),
				Created: createdTime(event),
			}
			if !end.IsZero() {
				ev.End = icsEventTime(event.Props.Get(ical.PropDateTimeEnd), end)
			}
			events = append(events, ev)
		}
	}

	return events, nil
}

func icsEventTime(prop *ical.Prop, t time.Time) listitem.EventTime {
	if prop != nil && prop.ValueType() == ical.ValueDate {
		return listitem.EventTime{Date: t.Format(timefmt.DateLayout)}
	}
	return listitem.EventTime{DateTime: t.In(timefmt.Zone).Format(time.RFC3339)}
}

func createdTime(event ical.Event) string {
	for _, name := range []string{ical.PropCreated, ical.PropDateTimeStamp} {
		if event.Props.Get(name) == nil {
			continue
		}
		if t, err := event.Props.DateTime(name, time.UTC); err == nil {
			return t.UTC().Format(time.RFC3339)
		}
	}
	return ""
}

// Load reads events from source: an http(s) URL, "-" for stdin, or a file
// path. Content starting with '{' or '[' is treated as fetch-script JSON,
// anything else as iCalendar.
func Load(ctx context.Context, source string, window Window, logger *slog.Logger) ([]listitem.ExternalCalendarEvent, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var r io.ReadCloser
	switch {
	case source == "":
		return nil, errors.New("no calendar source configured")
	case source == "-":
		r = io.NopCloser(os.Stdin)
	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching calendar: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("calendar fetch returned status %d", resp.StatusCode)
		}
		r = resp.Body
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("opening calendar file: %w", err)
		}
		r = f
	}
	defer r.Close()

	events, err := Decode(r, window)
	if err != nil {
		return nil, err
	}
	logger.Debug("calendar loaded", "source", source, "events", len(events))
	return events, nil
}

// Decode sniffs the format of r and dispatches to DecodeFetchResult or
// DecodeICS.
func Decode(r io.Reader, window Window) ([]listitem.ExternalCalendarEvent, error) {
	br := bufio.NewReader(r)
	for {
		b, err := br.Peek(1)
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("reading calendar: %w", err)
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			br.ReadByte()
			continue
		case '{', '[':
			return DecodeFetchResult(br, window)
		default:
			return DecodeICS(br, window)
		}
	}
}
