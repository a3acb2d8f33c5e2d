package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/project"
	"github.com/christopherklint97/daylog/internal/report"
	"github.com/christopherklint97/daylog/internal/timecard"
	"github.com/christopherklint97/daylog/internal/timefmt"
)

type fakePersister struct {
	items    []listitem.ListItem
	card     timecard.Data
	saves    int
	failNext error
}

func (p *fakePersister) SaveItems(items []listitem.ListItem) error {
	p.saves++
	if err := p.failNext; err != nil {
		p.failNext = nil
		return err
	}
	p.items = items
	return nil
}

func (p *fakePersister) SaveTimecard(card timecard.Data) error {
	p.saves++
	if err := p.failNext; err != nil {
		p.failNext = nil
		return err
	}
	p.card = card
	return nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends msg and, in the list view, runs the resulting command once and
// feeds its message back the way the program loop would.
func press(t *testing.T, a *App, msg tea.Msg) {
	t.Helper()
	_, cmd := a.Update(msg)
	if cmd == nil || a.state != listView {
		return
	}
	switch out := cmd().(type) {
	case itemsSavedMsg, cardSavedMsg:
		a.Update(out)
	}
}

func newTestApp(t *testing.T) (*App, *fakePersister) {
	t.Helper()
	clock := timefmt.FixedClock(time.Date(2024, 5, 1, 10, 0, 0, 0, timefmt.Zone))
	n := 0
	repo := listitem.NewRepository(clock, func() string {
		n++
		return "id-" + string(rune('0'+n))
	})
	items := repo.AddTodo(nil, "DEV", "first")
	items = repo.AddTodo(items, "DEV", "second")

	projects, err := project.FromJSONText(`{"2024-05":[{"projectcode":"P","color":"#336699","taskcodes":[{"taskcode":"OPS","keywords":["deploy"]}]}]}`)
	require.NoError(t, err)

	p := &fakePersister{}
	return NewApp(repo, timecard.NewRepository(clock), p, items, nil, projects, "MISC"), p
}

func TestApp_ToggleAndMove(t *testing.T) {
	a, p := newTestApp(t)

	press(t, a, key(" "))
	assert.True(t, a.Items()[0].IsCompleted())
	assert.Equal(t, 1, p.saves)

	press(t, a, key("j"))
	press(t, a, key("j"))
	assert.Equal(t, 1, a.cursor)

	press(t, a, key("K"))
	assert.Equal(t, "second", a.Items()[0].Text())
	assert.Equal(t, 0, a.cursor)
}

func TestApp_TimersAreExclusive(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, key("s"))
	assert.True(t, a.Items()[0].IsTimerRunning())

	press(t, a, key("j"))
	press(t, a, key("s"))
	assert.False(t, a.Items()[0].IsTimerRunning())
	assert.True(t, a.Items()[1].IsTimerRunning())

	press(t, a, key("x"))
	_, running := a.repo.FindRunningItem(a.Items())
	assert.False(t, running)
}

func TestApp_AddUsesKeywordTaskcode(t *testing.T) {
	a, p := newTestApp(t)

	press(t, a, key("a"))
	require.Equal(t, addView, a.state)
	press(t, a, key("deploy api"))
	press(t, a, key("enter"))

	require.Len(t, a.Items(), 3)
	added := a.Items()[2]
	assert.Equal(t, "OPS", added.Taskcode())
	assert.Equal(t, "deploy api", added.Text())
	assert.Equal(t, 2, a.cursor)
	assert.Len(t, p.items, 3)

	press(t, a, key("a"))
	press(t, a, key("REV-9: review pr"))
	press(t, a, key("enter"))
	assert.Equal(t, "REV-9", a.Items()[3].Taskcode())

	press(t, a, key("a"))
	press(t, a, key("lunch"))
	press(t, a, key("enter"))
	assert.Equal(t, "MISC", a.Items()[4].Taskcode())
}

func TestApp_EditAndCancel(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, key("e"))
	require.Equal(t, editView, a.state)
	press(t, a, key("esc"))
	assert.Equal(t, listView, a.state)
	assert.Equal(t, "first", a.Items()[0].Text())
}

func TestApp_SaveFailureRollsBack(t *testing.T) {
	a, p := newTestApp(t)
	p.failNext = errors.New("disk full")

	press(t, a, key("d"))
	assert.Len(t, a.Items(), 2)
	assert.Contains(t, a.View(), "disk full")
}

func TestApp_CheckInOut(t *testing.T) {
	a, p := newTestApp(t)

	press(t, a, key("i"))
	assert.Equal(t, timecard.StateOpen, timecard.CurrentState(p.card, "2024-05-01"))
	press(t, a, key("o"))
	assert.Equal(t, timecard.StateClosed, timecard.CurrentState(a.Timecard(), "2024-05-01"))
}

func TestApp_DayNavigation(t *testing.T) {
	a, _ := newTestApp(t)

	press(t, a, key("h"))
	assert.Equal(t, "2024-04-30", a.Date())
	assert.Empty(t, a.visible())
	assert.Contains(t, a.View(), "nothing for this day")

	press(t, a, key("t"))
	assert.Equal(t, "2024-05-01", a.Date())
}

func TestApp_ViewShowsItems(t *testing.T) {
	a, _ := newTestApp(t)
	view := a.View()
	assert.Contains(t, view, "daylog 2024-05-01")
	assert.Contains(t, view, "first")
	assert.Contains(t, view, "not checked in")
}

func TestParseEntry(t *testing.T) {
	code, text := parseEntry("DEV-1: fix login")
	assert.Equal(t, "DEV-1", code)
	assert.Equal(t, "fix login", text)

	code, text = parseEntry("note: with spaces in code: no")
	assert.Equal(t, "note", code)
	assert.Equal(t, "with spaces in code: no", text)

	code, text = parseEntry("call with bob: 10am")
	assert.Empty(t, code)
	assert.Equal(t, "call with bob: 10am", text)
}

func TestSegmentWidths(t *testing.T) {
	bar := report.StackBar{
		Segments: []report.Segment{
			{Seconds: 3600, Color: "#ff0000"},
			{Seconds: 10, Color: "#00ff00"},
			{Seconds: 7200, Color: "#0000ff"},
		},
		TotalSeconds:      10810,
		DisplayMaxSeconds: 43200,
	}
	widths := segmentWidths(bar, 48)
	assert.Equal(t, []int{4, 1, 7}, widths)

	total := 0
	for _, w := range widths {
		total += w
	}
	assert.LessOrEqual(t, total, 48)

	out := renderHourMarkers(report.StackBar{DisplayMaxSeconds: 43200, HourMarkers: []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}}, 48)
	assert.True(t, strings.Contains(out, "0") && strings.Contains(out, "12"))
}
