package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/project"
	"github.com/christopherklint97/daylog/internal/report"
	"github.com/christopherklint97/daylog/internal/timecard"
	"github.com/christopherklint97/daylog/internal/timefmt"
)

type viewState int

const (
	listView viewState = iota
	addView
	editView
)

const barWidth = 48

// Persister saves the documents the day view changes.
type Persister interface {
	SaveItems(items []listitem.ListItem) error
	SaveTimecard(card timecard.Data) error
}

type itemsSavedMsg struct {
	previous []listitem.ListItem
	err      error
}

type cardSavedMsg struct {
	previous timecard.Data
	err      error
}

type tickMsg time.Time

// App is the interactive day view.
type App struct {
	state  viewState
	input  inputModel
	cursor int
	date   string
	status string
	errMsg string
	width  int

	items    []listitem.ListItem
	card     timecard.Data
	projects project.Repository

	repo            *listitem.Repository
	timecard        *timecard.Repository
	persist         Persister
	defaultTaskcode string
}

func NewApp(
	repo *listitem.Repository,
	tc *timecard.Repository,
	persist Persister,
	items []listitem.ListItem,
	card timecard.Data,
	projects project.Repository,
	defaultTaskcode string,
) *App {
	if card == nil {
		card = timecard.Data{}
	}
	return &App{
		state:           listView,
		date:            timefmt.Today(repo.Clock()),
		items:           items,
		card:            card,
		projects:        projects,
		repo:            repo,
		timecard:        tc,
		persist:         persist,
		defaultTaskcode: defaultTaskcode,
	}
}

func (a *App) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Items returns the current item list.
func (a *App) Items() []listitem.ListItem { return a.items }

// Timecard returns the current timecard.
func (a *App) Timecard() timecard.Data { return a.card }

// Date returns the day being shown.
func (a *App) Date() string { return a.date }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		return a, nil
	case tickMsg:
		return a, tick()
	case itemsSavedMsg:
		if msg.err != nil {
			a.items = msg.previous
			a.clampCursor()
			a.errMsg = "save failed, change reverted: " + msg.err.Error()
		}
		return a, nil
	case cardSavedMsg:
		if msg.err != nil {
			a.card = msg.previous
			a.errMsg = "save failed, change reverted: " + msg.err.Error()
		}
		return a, nil
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
	}

	switch a.state {
	case addView, editView:
		return a.updateInput(msg)
	}
	return a.updateList(msg)
}

func (a *App) visible() []listitem.ListItem {
	return listitem.FilterItemsByDate(a.items, a.date)
}

func (a *App) selected() (listitem.ListItem, bool) {
	vis := a.visible()
	if a.cursor < 0 || a.cursor >= len(vis) {
		return nil, false
	}
	return vis[a.cursor], true
}

func (a *App) clampCursor() {
	n := len(a.visible())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	a.errMsg = ""
	a.status = ""

	switch keyMsg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.visible())-1 {
			a.cursor++
		}
	case "h", "left":
		a.shiftDate(-1)
	case "l", "right":
		a.shiftDate(1)
	case "t":
		a.date = timefmt.Today(a.repo.Clock())
		a.cursor = 0
	case " ", "space", "enter":
		if it, ok := a.selected(); ok {
			return a, a.setItems(a.repo.ToggleItem(a.items, it.ID()))
		}
	case "s":
		if it, ok := a.selected(); ok {
			if it.IsTimerRunning() {
				a.status = "Stopped " + it.Text()
				return a, a.setItems(a.repo.StopItemTimer(a.items, it.ID()))
			}
			a.status = "Started " + it.Text()
			return a, a.setItems(a.repo.StartItemTimerExclusive(a.items, it.ID()))
		}
	case "x":
		if _, running := a.repo.FindRunningItem(a.items); running {
			a.status = "Stopped all timers"
			return a, a.setItems(a.repo.StopAllRunningItems(a.items))
		}
	case "d":
		if it, ok := a.selected(); ok {
			cmd := a.setItems(a.repo.DeleteItem(a.items, it.ID()))
			a.clampCursor()
			return a, cmd
		}
	case "K", "shift+up":
		return a, a.moveSelected(-1)
	case "J", "shift+down":
		return a, a.moveSelected(1)
	case "a":
		a.state = addView
		a.input = newInputModel("New todo", "")
		return a, a.input.textarea.Focus()
	case "e":
		if it, ok := a.selected(); ok {
			prefill := it.Text()
			if it.Taskcode() != "" {
				prefill = it.Taskcode() + ": " + prefill
			}
			a.state = editView
			a.input = newInputModel("Edit item", prefill)
			return a, a.input.textarea.Focus()
		}
	case "i":
		return a, a.setCard(a.timecard.AddCheckIn(a.card, ""))
	case "o":
		return a, a.setCard(a.timecard.AddCheckOut(a.card, ""))
	}
	return a, nil
}

func (a *App) shiftDate(days int) {
	if d, err := timefmt.AddDays(a.date, days); err == nil {
		a.date = d
		a.cursor = 0
	}
}

// moveSelected swaps the selected item with its visible neighbour.
func (a *App) moveSelected(delta int) tea.Cmd {
	vis := a.visible()
	target := a.cursor + delta
	if a.cursor >= len(vis) || target < 0 || target >= len(vis) {
		return nil
	}
	from := indexOf(a.items, vis[a.cursor].ID())
	to := indexOf(a.items, vis[target].ID())
	a.cursor = target
	return a.setItems(a.repo.ReorderItems(a.items, from, to))
}

func indexOf(items []listitem.ListItem, id string) int {
	for i, it := range items {
		if it.ID() == id {
			return i
		}
	}
	return -1
}

func (a *App) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			a.state = listView
			return a, nil
		case "enter":
			return a, a.submitInput()
		}
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) submitInput() tea.Cmd {
	state := a.state
	a.state = listView

	code, text := parseEntry(a.input.Value())
	if text == "" {
		return nil
	}

	switch state {
	case addView:
		if code == "" {
			code = a.guessTaskcode(text)
		}
		next := a.repo.AddTodo(a.items, code, text)
		a.cursor = len(a.visible())
		cmd := a.setItems(next)
		a.clampCursor()
		a.status = "Added " + text
		return cmd
	case editView:
		it, ok := a.selected()
		if !ok {
			return nil
		}
		next := a.repo.EditItemText(a.items, it.ID(), text)
		if code != "" {
			next = a.repo.EditItemTaskcode(next, it.ID(), code)
		}
		return a.setItems(next)
	}
	return nil
}

func (a *App) guessTaskcode(text string) string {
	if code, ok := a.projects.FindTaskcodeByKeyword(a.date, text); ok {
		return code
	}
	return a.defaultTaskcode
}

// setItems applies next optimistically and saves it in the background. A
// failed save restores the previous list.
func (a *App) setItems(next []listitem.ListItem) tea.Cmd {
	previous := a.items
	a.items = next
	return func() tea.Msg {
		return itemsSavedMsg{previous: previous, err: a.persist.SaveItems(next)}
	}
}

func (a *App) setCard(next timecard.Data) tea.Cmd {
	previous := a.card
	a.card = next
	a.status = fmt.Sprintf("Timecard: %s", timecard.CurrentState(next, timefmt.Today(a.repo.Clock())))
	return func() tea.Msg {
		return cardSavedMsg{previous: previous, err: a.persist.SaveTimecard(next)}
	}
}

func (a *App) View() string {
	switch a.state {
	case addView, editView:
		return a.input.View()
	}

	now := a.repo.Clock().Now()
	var b strings.Builder

	header := titleStyle.Render("daylog " + a.date)
	if a.date == timefmt.Today(a.repo.Clock()) {
		header += dimStyle.Render(" (today)")
	}
	b.WriteString(header + "\n")
	b.WriteString(subtitleStyle.Render(a.timecardLine()) + "\n")

	vis := a.visible()
	if len(vis) == 0 {
		b.WriteString(dimStyle.Render("  nothing for this day") + "\n")
	}
	for i, it := range vis {
		b.WriteString(a.renderItem(it, i == a.cursor, now) + "\n")
	}

	bar := report.StackBarDisplay(vis, a.date, a.projects, now)
	b.WriteString("\n" + renderStackBar(bar, barWidth) + "\n")
	b.WriteString(dimStyle.Render("total "+report.FormatDuration(bar.TotalSeconds)) + "\n")

	if a.errMsg != "" {
		b.WriteString("\n" + errorStyle.Render(a.errMsg) + "\n")
	} else if a.status != "" {
		b.WriteString("\n" + statusStyle.Render(a.status) + "\n")
	}

	b.WriteString(helpStyle.Render("j/k: move • space: done • s: start/stop • x: stop all • a: add • e: edit • d: delete • h/l: day • i/o: check in/out • q: quit"))
	return b.String()
}

func (a *App) renderItem(it listitem.ListItem, selected bool, now time.Time) string {
	cursor := "  "
	if selected {
		cursor = selectedStyle.Render("> ")
	}

	check := "[ ]"
	if it.IsCompleted() {
		check = "[x]"
	}

	text := it.Text()
	switch {
	case it.IsCompleted():
		text = doneStyle.Render(text)
	case it.IsTimerRunning():
		text = runningStyle.Render(text + " ●")
	case selected:
		text = selectedStyle.Render(text)
	}

	line := cursor + check + " "
	if ev, ok := it.(listitem.CalendarEvent); ok && ev.StartTime() != nil {
		line += dimStyle.Render(clockPart(*ev.StartTime())) + " "
	}
	if it.Taskcode() != "" {
		line += taskcodeStyle.Render(it.Taskcode()) + " "
	}
	line += text

	if secs := it.ExecutionSecondsOn(a.date, now); secs > 0 {
		line += dimStyle.Render("  " + report.FormatDuration(secs))
	}
	return line
}

func (a *App) timecardLine() string {
	entries := a.card[a.date]
	if len(entries) == 0 {
		return "not checked in"
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("%s %s", e.Type, clockPart(e.Time)))
	}
	line := strings.Join(parts, ", ")
	if mins, ok := a.timecard.WorkingMinutes(a.card, a.date); ok {
		line += fmt.Sprintf("  (worked %s)", report.FormatDuration(int64(mins)*60))
	}
	return line
}

// clockPart returns the HH:MM of a canonical timestamp.
func clockPart(ts string) string {
	if len(ts) < 16 {
		return ts
	}
	return ts[11:16]
}
