package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/report"
)

var addCmd = &cobra.Command{
	Use:   "add <text>...",
	Short: "Add a todo",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the items of a day",
	RunE:    runList,
}

var doneCmd = &cobra.Command{
	Use:   "done <item>",
	Short: "Toggle an item's completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runDone,
}

var startCmd = &cobra.Command{
	Use:   "start <item>",
	Short: "Start an item's timer, stopping any other",
	Args:  cobra.ExactArgs(1),
	RunE:  runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop [item]",
	Short: "Stop an item's timer, or all timers",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStop,
}

var rmCmd = &cobra.Command{
	Use:   "rm <item>",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var editCmd = &cobra.Command{
	Use:   "edit <item>",
	Short: "Change an item's text or task code, or replace it with JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

var moveCmd = &cobra.Command{
	Use:   "move <item> <position>",
	Short: "Move an item to a 1-based position in the full list",
	Args:  cobra.ExactArgs(2),
	RunE:  runMove,
}

func init() {
	addCmd.Flags().StringP("taskcode", "t", "", "Task code (default: matched from project keywords)")
	addCmd.Flags().Bool("start", false, "Start the timer right away")
	startCmd.Flags().Bool("keep", false, "Keep other timers running")
	editCmd.Flags().String("text", "", "New text")
	editCmd.Flags().String("taskcode", "", "New task code")
	editCmd.Flags().String("json", "", `Replacement item as JSON ("-" reads stdin)`)
	listCmd.Flags().Bool("all", false, "Show every item regardless of date")

	rootCmd.AddCommand(addCmd, listCmd, doneCmd, startCmd, stopCmd, rmCmd, editCmd, moveCmd)
}

// findItem resolves ref as a 1-based index into the day's visible items, an
// exact id, or a unique id prefix.
func findItem(items []listitem.ListItem, date, ref string) (listitem.ListItem, error) {
	if n, err := strconv.Atoi(ref); err == nil {
		vis := listitem.FilterItemsByDate(items, date)
		if n < 1 || n > len(vis) {
			return nil, fmt.Errorf("no item #%d on %s", n, date)
		}
		return vis[n-1], nil
	}

	var match listitem.ListItem
	for _, it := range items {
		if it.ID() == ref {
			return it, nil
		}
		if strings.HasPrefix(it.ID(), ref) {
			if match != nil {
				return nil, fmt.Errorf("%q matches more than one item", ref)
			}
			match = it
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no item matches %q", ref)
	}
	return match, nil
}

// mutateItem loads the items, applies fn to the item named by ref and saves.
func mutateItem(ref string, fn func(e *env, items []listitem.ListItem, it listitem.ListItem) ([]listitem.ListItem, error)) error {
	return withEnv(func(ctx context.Context, e *env) error {
		date, err := e.date()
		if err != nil {
			return err
		}
		items, err := e.loadItems(ctx)
		if err != nil {
			return err
		}
		it, err := findItem(items, date, ref)
		if err != nil {
			return err
		}
		next, err := fn(e, items, it)
		if err != nil {
			return err
		}
		return e.saveItems(ctx, next)
	})
}

func runAdd(cmd *cobra.Command, args []string) error {
	taskcode, _ := cmd.Flags().GetString("taskcode")
	start, _ := cmd.Flags().GetBool("start")
	text := strings.Join(args, " ")

	return withEnv(func(ctx context.Context, e *env) error {
		items, err := e.loadItems(ctx)
		if err != nil {
			return err
		}
		if taskcode == "" {
			date, err := e.date()
			if err != nil {
				return err
			}
			projects, err := e.db.LoadProjects(ctx)
			if err != nil {
				return err
			}
			if code, ok := projects.FindTaskcodeByKeyword(date, text); ok {
				taskcode = code
				e.logger.Debug("taskcode matched by keyword", "taskcode", code)
			}
		}

		items = e.items.AddTodo(items, taskcode, text)
		added := items[len(items)-1]
		if start {
			items = e.items.StartItemTimerExclusive(items, added.ID())
		}
		if err := e.saveItems(ctx, items); err != nil {
			return err
		}
		fmt.Printf("Added %s %s\n", dimStyle.Render(shortID(added.ID())), added.Text())
		return nil
	})
}

func runList(cmd *cobra.Command, args []string) error {
	all := false
	if cmd.Flags().Lookup("all") != nil {
		all, _ = cmd.Flags().GetBool("all")
	}
	return withEnv(func(ctx context.Context, e *env) error {
		date, err := e.date()
		if err != nil {
			return err
		}
		items, err := e.loadItems(ctx)
		if err != nil {
			return err
		}
		if !all {
			items = listitem.FilterItemsByDate(items, date)
		}
		return printItems(os.Stdout, items, date, e)
	})
}

func printItems(w io.Writer, items []listitem.ListItem, date string, e *env) error {
	if len(items) == 0 {
		fmt.Fprintf(w, "No items for %s.\n", date)
		return nil
	}
	now := e.clock.Now()
	for i, it := range items {
		check := "[ ]"
		if it.IsCompleted() {
			check = "[x]"
		}
		line := fmt.Sprintf("%3d. %s %s ", i+1, check, dimStyle.Render(shortID(it.ID())))
		if ev, ok := it.(listitem.CalendarEvent); ok && ev.StartTime() != nil {
			line += clockPart(*ev.StartTime()) + " "
		}
		if it.Taskcode() != "" {
			line += taskcodeStyle.Render(it.Taskcode()) + " "
		}
		line += it.Text()
		if it.IsTimerRunning() {
			line += runningStyle.Render(" (running)")
		}
		if secs := it.ExecutionSecondsOn(date, now); secs > 0 {
			line += dimStyle.Render("  " + report.FormatDuration(secs))
		}
		fmt.Fprintln(w, line)
	}
	return nil
}

// clockPart returns the HH:MM of a canonical timestamp.
func clockPart(ts string) string {
	if len(ts) < 16 {
		return ts
	}
	return ts[11:16]
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func runDone(cmd *cobra.Command, args []string) error {
	return mutateItem(args[0], func(e *env, items []listitem.ListItem, it listitem.ListItem) ([]listitem.ListItem, error) {
		next := e.items.ToggleItem(items, it.ID())
		if updated, ok := e.items.Find(next, it.ID()); ok && updated.IsCompleted() {
			fmt.Printf("Completed %s\n", it.Text())
		} else {
			fmt.Printf("Reopened %s\n", it.Text())
		}
		return next, nil
	})
}

func runStart(cmd *cobra.Command, args []string) error {
	keep, _ := cmd.Flags().GetBool("keep")
	return mutateItem(args[0], func(e *env, items []listitem.ListItem, it listitem.ListItem) ([]listitem.ListItem, error) {
		if _, ok := it.(listitem.CalendarEvent); ok {
			return nil, fmt.Errorf("%q is a calendar event and has no timer", it.Text())
		}
		if it.IsTimerRunning() {
			fmt.Printf("%s is already running\n", it.Text())
			return items, nil
		}
		fmt.Printf("Started %s\n", it.Text())
		if keep {
			return e.items.StartItemTimer(items, it.ID()), nil
		}
		return e.items.StartItemTimerExclusive(items, it.ID()), nil
	})
}

func runStop(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return mutateItem(args[0], func(e *env, items []listitem.ListItem, it listitem.ListItem) ([]listitem.ListItem, error) {
			fmt.Printf("Stopped %s\n", it.Text())
			return e.items.StopItemTimer(items, it.ID()), nil
		})
	}
	return withEnv(func(ctx context.Context, e *env) error {
		items, err := e.loadItems(ctx)
		if err != nil {
			return err
		}
		running, ok := e.items.FindRunningItem(items)
		if !ok {
			fmt.Println("No timer is running.")
			return nil
		}
		fmt.Printf("Stopped %s\n", running.Text())
		return e.saveItems(ctx, e.items.StopAllRunningItems(items))
	})
}

func runRm(cmd *cobra.Command, args []string) error {
	return mutateItem(args[0], func(e *env, items []listitem.ListItem, it listitem.ListItem) ([]listitem.ListItem, error) {
		fmt.Printf("Deleted %s\n", it.Text())
		return e.items.DeleteItem(items, it.ID()), nil
	})
}

func runEdit(cmd *cobra.Command, args []string) error {
	text, _ := cmd.Flags().GetString("text")
	taskcode, _ := cmd.Flags().GetString("taskcode")
	jsonText, _ := cmd.Flags().GetString("json")

	if text == "" && taskcode == "" && jsonText == "" {
		return fmt.Errorf("nothing to change: pass --text, --taskcode or --json")
	}
	if jsonText == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		jsonText = string(data)
	}

	return mutateItem(args[0], func(e *env, items []listitem.ListItem, it listitem.ListItem) ([]listitem.ListItem, error) {
		if jsonText != "" {
			return e.items.EditSingleItemFromJSON(items, it.ID(), jsonText)
		}
		if text != "" {
			items = e.items.EditItemText(items, it.ID(), text)
		}
		if taskcode != "" {
			items = e.items.EditItemTaskcode(items, it.ID(), taskcode)
		}
		return items, nil
	})
}

func runMove(cmd *cobra.Command, args []string) error {
	pos, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("position must be a number: %w", err)
	}
	return mutateItem(args[0], func(e *env, items []listitem.ListItem, it listitem.ListItem) ([]listitem.ListItem, error) {
		if pos < 1 || pos > len(items) {
			return nil, fmt.Errorf("position %d is outside 1..%d", pos, len(items))
		}
		from := -1
		for i, x := range items {
			if x.ID() == it.ID() {
				from = i
				break
			}
		}
		return e.items.ReorderItems(items, from, pos-1), nil
	})
}
