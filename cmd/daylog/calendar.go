package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/daylog/internal/calendar"
	"github.com/christopherklint97/daylog/internal/config"
)

var importCalendarCmd = &cobra.Command{
	Use:   "import-calendar",
	Short: "Import calendar events for a day",
	Long: `Import events from the calendar source: the JSON written by the calendar
fetch script, an .ics file or URL, or "-" to read either from stdin.
Re-importing the same events replaces them instead of duplicating them.`,
	Args: cobra.NoArgs,
	RunE: runImportCalendar,
}

func init() {
	importCalendarCmd.Flags().String("source", "", "Calendar source (default from config)")
	importCalendarCmd.Flags().String("taskcode", "", "Task code for imported items (default from config)")
	importCalendarCmd.Flags().String("as", "", `Import as "event" or "todo" (default from config)`)
	importCalendarCmd.Flags().Bool("all", false, "Import every event, not just the selected day's")
	importCalendarCmd.Flags().Bool("remember", false, "Save --source as the default calendar source")
	rootCmd.AddCommand(importCalendarCmd)
}

func runImportCalendar(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("source")
	taskcode, _ := cmd.Flags().GetString("taskcode")
	as, _ := cmd.Flags().GetString("as")
	all, _ := cmd.Flags().GetBool("all")
	remember, _ := cmd.Flags().GetBool("remember")

	return withEnv(func(ctx context.Context, e *env) error {
		if source == "" {
			source = e.cfg.Calendar.Source
		} else if remember {
			if err := config.SaveCalendarSource(source); err != nil {
				return fmt.Errorf("saving calendar source: %w", err)
			}
		}
		if source == "" {
			return fmt.Errorf("no calendar source: pass --source or set [calendar] source in the config")
		}
		if taskcode == "" {
			taskcode = e.cfg.Calendar.DefaultTaskcode
		}
		if as == "" {
			as = e.cfg.Calendar.ImportAs
		}

		var window calendar.Window
		date, err := e.date()
		if err != nil {
			return err
		}
		if !all {
			if window, err = calendar.DayWindow(date); err != nil {
				return err
			}
		}

		events, err := calendar.Load(ctx, source, window, e.logger)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			fmt.Println("No calendar events found.")
			return nil
		}

		items, err := e.loadItems(ctx)
		if err != nil {
			return err
		}
		before := len(items)

		switch as {
		case "todo":
			items, err = e.items.AddTodosFromCalendarEvents(items, events, taskcode)
		case "event":
			items, err = e.items.AddCalendarEvents(items, events, taskcode)
		default:
			return fmt.Errorf("invalid --as %q (expected \"event\" or \"todo\")", as)
		}
		if err != nil {
			return err
		}
		if err := e.saveItems(ctx, items); err != nil {
			return err
		}

		added := len(items) - before
		fmt.Printf("Imported %d events as %ss (%d new, %d updated)\n", len(events), as, added, len(events)-added)
		return nil
	})
}
