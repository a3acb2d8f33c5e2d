package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/christopherklint97/daylog/internal/report"
	"github.com/christopherklint97/daylog/internal/timecard"
	"github.com/christopherklint97/daylog/internal/timefmt"
)

var checkinCmd = &cobra.Command{
	Use:   "checkin",
	Short: "Record the start of work",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runCheck(timecard.EntryStart) },
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Record the end of work",
	Args:  cobra.NoArgs,
	RunE:  func(cmd *cobra.Command, args []string) error { return runCheck(timecard.EntryEnd) },
}

var timecardCmd = &cobra.Command{
	Use:   "timecard",
	Short: "Show a day's check-ins and check-outs",
	Args:  cobra.NoArgs,
	RunE:  runTimecard,
}

var timecardDatesCmd = &cobra.Command{
	Use:   "dates",
	Short: "List recorded days, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runTimecardDates,
}

var timecardRmCmd = &cobra.Command{
	Use:   "rm <n>",
	Short: "Delete the n-th entry of the day",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimecardRm,
}

var timecardSetCmd = &cobra.Command{
	Use:   "set <n> <HH:MM>",
	Short: "Change the time of the n-th entry of the day",
	Args:  cobra.ExactArgs(2),
	RunE:  runTimecardSet,
}

func init() {
	timecardCmd.AddCommand(timecardDatesCmd, timecardRmCmd, timecardSetCmd)
	rootCmd.AddCommand(checkinCmd, checkoutCmd, timecardCmd)
}

func (e *env) saveTimecard(ctx context.Context, data timecard.Data) error {
	if err := e.db.SaveTimecard(ctx, data); err != nil {
		return fmt.Errorf("saving timecard: %w", err)
	}
	return nil
}

func runCheck(typ timecard.EntryType) error {
	return withEnv(func(ctx context.Context, e *env) error {
		data, err := e.db.LoadTimecard(ctx)
		if err != nil {
			return err
		}
		today := timefmt.Today(e.clock)
		state := timecard.CurrentState(data, today)

		switch typ {
		case timecard.EntryStart:
			if state == timecard.StateOpen {
				return fmt.Errorf("already checked in")
			}
			data = e.cards.AddCheckIn(data, "")
		case timecard.EntryEnd:
			if state != timecard.StateOpen {
				return fmt.Errorf("not checked in")
			}
			data = e.cards.AddCheckOut(data, "")

			// Timers do not outlive the working day.
			items, err := e.loadItems(ctx)
			if err != nil {
				return err
			}
			if _, running := e.items.FindRunningItem(items); running {
				if err := e.saveItems(ctx, e.items.StopAllRunningItems(items)); err != nil {
					return err
				}
				fmt.Println("Stopped running timers.")
			}
		}

		if err := e.saveTimecard(ctx, data); err != nil {
			return err
		}
		entries := data[today]
		fmt.Printf("%s at %s\n", checkLabel(typ), clockPart(entries[len(entries)-1].Time))
		return nil
	})
}

func checkLabel(typ timecard.EntryType) string {
	if typ == timecard.EntryStart {
		return "Checked in"
	}
	return "Checked out"
}

func runTimecard(cmd *cobra.Command, args []string) error {
	return withEnv(func(ctx context.Context, e *env) error {
		date, err := e.date()
		if err != nil {
			return err
		}
		data, err := e.db.LoadTimecard(ctx)
		if err != nil {
			return err
		}
		entries := data[date]
		if len(entries) == 0 {
			fmt.Printf("No timecard entries for %s.\n", date)
			return nil
		}

		fmt.Printf("Timecard for %s:\n\n", date)
		for i, entry := range entries {
			fmt.Printf("  %d. %-5s %s\n", i+1, entry.Type, clockPart(entry.Time))
		}
		if mins, ok := e.cards.WorkingMinutes(data, date); ok {
			fmt.Printf("\nWorked: %s\n", report.FormatDuration(int64(mins)*60))
		} else {
			fmt.Println(warningStyle.Render("\nEntries do not alternate check-in/check-out; fix them with 'daylog timecard rm'."))
		}
		return nil
	})
}

func runTimecardDates(cmd *cobra.Command, args []string) error {
	return withEnv(func(ctx context.Context, e *env) error {
		data, err := e.db.LoadTimecard(ctx)
		if err != nil {
			return err
		}
		for _, date := range timecard.SortedDates(data) {
			worked := "-"
			if mins, ok := e.cards.WorkingMinutes(data, date); ok {
				worked = report.FormatDuration(int64(mins) * 60)
			}
			fmt.Printf("  %s  %-8s %s\n", date, timecard.CurrentState(data, date), worked)
		}
		return nil
	})
}

func entryIndex(arg string, entries []timecard.Entry) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(entries) {
		return 0, fmt.Errorf("no entry #%s (have %d)", arg, len(entries))
	}
	return n - 1, nil
}

func runTimecardRm(cmd *cobra.Command, args []string) error {
	return withEnv(func(ctx context.Context, e *env) error {
		date, err := e.date()
		if err != nil {
			return err
		}
		data, err := e.db.LoadTimecard(ctx)
		if err != nil {
			return err
		}
		idx, err := entryIndex(args[0], data[date])
		if err != nil {
			return err
		}
		return e.saveTimecard(ctx, e.cards.DeleteEntry(data, date, idx))
	})
}

func runTimecardSet(cmd *cobra.Command, args []string) error {
	return withEnv(func(ctx context.Context, e *env) error {
		date, err := e.date()
		if err != nil {
			return err
		}
		data, err := e.db.LoadTimecard(ctx)
		if err != nil {
			return err
		}
		idx, err := entryIndex(args[0], data[date])
		if err != nil {
			return err
		}
		entry, err := timecard.NewEntry(data[date][idx].Type, date+" "+args[1]+":00")
		if err != nil {
			return err
		}
		return e.saveTimecard(ctx, e.cards.UpdateEntry(data, date, idx, entry))
	})
}
