package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show where the day's time went",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().Bool("json", false, "Print the stack bar as JSON")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	return withEnv(func(ctx context.Context, e *env) error {
		date, err := e.date()
		if err != nil {
			return err
		}
		items, err := e.loadItems(ctx)
		if err != nil {
			return err
		}
		projects, err := e.db.LoadProjects(ctx)
		if err != nil {
			return err
		}
		now := e.clock.Now()
		visible := listitem.FilterItemsByDate(items, date)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report.StackBarDisplay(visible, date, projects, now))
		}

		summary := report.DailySummary(visible, date, projects, now)
		if len(summary) == 0 {
			fmt.Printf("No time recorded on %s.\n", date)
			return nil
		}

		fmt.Println(titleStyle.Render("Report for " + date))
		var total int64
		for _, row := range summary {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(row.Color)).Render("■")
			code := row.Taskcode
			if code == "" {
				code = "(none)"
			}
			fmt.Printf("  %s %-16s %s\n", swatch, code, report.FormatDuration(row.Seconds))
			total += row.Seconds
		}
		fmt.Printf("\n  Total: %s\n", report.FormatDuration(total))

		if data, err := e.db.LoadTimecard(ctx); err == nil {
			if mins, ok := e.cards.WorkingMinutes(data, date); ok {
				fmt.Printf("  Worked: %s\n", report.FormatDuration(int64(mins)*60))
			}
		}
		return nil
	})
}
