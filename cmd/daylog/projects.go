package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/daylog/internal/project"
	"github.com/christopherklint97/daylog/internal/timefmt"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Show the project definitions of a month",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

var projectsLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: `Replace the project definitions with a JSON file ("-" reads stdin)`,
	Args:  cobra.ExactArgs(1),
	RunE:  runProjectsLoad,
}

var projectsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the project definitions as JSON",
	Args:  cobra.NoArgs,
	RunE:  runProjectsExport,
}

func init() {
	projectsCmd.AddCommand(projectsLoadCmd, projectsExportCmd)
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	return withEnv(func(ctx context.Context, e *env) error {
		date, err := e.date()
		if err != nil {
			return err
		}
		repo, err := e.db.LoadProjects(ctx)
		if err != nil {
			return err
		}

		month := timefmt.ExtractMonth(date)
		defs := repo.DefinitionsFor(date)
		if len(defs) == 0 {
			fmt.Printf("No projects defined for %s.\n", month)
			if months := repo.Months(); len(months) > 0 {
				fmt.Printf("Defined months: %s\n", strings.Join(months, ", "))
			}
			return nil
		}

		fmt.Println(titleStyle.Render("Projects for " + month))
		for _, def := range defs {
			swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(def.Color)).Render("■")
			fmt.Printf("  %s %s\n", swatch, def.ProjectCode)
			for _, tc := range def.Taskcodes {
				line := "      " + tc.Code
				if len(tc.Keywords) > 0 {
					line += dimStyle.Render("  [" + strings.Join(tc.Keywords, ", ") + "]")
				}
				fmt.Println(line)
			}
		}
		return nil
	})
}

func runProjectsLoad(cmd *cobra.Command, args []string) error {
	var data []byte
	var err error
	if args[0] == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("reading project definitions: %w", err)
	}

	repo, err := project.FromJSONText(string(data))
	if err != nil {
		return err
	}

	return withEnv(func(ctx context.Context, e *env) error {
		if err := e.db.SaveProjects(ctx, repo); err != nil {
			return fmt.Errorf("saving projects: %w", err)
		}
		fmt.Printf("Loaded project definitions for %d months.\n", len(repo.Months()))
		return nil
	})
}

func runProjectsExport(cmd *cobra.Command, args []string) error {
	return withEnv(func(ctx context.Context, e *env) error {
		repo, err := e.db.LoadProjects(ctx)
		if err != nil {
			return err
		}
		text, err := project.ToJSONText(repo)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	})
}
