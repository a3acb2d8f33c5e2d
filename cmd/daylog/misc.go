package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/christopherklint97/daylog/internal/config"
	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/scheduler"
	"github.com/christopherklint97/daylog/internal/schema"
	"github.com/christopherklint97/daylog/internal/store"
	"github.com/christopherklint97/daylog/internal/timecard"
	"github.com/christopherklint97/daylog/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive day view",
	Args:  cobra.NoArgs,
	RunE:  runTUI,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run in the foreground and send reminders",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

var watchStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running watcher",
	Args:  cobra.NoArgs,
	RunE:  runWatchStop,
}

var schemaCmd = &cobra.Command{
	Use:       "schema <todos|timecard|projects>",
	Short:     "Print the JSON Schema of a stored document",
	Args:      cobra.ExactArgs(1),
	ValidArgs: schema.Kinds(),
	RunE:      runSchema,
}

var undoCmd = &cobra.Command{
	Use:       "undo <todos|timecard|projects>",
	Short:     "Restore the previous saved version of a document",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{store.DocTodos, store.DocTimecard, store.DocProjects},
	RunE:      runUndo,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	watchCmd.AddCommand(watchStopCmd)
	rootCmd.AddCommand(tuiCmd, watchCmd, schemaCmd, undoCmd, configCmd)
}

// dbPersister saves the day view's changes to the database.
type dbPersister struct {
	db   *store.DB
	repo *listitem.Repository
}

func (p dbPersister) SaveItems(items []listitem.ListItem) error {
	return p.db.SaveItems(context.Background(), p.repo, items)
}

func (p dbPersister) SaveTimecard(card timecard.Data) error {
	return p.db.SaveTimecard(context.Background(), card)
}

func runTUI(cmd *cobra.Command, args []string) error {
	return withEnv(func(ctx context.Context, e *env) error {
		items, err := e.loadItems(ctx)
		if err != nil {
			return err
		}
		card, err := e.db.LoadTimecard(ctx)
		if err != nil {
			return err
		}
		projects, err := e.db.LoadProjects(ctx)
		if err != nil {
			return err
		}

		app := tui.NewApp(e.items, e.cards, dbPersister{db: e.db, repo: e.items}, items, card, projects, e.cfg.Calendar.DefaultTaskcode)
		p := tea.NewProgram(app, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running TUI: %w", err)
		}
		return nil
	})
}

func runWatch(cmd *cobra.Command, args []string) error {
	return withEnv(func(ctx context.Context, e *env) error {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		// Handle graceful shutdown
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigCh
			cancel()
		}()

		return scheduler.New(e.cfg, e.db, e.items, e.logger).Run(ctx)
	})
}

func runWatchStop(cmd *cobra.Command, args []string) error {
	pid, err := scheduler.ReadPID()
	if err != nil {
		return err
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("finding process %d: %w", pid, err)
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("sending stop signal: %w", err)
	}

	fmt.Printf("Sent stop signal to daylog watch (PID %d)\n", pid)
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	out, err := schema.JSON(args[0])
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runUndo(cmd *cobra.Command, args []string) error {
	name := args[0]
	switch name {
	case store.DocTodos, store.DocTimecard, store.DocProjects:
	default:
		return fmt.Errorf("unknown document %q", name)
	}
	return withEnv(func(ctx context.Context, e *env) error {
		if err := e.db.RestorePrevious(ctx, name); err != nil {
			if errors.Is(err, store.ErrNoHistory) {
				return fmt.Errorf("nothing to undo for %s", name)
			}
			return err
		}
		fmt.Printf("Restored the previous version of %s.\n", name)
		return nil
	})
}

func runConfig(cmd *cobra.Command, args []string) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.WriteDefault(configPath); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	c := exec.Command(editor, configPath)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	if err := c.Run(); err != nil {
		// If editor fails, just print the path
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}

	if _, err := config.LoadFile(configPath); err != nil {
		fmt.Println(warningStyle.Render("Warning: " + err.Error()))
	}
	return nil
}
