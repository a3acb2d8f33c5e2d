package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/tj/go-naturaldate"

	"github.com/christopherklint97/daylog/internal/config"
	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/store"
	"github.com/christopherklint97/daylog/internal/timecard"
	"github.com/christopherklint97/daylog/internal/timefmt"
)

var rootCmd = &cobra.Command{
	Use:           "daylog",
	Short:         "Todos, timers and a timecard for your working day",
	Long:          "daylog keeps a daily todo list with per-item timers, a check-in/check-out timecard, and imported calendar events, and reports where the day went.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runRoot,
}

var (
	flagVerbose bool
	flagDB      string
	flagDate    string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Database path (overrides config and DAYLOG_DB)")
	rootCmd.PersistentFlags().StringVarP(&flagDate, "date", "d", "", `Day to work on: YYYY-MM-DD or natural language like "yesterday"`)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

// runRoot opens the day view on a terminal and prints the list otherwise.
func runRoot(cmd *cobra.Command, args []string) error {
	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return runTUI(cmd, args)
	}
	return runList(cmd, args)
}

// env bundles what every command needs.
type env struct {
	cfg    *config.Config
	db     *store.DB
	items  *listitem.Repository
	cards  *timecard.Repository
	clock  timefmt.Clock
	logger *slog.Logger
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if flagVerbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func openEnv() (*env, error) {
	logger := newLogger()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagDB != "" {
		cfg.Storage.Path = flagDB
	}

	path, err := cfg.DBPath()
	if err != nil {
		return nil, err
	}
	db, err := store.Open(path, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	clock := timefmt.SystemClock{}
	return &env{
		cfg:    cfg,
		db:     db,
		items:  listitem.NewRepository(clock, nil),
		cards:  timecard.NewRepository(clock),
		clock:  clock,
		logger: logger,
	}, nil
}

func (e *env) Close() error { return e.db.Close() }

func (e *env) loadItems(ctx context.Context) ([]listitem.ListItem, error) {
	items, err := e.db.LoadItems(ctx, e.items)
	if err != nil {
		return nil, fmt.Errorf("loading todos: %w", err)
	}
	return items, nil
}

func (e *env) saveItems(ctx context.Context, items []listitem.ListItem) error {
	if err := e.db.SaveItems(ctx, e.items, items); err != nil {
		return fmt.Errorf("saving todos: %w", err)
	}
	return nil
}

// withEnv opens the environment for the duration of fn.
func withEnv(fn func(ctx context.Context, e *env) error) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(context.Background(), e)
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// resolveDate turns the --date flag into YYYY-MM-DD. Empty means today.
func resolveDate(clock timefmt.Clock, s string) (string, error) {
	if s == "" {
		return timefmt.Today(clock), nil
	}
	if isoDate.MatchString(s) {
		if _, err := time.Parse(timefmt.DateLayout, s); err != nil {
			return "", fmt.Errorf("invalid date %q", s)
		}
		return s, nil
	}
	ref := clock.Now().In(timefmt.Zone)
	t, err := naturaldate.Parse(s, ref, naturaldate.WithDirection(naturaldate.Past))
	if err != nil {
		return "", fmt.Errorf("could not understand date %q: %w", s, err)
	}
	return t.In(timefmt.Zone).Format(timefmt.DateLayout), nil
}

func (e *env) date() (string, error) {
	return resolveDate(e.clock, flagDate)
}
