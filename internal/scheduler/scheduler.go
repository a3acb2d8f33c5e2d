package scheduler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/christopherklint97/daylog/internal/config"
	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/store"
	"github.com/christopherklint97/daylog/internal/timefmt"
)

const lastCheckKey = "watch.last_check"

// Scheduler wakes up every check interval and sends reminders about the
// timecard and running timers.
type Scheduler struct {
	cfg      *config.Config
	db       *store.DB
	repo     *listitem.Repository
	notifier Notifier
	logger   *slog.Logger
	out      io.Writer
	pidPath  string
}

func New(cfg *config.Config, db *store.DB, repo *listitem.Repository, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Scheduler{
		cfg:      cfg,
		db:       db,
		repo:     repo,
		notifier: DesktopNotifier{},
		logger:   logger,
		out:      os.Stdout,
	}
	if path, err := pidPath(); err == nil {
		s.pidPath = path
	}
	return s
}

// WithNotifier replaces the desktop notifier.
func (s *Scheduler) WithNotifier(n Notifier) *Scheduler {
	s.notifier = n
	return s
}

func (s *Scheduler) Run(ctx context.Context) error {
	if s.pidPath != "" {
		if err := acquirePID(s.pidPath); err != nil {
			return err
		}
		defer os.Remove(s.pidPath)
	}

	if last, err := s.db.GetState(lastCheckKey); err == nil && last != "" {
		s.logger.Debug("previous check", "at", last)
	}

	interval := time.Duration(s.cfg.Schedule.CheckMinutes) * time.Minute

	fmt.Fprintf(s.out, "Watching (every %s, hours: %s-%s)\n",
		interval, s.cfg.Schedule.WorkStart, s.cfg.Schedule.WorkEnd)

	for {
		nextTick := nextAlignedTick(s.repo.Clock().Now(), interval)
		s.logger.Debug("next check", "at", nextTick.Format("15:04"))

		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nWatcher stopped.")
			return nil
		case <-time.After(time.Until(nextTick)):
		}

		if err := s.Check(ctx); err != nil {
			s.logger.Error("check failed", "error", err)
		}
	}
}

// Check loads the current documents and delivers any due reminders.
func (s *Scheduler) Check(ctx context.Context) error {
	now := s.repo.Clock().Now()

	items, err := s.db.LoadItems(ctx, s.repo)
	if err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	card, err := s.db.LoadTimecard(ctx)
	if err != nil {
		return fmt.Errorf("loading timecard: %w", err)
	}

	reminders := Evaluate(s.cfg.Schedule, now, items, card)
	for _, r := range reminders {
		s.logger.Info("reminder", "title", r.Title, "message", r.Message)
		if !s.cfg.Notifications.Enabled {
			continue
		}
		if err := s.notifier.Notify(r.Title, r.Message); err != nil {
			s.logger.Warn("notification failed", "error", err)
		}
	}

	return s.db.SetState(lastCheckKey, timefmt.ToCanonical(now))
}

func nextAlignedTick(now time.Time, interval time.Duration) time.Time {
	mins := int(interval.Minutes())
	if mins <= 0 {
		mins = 60
	}

	currentMinute := now.Minute()
	nextMinute := ((currentMinute / mins) + 1) * mins

	next := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
	return next.Add(time.Duration(nextMinute) * time.Minute)
}
