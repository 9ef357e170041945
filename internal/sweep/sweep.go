// Package sweep runs the periodic decay maintenance over overdue review
// items. The engine itself has no background thread; this runner is the
// on-demand caller the design expects.
package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/svanteberg/plugga/internal/spacedrep"
)

// UserLister enumerates users holding review items. storage.Tiered and
// storage.SQLite implement it.
type UserLister interface {
	UserIDs(ctx context.Context) ([]string, error)
}

// Sweeper applies decay for every user on a fixed interval.
type Sweeper struct {
	scheduler *spacedrep.Scheduler
	users     UserLister
	interval  time.Duration
	log       *zap.SugaredLogger
	cron      *gocron.Scheduler
}

// New creates a sweeper. log may be nil.
func New(scheduler *spacedrep.Scheduler, users UserLister, interval time.Duration, log *zap.SugaredLogger) *Sweeper {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Sweeper{
		scheduler: scheduler,
		users:     users,
		interval:  interval,
		log:       log,
		cron:      gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the sweep and begins running it asynchronously.
func (s *Sweeper) Start() error {
	if _, err := s.cron.Every(s.interval).Do(s.runScheduled); err != nil {
		return fmt.Errorf("schedule decay sweep: %w", err)
	}
	s.cron.StartAsync()
	return nil
}

// Stop terminates the scheduled sweep.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

func (s *Sweeper) runScheduled() {
	decayed, err := s.RunOnce(context.Background(), time.Now())
	if err != nil {
		s.log.Warnw("decay sweep failed", "error", err)
		return
	}
	s.log.Infow("decay sweep complete", "items_decayed", decayed)
}

// RunOnce applies decay for every known user and returns the number of
// items decayed.
func (s *Sweeper) RunOnce(ctx context.Context, now time.Time) (int, error) {
	users, err := s.users.UserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list users: %w", err)
	}

	total := 0
	for _, userID := range users {
		n, err := s.scheduler.ApplyDecay(ctx, userID, now)
		if err != nil {
			s.log.Warnw("decay failed for user", "user", userID, "error", err)
			continue
		}
		total += n
	}
	return total, nil
}
