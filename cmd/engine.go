package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/svanteberg/plugga/internal/analytics"
	"github.com/svanteberg/plugga/internal/config"
	"github.com/svanteberg/plugga/internal/logger"
	"github.com/svanteberg/plugga/internal/mastery"
	"github.com/svanteberg/plugga/internal/rewards"
	"github.com/svanteberg/plugga/internal/spacedrep"
	"github.com/svanteberg/plugga/internal/storage"
	"github.com/svanteberg/plugga/internal/subjects"
)

// engine bundles the wired-up services the commands operate on.
type engine struct {
	cfg       *config.Config
	log       *zap.SugaredLogger
	db        *storage.SQLite
	store     *storage.Tiered
	estimator *mastery.Estimator
	scheduler *spacedrep.Scheduler
	rewards   *rewards.Service
	catalog   *subjects.Catalog
}

// buildCatalog applies the config's spaced-repetition override to the
// built-in subject catalog.
func buildCatalog(override []string) *subjects.Catalog {
	if len(override) == 0 {
		return subjects.NewDefaultCatalog()
	}
	eligible := make(map[string]bool, len(override))
	for _, id := range override {
		eligible[id] = true
	}
	subs := subjects.DefaultSubjects()
	for i := range subs {
		subs[i].SpacedRepetition = eligible[subs[i].ID]
	}
	return subjects.NewCatalog(subs)
}

// openEngine loads config, opens the store and builds the services.
// The memory tier is hydrated from the database before use.
func openEngine(cmd *cobra.Command) (*engine, error) {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	dbPath, err := resolveDBPath(cmd, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	store := storage.NewTiered(storage.NewMemory(), db, log)
	if err := store.Hydrate(cmd.Context()); err != nil {
		db.Close()
		return nil, fmt.Errorf("hydrate cache: %w", err)
	}

	reporter := analytics.NewLog(log)
	rewardSvc := rewards.NewService(log)
	return &engine{
		cfg:       cfg,
		log:       log,
		db:        db,
		store:     store,
		estimator: mastery.NewEstimator(store, reporter, rewardSvc, log),
		scheduler: spacedrep.NewScheduler(store, reporter, log),
		rewards:   rewardSvc,
		catalog:   buildCatalog(cfg.SpacedRepetitionSubjects),
	}, nil
}

func (e *engine) Close() {
	if err := e.db.Close(); err != nil {
		e.log.Warnw("close store", "error", err)
	}
	_ = e.log.Sync()
}

// withEngine wraps a command body with engine setup and teardown.
func withEngine(cmd *cobra.Command, fn func(ctx context.Context, e *engine) error) error {
	e, err := openEngine(cmd)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(cmd.Context(), e)
}
