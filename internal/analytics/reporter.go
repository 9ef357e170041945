// Package analytics defines the fire-and-forget reporting contract the
// engine produces events to. Implementations must never propagate failures
// back into the learning loop.
package analytics

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Reporter receives engine side effects. All methods are fire-and-forget.
type Reporter interface {
	// SkillMastered fires on the false->true mastery transition.
	SkillMastered(ctx context.Context, userID, skillID string, probability float64)

	// ReviewScheduled fires after every scheduling decision.
	ReviewScheduled(ctx context.Context, userID, skillID, itemID string, nextReview time.Time)

	// ReviewDue fires when a maintenance sweep finds an item past its
	// review date.
	ReviewDue(ctx context.Context, userID, skillID, itemID string)
}

// Nop discards all events.
type Nop struct{}

func (Nop) SkillMastered(context.Context, string, string, float64) {}

func (Nop) ReviewScheduled(context.Context, string, string, string, time.Time) {}

func (Nop) ReviewDue(context.Context, string, string, string) {}

// Log writes events to a structured logger, stamping each with an event id.
// It stands in for the remote analytics collector during local runs.
type Log struct {
	log *zap.SugaredLogger
}

// NewLog creates a logging reporter.
func NewLog(log *zap.SugaredLogger) *Log {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Log{log: log}
}

func (l *Log) SkillMastered(_ context.Context, userID, skillID string, probability float64) {
	l.log.Infow("skill mastered",
		"event_id", uuid.NewString(),
		"user", userID,
		"skill", skillID,
		"probability", probability,
	)
}

func (l *Log) ReviewScheduled(_ context.Context, userID, skillID, itemID string, nextReview time.Time) {
	l.log.Infow("review scheduled",
		"event_id", uuid.NewString(),
		"user", userID,
		"skill", skillID,
		"item", itemID,
		"next_review", nextReview,
	)
}

func (l *Log) ReviewDue(_ context.Context, userID, skillID, itemID string) {
	l.log.Infow("review due",
		"event_id", uuid.NewString(),
		"user", userID,
		"skill", skillID,
		"item", itemID,
	)
}
