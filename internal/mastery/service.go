package mastery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/svanteberg/plugga/internal/analytics"
)

// Store is the persistence port the estimator writes mastery state through.
// Implementations must treat a missing state as (nil, nil), not an error.
type Store interface {
	GetState(ctx context.Context, skillID, userID string) (*State, error)
	PutState(ctx context.Context, state State) error
	UserStates(ctx context.Context, userID string) ([]State, error)
}

// Observer is notified when a skill transitions into mastery. The XP/badge
// layer implements this; the estimator treats it as a pure observer and
// never lets it fail an attempt.
type Observer interface {
	MasteryAchieved(ctx context.Context, userID, skillID string)
}

// Estimator maintains per-(user, skill) mastery probabilities using the
// p-model update rule.
type Estimator struct {
	store    Store
	reporter analytics.Reporter
	observer Observer
	log      *zap.SugaredLogger
}

// NewEstimator creates an estimator. reporter, observer and log may be nil.
func NewEstimator(store Store, reporter analytics.Reporter, observer Observer, log *zap.SugaredLogger) *Estimator {
	if reporter == nil {
		reporter = analytics.Nop{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Estimator{
		store:    store,
		reporter: reporter,
		observer: observer,
		log:      log,
	}
}

// ProcessAttempt updates the mastery estimate for the attempt's (user, skill)
// pair and returns the new state by value.
//
// A missing prior state is treated as a first occurrence and initialized at
// probability 0.5. Non-positive time spent is normalized to a neutral default
// rather than rejected: the learning loop must never hard-fail on a malformed
// attempt. A failed durable write is logged and the computed state is still
// returned, since durability is a best-effort side channel.
func (e *Estimator) ProcessAttempt(ctx context.Context, a Attempt) (State, error) {
	if a.SkillID == "" || a.UserID == "" {
		return State{}, fmt.Errorf("process attempt: skill and user ids are required")
	}

	now := a.Timestamp
	if now.IsZero() {
		now = time.Now()
	}
	timeSpent := a.TimeSpentMs
	if timeSpent <= 0 {
		timeSpent = NeutralTimeMs
	}

	st, err := e.store.GetState(ctx, a.SkillID, a.UserID)
	if err != nil {
		return State{}, fmt.Errorf("get mastery state: %w", err)
	}
	if st == nil {
		st = &State{
			SkillID:     a.SkillID,
			UserID:      a.UserID,
			Probability: InitialProbability,
		}
	}

	st.Probability = UpdateProbability(st.Probability, a.Correct, timeSpent)
	st.Attempts++
	if a.Correct {
		st.CorrectAttempts++
	}
	st.LastAttempt = now
	st.LastUpdate = now

	// Mastered is recomputed on every attempt: dropping back below the
	// threshold clears it again.
	wasMastered := st.Mastered
	st.Mastered = st.Probability >= MasteryThreshold
	if st.Mastered && !wasMastered {
		if st.MasteredAt == nil {
			t := now
			st.MasteredAt = &t
		}
		e.reporter.SkillMastered(ctx, a.UserID, a.SkillID, st.Probability)
		if e.observer != nil {
			e.observer.MasteryAchieved(ctx, a.UserID, a.SkillID)
		}
	}

	if err := e.store.PutState(ctx, *st); err != nil {
		e.log.Warnw("mastery state write failed, returning computed state",
			"user", a.UserID, "skill", a.SkillID, "error", err)
	}

	return st.clone(), nil
}

// GetState returns the stored state for a (user, skill) pair, or nil if the
// skill has never been attempted.
func (e *Estimator) GetState(ctx context.Context, skillID, userID string) (*State, error) {
	st, err := e.store.GetState(ctx, skillID, userID)
	if err != nil {
		return nil, fmt.Errorf("get mastery state: %w", err)
	}
	if st == nil {
		return nil, nil
	}
	c := st.clone()
	return &c, nil
}

// MasteryLevel returns the ordinal label for a (user, skill) pair.
// Unknown skills are beginners.
func (e *Estimator) MasteryLevel(ctx context.Context, skillID, userID string) (Level, error) {
	st, err := e.store.GetState(ctx, skillID, userID)
	if err != nil {
		return "", fmt.Errorf("get mastery state: %w", err)
	}
	if st == nil {
		return LevelBeginner, nil
	}
	return st.Level(), nil
}

// WeakSkill pairs a skill with its weakness score for remediation ranking.
type WeakSkill struct {
	SkillID     string
	Probability float64
	Score       float64
}

// WeakSkills ranks the user's non-mastered skills by weakness, strongest
// candidates for remediation first. The score rewards both low probability
// and staleness; mastered skills are excluded regardless of recency. Ties
// keep insertion order.
func (e *Estimator) WeakSkills(ctx context.Context, userID string, limit int, now time.Time) ([]WeakSkill, error) {
	states, err := e.store.UserStates(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list mastery states: %w", err)
	}

	weak := make([]WeakSkill, 0, len(states))
	for _, st := range states {
		if st.Mastered {
			continue
		}
		weak = append(weak, WeakSkill{
			SkillID:     st.SkillID,
			Probability: st.Probability,
			Score:       weaknessScore(&st, now),
		})
	}

	sort.SliceStable(weak, func(i, j int) bool {
		return weak[i].Score > weak[j].Score
	})

	if limit > 0 && len(weak) > limit {
		weak = weak[:limit]
	}
	return weak, nil
}

// weaknessScore combines the mastery gap with a staleness term that grows
// by 1/30 per day since the last attempt.
func weaknessScore(st *State, now time.Time) float64 {
	days := now.Sub(st.LastAttempt).Hours() / 24.0
	if days < 0 {
		days = 0
	}
	return (1 - st.Probability) + days/30.0
}
