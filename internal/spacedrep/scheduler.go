package spacedrep

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/svanteberg/plugga/internal/analytics"
)

const (
	// easeReward and easePenalty adjust the ease factor per answer.
	easeReward  = 0.1
	easePenalty = 0.2

	// decayRate is the compounding per-day ease decay for overdue items.
	decayRate = 0.02

	// decayIntervalShrink is the flat per-sweep interval shrink for overdue
	// items, independent of how many days overdue.
	decayIntervalShrink = 0.9
)

// Store is the persistence port for review items. Implementations must
// treat a missing item as (nil, nil), not an error.
type Store interface {
	GetItem(ctx context.Context, skillID, userID string) (*Item, error)
	PutItem(ctx context.Context, item Item) error
	UserItems(ctx context.Context, userID string) ([]Item, error)
	RemoveItem(ctx context.Context, skillID, userID string) (bool, error)
}

// Scheduler maintains bucketed spaced-repetition review items.
type Scheduler struct {
	store    Store
	reporter analytics.Reporter
	log      *zap.SugaredLogger
}

// NewScheduler creates a scheduler. reporter and log may be nil.
func NewScheduler(store Store, reporter analytics.Reporter, log *zap.SugaredLogger) *Scheduler {
	if reporter == nil {
		reporter = analytics.Nop{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Scheduler{store: store, reporter: reporter, log: log}
}

// Schedule records a review outcome and returns the updated item.
//
// A missing item is lazily created, seeded from the bucket matching the
// current probability, and returned without applying the answer: the first
// call establishes the schedule, later calls move it. On a correct answer
// the interval only grows once the streak passes its first repetition,
// which keeps a single lucky answer from extending the schedule. An
// incorrect answer resets the streak and halves the interval.
func (s *Scheduler) Schedule(ctx context.Context, skillID, userID string, probability float64, correct bool, now time.Time) (Item, error) {
	if skillID == "" || userID == "" {
		return Item{}, fmt.Errorf("schedule repetition: skill and user ids are required")
	}

	it, err := s.store.GetItem(ctx, skillID, userID)
	if err != nil {
		return Item{}, fmt.Errorf("get repetition item: %w", err)
	}

	bucket := bucketFor(probability)

	if it == nil {
		it = &Item{
			ID:            ItemID(userID, skillID),
			SkillID:       skillID,
			UserID:        userID,
			IntervalHours: bucket.Hours,
			Repetitions:   0,
			EaseFactor:    InitialEaseFactor,
		}
		return s.finalize(ctx, it, now)
	}

	if correct {
		it.Repetitions++
		it.EaseFactor = math.Min(MaxEaseFactor, it.EaseFactor+easeReward)
		if it.Repetitions > 1 {
			grown := int(math.Round(float64(it.IntervalHours) * it.EaseFactor))
			it.IntervalHours = maxInt(bucket.Hours, grown)
		} else {
			// First correct answer of a fresh or reset streak stays at
			// the bucket floor.
			it.IntervalHours = bucket.Hours
		}
	} else {
		it.Repetitions = 0
		it.EaseFactor = math.Max(MinEaseFactor, it.EaseFactor-easePenalty)
		it.IntervalHours = maxInt(MinIntervalHours, int(math.Round(float64(it.IntervalHours)/2)))
	}

	return s.finalize(ctx, it, now)
}

// finalize stamps the review dates, persists the item and emits the
// scheduling event. A failed write is logged and the computed item is
// still returned.
func (s *Scheduler) finalize(ctx context.Context, it *Item, now time.Time) (Item, error) {
	it.NextReview = now.Add(time.Duration(it.IntervalHours) * time.Hour)
	it.LastReview = now

	if err := s.store.PutItem(ctx, *it); err != nil {
		s.log.Warnw("repetition item write failed, returning computed item",
			"user", it.UserID, "skill", it.SkillID, "error", err)
	}
	s.reporter.ReviewScheduled(ctx, it.UserID, it.SkillID, it.ID, it.NextReview)

	return it.clone(), nil
}

// GetItem returns the stored item for a (user, skill) pair, or nil if the
// skill has never been scheduled.
func (s *Scheduler) GetItem(ctx context.Context, skillID, userID string) (*Item, error) {
	it, err := s.store.GetItem(ctx, skillID, userID)
	if err != nil {
		return nil, fmt.Errorf("get repetition item: %w", err)
	}
	if it == nil {
		return nil, nil
	}
	c := it.clone()
	return &c, nil
}

// DueItems returns the user's items whose review date has passed,
// earliest due first.
func (s *Scheduler) DueItems(ctx context.Context, userID string, now time.Time) ([]Item, error) {
	return s.filterSorted(ctx, userID, func(it *Item) bool { return it.IsDue(now) })
}

// DueSoonItems returns the user's items coming due within 24 hours,
// earliest first. Disjoint from DueItems by construction.
func (s *Scheduler) DueSoonItems(ctx context.Context, userID string, now time.Time) ([]Item, error) {
	return s.filterSorted(ctx, userID, func(it *Item) bool { return it.IsDueSoon(now) })
}

func (s *Scheduler) filterSorted(ctx context.Context, userID string, keep func(*Item) bool) ([]Item, error) {
	items, err := s.store.UserItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list repetition items: %w", err)
	}

	out := make([]Item, 0, len(items))
	for i := range items {
		if keep(&items[i]) {
			out = append(out, items[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextReview.Before(out[j].NextReview)
	})
	return out, nil
}

// ApplyDecay sweeps the user's overdue items, compounding a 2%/day ease
// penalty and shrinking the interval a flat 10% per sweep. Items not yet
// overdue are untouched. The sweep is anchored on the later of the review
// date and the previous decay, so repeated sweeps with no time elapsed
// change nothing. Returns the number of items decayed.
func (s *Scheduler) ApplyDecay(ctx context.Context, userID string, now time.Time) (int, error) {
	items, err := s.store.UserItems(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list repetition items: %w", err)
	}

	decayed := 0
	for i := range items {
		it := items[i]

		since := it.NextReview
		if it.LastDecay != nil && it.LastDecay.After(since) {
			since = *it.LastDecay
		}
		daysOverdue := now.Sub(since).Hours() / 24.0
		if daysOverdue <= 0 {
			continue
		}

		it.EaseFactor = math.Max(MinEaseFactor, it.EaseFactor*math.Pow(1-decayRate, daysOverdue))
		it.IntervalHours = maxInt(MinIntervalHours, int(math.Round(float64(it.IntervalHours)*decayIntervalShrink)))
		t := now
		it.LastDecay = &t

		if err := s.store.PutItem(ctx, it); err != nil {
			s.log.Warnw("decay write failed", "user", userID, "skill", it.SkillID, "error", err)
			continue
		}
		s.reporter.ReviewDue(ctx, it.UserID, it.SkillID, it.ID)
		decayed++
	}
	return decayed, nil
}

// Remove deletes the item for a (user, skill) pair. Removing a nonexistent
// item is a no-op returning false.
func (s *Scheduler) Remove(ctx context.Context, skillID, userID string) (bool, error) {
	removed, err := s.store.RemoveItem(ctx, skillID, userID)
	if err != nil {
		return false, fmt.Errorf("remove repetition item: %w", err)
	}
	return removed, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
