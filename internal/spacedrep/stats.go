package spacedrep

import (
	"context"
	"fmt"
	"time"
)

// Stats aggregates a user's review queue for display.
type Stats struct {
	TotalItems     int
	DueItems       int
	DueSoonItems   int
	MeanInterval   float64
	MeanEaseFactor float64

	// ByBucket counts items by bucket label, matched by nearest base
	// interval within one hour. Items matching no bucket are omitted from
	// the histogram but still counted in TotalItems.
	ByBucket map[string]int
}

// Stats aggregates the user's review items at the given time.
func (s *Scheduler) Stats(ctx context.Context, userID string, now time.Time) (Stats, error) {
	items, err := s.store.UserItems(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("list repetition items: %w", err)
	}

	st := Stats{ByBucket: make(map[string]int)}
	var intervalSum, easeSum float64

	for i := range items {
		it := &items[i]
		st.TotalItems++
		intervalSum += float64(it.IntervalHours)
		easeSum += it.EaseFactor

		if it.IsDue(now) {
			st.DueItems++
		} else if it.IsDueSoon(now) {
			st.DueSoonItems++
		}

		if b := bucketForInterval(it.IntervalHours); b != nil {
			st.ByBucket[b.Label]++
		}
	}

	if st.TotalItems > 0 {
		st.MeanInterval = intervalSum / float64(st.TotalItems)
		st.MeanEaseFactor = easeSum / float64(st.TotalItems)
	}
	return st, nil
}
