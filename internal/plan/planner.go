// Package plan builds the practice queue for a session: due reviews first,
// then the weakest skills for remediation.
package plan

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/svanteberg/plugga/internal/mastery"
	"github.com/svanteberg/plugga/internal/spacedrep"
)

// Planner assembles practice queues from the estimator and the scheduler.
type Planner struct {
	estimator *mastery.Estimator
	scheduler *spacedrep.Scheduler
}

// NewPlanner creates a planner over the given services.
func NewPlanner(estimator *mastery.Estimator, scheduler *spacedrep.Scheduler) *Planner {
	return &Planner{estimator: estimator, scheduler: scheduler}
}

// BuildQueue assembles a practice queue of at most totalSlots entries.
//
// Due reviews claim up to 60% of the queue, earliest due first; the rest
// goes to weak-skill remediation. When one source runs short the other
// fills the remaining slots, so a queue is only shorter than totalSlots
// when the user genuinely has nothing left to practice. A skill never
// appears twice.
func (p *Planner) BuildQueue(ctx context.Context, userID string, totalSlots int, now time.Time) (*Queue, error) {
	if totalSlots <= 0 {
		totalSlots = DefaultTotalSlots
	}

	due, err := p.scheduler.DueItems(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("list due reviews: %w", err)
	}

	// Over-fetch weak skills so dedup against reviews cannot starve the
	// remediation slots.
	weak, err := p.estimator.WeakSkills(ctx, userID, totalSlots+len(due), now)
	if err != nil {
		return nil, fmt.Errorf("rank weak skills: %w", err)
	}

	reviewCap := int(math.Ceil(float64(totalSlots) * reviewShare))
	if len(weak) == 0 {
		reviewCap = totalSlots
	}

	q := &Queue{UserID: userID, BuiltAt: now}
	taken := make(map[string]bool)

	for _, it := range due {
		if len(q.Slots) >= reviewCap || taken[it.SkillID] {
			continue
		}
		taken[it.SkillID] = true
		q.Slots = append(q.Slots, Slot{SkillID: it.SkillID, Category: CategoryReview})
	}

	for _, w := range weak {
		if len(q.Slots) >= totalSlots {
			break
		}
		if taken[w.SkillID] {
			continue
		}
		taken[w.SkillID] = true
		q.Slots = append(q.Slots, Slot{
			SkillID:     w.SkillID,
			Category:    CategoryRemediation,
			Probability: w.Probability,
		})
	}

	// Leftover review slots when remediation ran short.
	if len(q.Slots) < totalSlots {
		for _, it := range due {
			if len(q.Slots) >= totalSlots {
				break
			}
			if taken[it.SkillID] {
				continue
			}
			taken[it.SkillID] = true
			q.Slots = append(q.Slots, Slot{SkillID: it.SkillID, Category: CategoryReview})
		}
	}

	return q, nil
}
