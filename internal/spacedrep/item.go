package spacedrep

import "time"

const (
	// InitialEaseFactor seeds new review items.
	InitialEaseFactor = 2.5

	// MinEaseFactor and MaxEaseFactor bound interval growth speed.
	MinEaseFactor = 1.3
	MaxEaseFactor = 3.0

	// MinIntervalHours is the floor no interval may shrink below.
	MinIntervalHours = 8

	// DueSoonWindow bounds the "due soon" queue.
	DueSoonWindow = 24 * time.Hour
)

// Item holds the spaced-repetition state for a single (user, skill) pair.
type Item struct {
	ID            string     `db:"id" json:"id"`
	SkillID       string     `db:"skill_id" json:"skill_id"`
	UserID        string     `db:"user_id" json:"user_id"`
	IntervalHours int        `db:"interval_hours" json:"interval_hours"`
	Repetitions   int        `db:"repetitions" json:"repetitions"`
	EaseFactor    float64    `db:"ease_factor" json:"ease_factor"`
	NextReview    time.Time  `db:"next_review" json:"next_review"`
	LastReview    time.Time  `db:"last_review" json:"last_review"`
	LastDecay     *time.Time `db:"last_decay" json:"last_decay,omitempty"`
}

// ItemID builds the composite id for a (user, skill) pair.
func ItemID(userID, skillID string) string {
	return userID + "-" + skillID
}

// IsDue reports whether the review date has passed.
func (it *Item) IsDue(now time.Time) bool {
	return !it.NextReview.After(now)
}

// IsDueSoon reports whether the item comes due within the next 24 hours.
// Disjoint from IsDue: the boundary belongs to "due now".
func (it *Item) IsDueSoon(now time.Time) bool {
	return it.NextReview.After(now) && !it.NextReview.After(now.Add(DueSoonWindow))
}

// OverdueDays returns how many days past due the item is, or 0 if not due.
func (it *Item) OverdueDays(now time.Time) float64 {
	if it.NextReview.After(now) {
		return 0
	}
	return now.Sub(it.NextReview).Hours() / 24.0
}

// clone returns a detached copy so callers cannot mutate engine-internal state.
func (it *Item) clone() Item {
	out := *it
	if it.LastDecay != nil {
		t := *it.LastDecay
		out.LastDecay = &t
	}
	return out
}
