package plan

import "time"

// Category represents the reason a skill was included in the queue.
type Category string

const (
	// CategoryReview is a due spaced-repetition item.
	CategoryReview Category = "review"

	// CategoryRemediation is a weak skill picked for extra practice.
	CategoryRemediation Category = "remediation"
)

// Slot is a single entry in the practice queue.
type Slot struct {
	SkillID     string
	Category    Category
	Probability float64
}

// Queue is the ordered practice queue for one user.
type Queue struct {
	UserID  string
	BuiltAt time.Time
	Slots   []Slot
}

// DefaultTotalSlots is the default queue length.
const DefaultTotalSlots = 5

// reviewShare caps how much of the queue due reviews may take when weak
// skills also compete for slots.
const reviewShare = 0.6
