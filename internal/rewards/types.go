package rewards

import "time"

// BadgeType identifies the category of achievement.
type BadgeType string

const (
	BadgeMastery   BadgeType = "mastery"
	BadgeStreak    BadgeType = "streak"
	BadgeRetention BadgeType = "retention"
)

// DisplayName returns a human-readable label for the badge type.
func (t BadgeType) DisplayName() string {
	switch t {
	case BadgeMastery:
		return "Mastery"
	case BadgeStreak:
		return "Streak"
	case BadgeRetention:
		return "Retention"
	default:
		return string(t)
	}
}

// XP returns the experience points a badge of this type is worth.
func (t BadgeType) XP() int {
	switch t {
	case BadgeMastery:
		return 100
	case BadgeStreak:
		return 25
	case BadgeRetention:
		return 50
	default:
		return 10
	}
}

// Award is one badge granted to a user.
type Award struct {
	ID        string    `json:"id"`
	Type      BadgeType `json:"type"`
	UserID    string    `json:"user_id"`
	SkillID   string    `json:"skill_id,omitempty"`
	Reason    string    `json:"reason"`
	XP        int       `json:"xp"`
	AwardedAt time.Time `json:"awarded_at"`
}
