package mastery

import "time"

// Level is the coarse mastery label exposed to remediation UI.
type Level string

const (
	LevelBeginner Level = "beginner"
	LevelLearning Level = "learning"
	LevelMastered Level = "mastered"
)

const (
	// InitialProbability seeds the estimate on the first attempt for a skill.
	InitialProbability = 0.5

	// MasteryThreshold is the probability at which a skill counts as mastered.
	MasteryThreshold = 0.9

	// learningLevelThreshold separates beginner from learning.
	learningLevelThreshold = 0.6
)

// Attempt is one recorded answer for a (user, skill) pair.
type Attempt struct {
	SkillID     string
	UserID      string
	Correct     bool
	TimeSpentMs int64
	Timestamp   time.Time
}

// State holds the mastery estimate for a single (user, skill) pair.
type State struct {
	SkillID         string     `db:"skill_id" json:"skill_id"`
	UserID          string     `db:"user_id" json:"user_id"`
	Probability     float64    `db:"probability" json:"probability"`
	Attempts        int        `db:"attempts" json:"attempts"`
	CorrectAttempts int        `db:"correct_attempts" json:"correct_attempts"`
	LastAttempt     time.Time  `db:"last_attempt" json:"last_attempt"`
	LastUpdate      time.Time  `db:"last_update" json:"last_update"`
	Mastered        bool       `db:"mastered" json:"mastered"`
	MasteredAt      *time.Time `db:"mastered_at" json:"mastered_at,omitempty"`
}

// Key returns the composite identity key for the state.
func (s *State) Key() string {
	return s.UserID + "-" + s.SkillID
}

// Accuracy returns the lifetime accuracy ratio.
func (s *State) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0.0
	}
	return float64(s.CorrectAttempts) / float64(s.Attempts)
}

// Level maps the probability onto the three ordinal labels.
func (s *State) Level() Level {
	switch {
	case s.Probability >= MasteryThreshold:
		return LevelMastered
	case s.Probability >= learningLevelThreshold:
		return LevelLearning
	default:
		return LevelBeginner
	}
}

// clone returns a detached copy so callers cannot mutate engine-internal state.
func (s *State) clone() State {
	out := *s
	if s.MasteredAt != nil {
		t := *s.MasteredAt
		out.MasteredAt = &t
	}
	return out
}
