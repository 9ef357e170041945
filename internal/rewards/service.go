// Package rewards grants XP badges for learning milestones: newly mastered
// skills, answer streaks and retained reviews. It observes the estimator
// rather than being called by it, so reward bugs can never fail an attempt.
package rewards

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service tracks per-user awards and answer streaks in memory for the
// current session.
type Service struct {
	log *zap.SugaredLogger

	mu      sync.Mutex
	awards  map[string][]Award
	streaks map[string]int
}

// NewService creates a reward service. log may be nil.
func NewService(log *zap.SugaredLogger) *Service {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Service{
		log:     log,
		awards:  make(map[string][]Award),
		streaks: make(map[string]int),
	}
}

// MasteryAchieved grants a mastery badge. Implements the estimator's
// observer port.
func (s *Service) MasteryAchieved(_ context.Context, userID, skillID string) {
	s.grant(Award{
		Type:    BadgeMastery,
		UserID:  userID,
		SkillID: skillID,
		Reason:  fmt.Sprintf("Mastered %s", skillID),
	})
}

// RecordAnswer advances the user's answer streak and grants a streak badge
// at each milestone. An incorrect answer resets the streak.
func (s *Service) RecordAnswer(_ context.Context, userID string, correct bool) {
	s.mu.Lock()
	if !correct {
		s.streaks[userID] = 0
		s.mu.Unlock()
		return
	}
	s.streaks[userID]++
	length := s.streaks[userID]
	s.mu.Unlock()

	if isStreakMilestone(length) {
		s.grant(Award{
			Type:   BadgeStreak,
			UserID: userID,
			Reason: fmt.Sprintf("%d correct answers in a row", length),
		})
	}
}

// ReviewRetained grants a retention badge for a correct answer on a due
// review item.
func (s *Service) ReviewRetained(_ context.Context, userID, skillID string) {
	s.grant(Award{
		Type:    BadgeRetention,
		UserID:  userID,
		SkillID: skillID,
		Reason:  fmt.Sprintf("Remembered %s at review time", skillID),
	})
}

func (s *Service) grant(a Award) {
	a.ID = uuid.NewString()
	a.XP = a.Type.XP()
	a.AwardedAt = time.Now()

	s.mu.Lock()
	s.awards[a.UserID] = append(s.awards[a.UserID], a)
	s.mu.Unlock()

	s.log.Infow("badge awarded",
		"user", a.UserID, "type", a.Type, "skill", a.SkillID, "xp", a.XP)
}

// Awards returns the user's awards in grant order.
func (s *Service) Awards(userID string) []Award {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Award, len(s.awards[userID]))
	copy(out, s.awards[userID])
	return out
}

// TotalXP returns the user's accumulated experience points.
func (s *Service) TotalXP(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, a := range s.awards[userID] {
		total += a.XP
	}
	return total
}

// Streak returns the user's current answer streak length.
func (s *Service) Streak(userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.streaks[userID]
}
