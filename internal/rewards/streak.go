package rewards

// BaseStreakMilestone is the first streak length that earns a badge.
const BaseStreakMilestone = 5

// NextStreakMilestone returns the next streak milestone above the current
// streak length. The early milestones are dense, then every five.
func NextStreakMilestone(current int) int {
	milestones := []int{5, 10, 15, 20}
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	return ((current / 5) + 1) * 5
}

// isStreakMilestone reports whether a streak length earns a badge.
func isStreakMilestone(length int) bool {
	if length < BaseStreakMilestone {
		return false
	}
	return length%5 == 0
}
