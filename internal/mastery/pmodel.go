package mastery

const (
	// baseLearningRate is the starting learning rate before adjustments.
	baseLearningRate = 0.25

	// minLearningRate guarantees every attempt moves the estimate.
	minLearningRate = 0.12

	// NeutralTimeMs substitutes for missing or non-positive response times.
	NeutralTimeMs = 10000

	// incorrectPenaltyWeight halves the downward step relative to the reward.
	incorrectPenaltyWeight = 0.5
)

// TimeFactor maps response latency onto a learning-rate multiplier.
// Fast answers amplify the update, slow ones dampen it.
func TimeFactor(timeSpentMs int64) float64 {
	if timeSpentMs <= 0 {
		timeSpentMs = NeutralTimeMs
	}
	return clamp(float64(NeutralTimeMs)/float64(timeSpentMs), 0.5, 2.0)
}

// learningRate computes the adaptive learning rate for one attempt.
// The difficulty factor (1 - p) shrinks updates near certainty; the
// floor keeps every attempt from vanishing.
func learningRate(probability float64, timeSpentMs int64) float64 {
	rate := baseLearningRate * TimeFactor(timeSpentMs) * (1 - probability)
	if rate < minLearningRate {
		rate = minLearningRate
	}
	return rate
}

// UpdateProbability applies the p-model update rule to a mastery estimate.
// Correct attempts approach 1 asymptotically; incorrect attempts approach 0
// with a half-weighted penalty. The result is clamped to [0, 1].
func UpdateProbability(probability float64, correct bool, timeSpentMs int64) float64 {
	rate := learningRate(probability, timeSpentMs)

	var next float64
	if correct {
		next = probability + rate*(1-probability)
	} else {
		next = probability - rate*probability*incorrectPenaltyWeight
	}
	return clamp(next, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
