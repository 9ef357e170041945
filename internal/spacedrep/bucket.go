package spacedrep

import "math"

// Bucket maps a mastery probability range onto a base review interval.
type Bucket struct {
	// Low is inclusive, High exclusive (the last bucket includes 1.0).
	Low, High float64

	// Hours is the base review interval for the range.
	Hours int

	// Label is the display name shown in review queues.
	Label string
}

// Buckets is the fixed probability-to-interval schedule, scanned in
// ascending order. Probabilities at or above 0.9 fall into the last bucket.
var Buckets = []Bucket{
	{Low: 0.5, High: 0.6, Hours: 8, Label: "8 timmar"},
	{Low: 0.6, High: 0.7, Hours: 24, Label: "1 dag"},
	{Low: 0.7, High: 0.8, Hours: 72, Label: "3 dagar"},
	{Low: 0.8, High: 0.9, Hours: 168, Label: "1 vecka"},
	{Low: 0.9, High: 1.0, Hours: 504, Label: "3 veckor"},
}

// bucketFor returns the bucket matching the probability: a linear scan over
// the ranges in ascending order, inclusive low and exclusive high. Anything
// unmatched, in particular probabilities at or above 0.9, falls back to the
// last bucket.
func bucketFor(probability float64) Bucket {
	for _, b := range Buckets {
		if probability >= b.Low && probability < b.High {
			return b
		}
	}
	return Buckets[len(Buckets)-1]
}

// bucketForInterval finds the bucket whose base interval is within one hour
// of the given interval. Returns nil when no bucket matches; such items are
// omitted from histograms but still counted in totals.
func bucketForInterval(hours int) *Bucket {
	for i := range Buckets {
		if math.Abs(float64(hours-Buckets[i].Hours)) <= 1 {
			return &Buckets[i]
		}
	}
	return nil
}
