package steps

import (
	"math"
	"time"
)

const (
	DefaultThreshold = 10.0
	DefaultDebounce  = 300 * time.Millisecond
)

// Classifier decides whether an accelerometer sample is a step.
//
// A sample arriving within the debounce window of the last accepted step is
// dropped without being retained. Otherwise the delta against the previous
// retained sample is measured, the sample is retained, and a step is
// reported when the delta's magnitude is strictly above the threshold.
type Classifier struct {
	threshold float64
	debounce  time.Duration

	prev     Sample
	lastStep time.Time
}

// NewClassifier returns a classifier. Non-positive arguments select the
// defaults.
func NewClassifier(threshold float64, debounce time.Duration) *Classifier {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Classifier{threshold: threshold, debounce: debounce}
}

// Observe feeds one sample received at time at and reports whether it
// counts as a step.
func (c *Classifier) Observe(s Sample, at time.Time) bool {
	if !c.lastStep.IsZero() && at.Sub(c.lastStep) < c.debounce {
		return false
	}

	dx := math.Abs(s.X - c.prev.X)
	dy := math.Abs(s.Y - c.prev.Y)
	dz := math.Abs(s.Z - c.prev.Z)
	c.prev = s

	if math.Sqrt(dx*dx+dy*dy+dz*dz) > c.threshold {
		c.lastStep = at
		return true
	}
	return false
}

// Reset forgets the previous sample and the last step time.
func (c *Classifier) Reset() {
	c.prev = Sample{}
	c.lastStep = time.Time{}
}
