// Package steps turns accelerometer samples into a daily step count and
// keeps the day's totals persisted. When no motion sensor is available a
// simulator stands in and the day is marked as simulated.
package steps

import (
	"errors"
	"math"
)

var (
	ErrAlreadyRunning = errors.New("step tracking already running")
	ErrNotRunning     = errors.New("step tracking not running")
	ErrTransitioning  = errors.New("step tracking is changing state")
)

// Source tags where the day's steps came from.
type Source string

const (
	SourceSensor    Source = "sensor"
	SourceSimulated Source = "simulated"
)

// Sample is one 3-axis accelerometer reading.
type Sample struct {
	X, Y, Z float64
}

// Accumulator holds a day's totals. Distance is in kilometres.
type Accumulator struct {
	Steps    int     `json:"steps"`
	Distance float64 `json:"distance"`
	Calories int     `json:"calories"`
}

// DayRecord is the persisted accumulator for one local calendar day.
type DayRecord struct {
	Date      string      `json:"date"`
	StepData  Accumulator `json:"stepData"`
	Simulated bool        `json:"simulated,omitempty"`
}

// Body carries the profile values the derived totals depend on.
type Body struct {
	StrideM  float64
	WeightKg float64
}

// DefaultBody matches the default profile.
var DefaultBody = Body{StrideM: 0.7, WeightKg: 60}

// secondsPerStep is the fixed cadence assumed for the calorie estimate.
const secondsPerStep = 0.5

// metValue is the walking MET used for the calorie estimate.
const metValue = 3.5

// Distance returns kilometres walked, rounded to two decimals.
func Distance(steps int, strideM float64) float64 {
	return math.Round(float64(steps)*strideM/1000*100) / 100
}

// Calories estimates energy burned: MET x weight x hours walking.
func Calories(steps int, weightKg float64) int {
	hours := float64(steps) * secondsPerStep / 3600
	return int(math.Round(metValue * weightKg * hours))
}

// Totals builds the accumulator for a step count.
func Totals(steps int, body Body) Accumulator {
	return Accumulator{
		Steps:    steps,
		Distance: Distance(steps, body.StrideM),
		Calories: Calories(steps, body.WeightKg),
	}
}
