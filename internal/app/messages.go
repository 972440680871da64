package app

import (
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/garden"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/steps"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/summary"
)

// DataLoadedMsg carries a fresh read of everything the panels show.
type DataLoadedMsg struct {
	Habits      []garden.Habit
	Day         steps.DayRecord
	Stats       *summary.Stats
	Butterflies int
	Mode        steps.Mode
	Background  steps.State
	Err         error
}

// TickMsg drives the periodic refresh and rollover check.
type TickMsg time.Time

// RolloverMsg reports a day rollover check.
type RolloverMsg struct {
	Result garden.RolloverResult
	Err    error
}

// HabitAddedMsg reports the result of planting a habit.
type HabitAddedMsg struct {
	Habit garden.Habit
	Err   error
}

// HabitCompletedMsg reports the result of completing a habit.
type HabitCompletedMsg struct {
	Name       string
	Completion garden.Completion
	Err        error
}

// HabitDeletedMsg reports the result of deleting a habit.
type HabitDeletedMsg struct {
	ID  string
	Err error
}

// ReminderSetMsg reports the result of toggling a habit reminder.
type ReminderSetMsg struct {
	Habit garden.Habit
	Err   error
}

// BackgroundToggledMsg reports the result of toggling background tracking.
type BackgroundToggledMsg struct {
	State steps.State
	Err   error
}

// ClearTransientErrorMsg clears a transient error after a timeout.
type ClearTransientErrorMsg struct{}
