// Package garden models habits as plants that grow with their streak.
package garden

import "time"

// Habit is one tracked habit.
//
// GrowthStage always equals StageFor(Streak) unless RegressionDisabled is
// set, in which case it is pinned at StageMature.
type Habit struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Icon               Icon       `json:"icon"`
	Streak             int        `json:"streak"`
	CompletedToday     bool       `json:"completedToday"`
	LastCompletedAt    *time.Time `json:"lastCompletedAt,omitempty"`
	GrowthStage        Stage      `json:"growthStage"`
	RegressionDisabled bool       `json:"regressionDisabled"`
	ReminderEnabled    bool       `json:"reminderEnabled"`
	ReminderTime       string     `json:"reminderTime,omitempty"`
	ReminderHandle     *int       `json:"reminderHandle,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// Completion describes the effect of marking a habit done.
type Completion struct {
	Applied bool // false when the habit was already completed today
	Matured bool // the habit reached StageMature with this completion
	Streak  int
	Stage   Stage
}

// NewHabit returns a seed-stage habit with no streak and no reminder.
func NewHabit(id, name string, icon Icon, now time.Time) Habit {
	return Habit{
		ID:          id,
		Name:        name,
		Icon:        icon,
		GrowthStage: StageSeed,
		CreatedAt:   now,
	}
}

// CompleteToday records today's completion. A second call on the same day
// is a no-op.
func (h *Habit) CompleteToday(now time.Time) Completion {
	if h.CompletedToday {
		return Completion{Streak: h.Streak, Stage: h.GrowthStage}
	}

	old := h.GrowthStage
	h.Streak++
	h.GrowthStage = StageFor(h.Streak)
	if h.RegressionDisabled {
		h.GrowthStage = StageMature
	}

	matured := h.GrowthStage == StageMature && old != StageMature
	if matured {
		h.RegressionDisabled = true
	}

	h.CompletedToday = true
	at := now
	h.LastCompletedAt = &at

	return Completion{
		Applied: true,
		Matured: matured,
		Streak:  h.Streak,
		Stage:   h.GrowthStage,
	}
}

// Rollover moves the habit into a new day. An incomplete day resets the
// streak unless the habit has matured. A completed day carries the streak
// forward unchanged; only CompleteToday increments it.
func (h *Habit) Rollover() {
	if !h.CompletedToday && !h.RegressionDisabled {
		h.Streak = 0
	}
	if h.RegressionDisabled {
		h.GrowthStage = StageMature
	} else {
		h.GrowthStage = StageFor(h.Streak)
	}
	h.CompletedToday = false
}
