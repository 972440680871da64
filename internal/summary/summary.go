// Package summary builds the dashboard figures shown on the home screen.
package summary

import (
	"fmt"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/activity"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/garden"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/journal"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/steps"
)

// Stats are the dashboard figures for today.
type Stats struct {
	HabitsCompleted int
	TotalHabits     int
	JournalEntries  int
	Steps           int
	Simulated       bool
	ActivityMinutes int
}

// HabitProgress is the completed share of habits, 0 when there are none.
func (s Stats) HabitProgress() float64 {
	if s.TotalHabits == 0 {
		return 0
	}
	return float64(s.HabitsCompleted) / float64(s.TotalHabits)
}

type (
	HabitLister   interface{ Habits() ([]garden.Habit, error) }
	EntryLister   interface{ Entries() ([]journal.Entry, error) }
	DayReader     interface{ Today() (steps.DayRecord, error) }
	SessionLister interface{ Sessions() ([]activity.Session, error) }
)

// Sources are the collaborators Collect reads from.
type Sources struct {
	Habits   HabitLister
	Journal  EntryLister
	Steps    DayReader
	Activity SessionLister
}

// Collect reads every source and fills in Stats.
func (src Sources) Collect() (Stats, error) {
	var st Stats

	habits, err := src.Habits.Habits()
	if err != nil {
		return st, fmt.Errorf("collect habits: %w", err)
	}
	st.TotalHabits = len(habits)
	for _, h := range habits {
		if h.CompletedToday {
			st.HabitsCompleted++
		}
	}

	entries, err := src.Journal.Entries()
	if err != nil {
		return st, fmt.Errorf("collect journal: %w", err)
	}
	st.JournalEntries = len(entries)

	rec, err := src.Steps.Today()
	if err != nil {
		return st, fmt.Errorf("collect steps: %w", err)
	}
	st.Steps = rec.StepData.Steps
	st.Simulated = rec.Simulated

	sessions, err := src.Activity.Sessions()
	if err != nil {
		return st, fmt.Errorf("collect activity: %w", err)
	}
	st.ActivityMinutes = activity.TotalMinutes(sessions)

	return st, nil
}

var quotes = []string{
	"Consistency is the path to excellence.",
	"Care for your body to nourish your mind.",
	"Every small habit brings you closer to who you want to be.",
	"Creativity is born of daily practice.",
	"Celebrate each small step along the way.",
}

// Quote returns the quote of the day. It is stable for a calendar day.
func Quote(day time.Time) string {
	return quotes[day.YearDay()%len(quotes)]
}
