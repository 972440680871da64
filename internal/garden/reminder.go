package garden

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// ParseReminderTime parses a 24-hour "HH:MM" string.
func ParseReminderTime(s string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidReminderTime, s)
	}
	return t.Hour(), t.Minute(), nil
}

// NextReminder returns the next occurrence of hour:minute at or after now,
// in now's location. A time already past today moves to tomorrow.
func NextReminder(now time.Time, hour, minute int) time.Time {
	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if at.Before(now) {
		at = at.AddDate(0, 0, 1)
	}
	return at
}

// reminderID derives a stable notification id from the habit id.
func reminderID(habitID string) int {
	if u, err := uuid.Parse(habitID); err == nil {
		return int(u.ID() & 0x7fffffff)
	}
	return rand.IntN(1_000_000)
}
