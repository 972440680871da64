package garden

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/metrics"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/shell"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DateLayout is the calendar-day key used for rollover detection.
const DateLayout = "2006-01-02"

const maxNameLen = 60

var (
	ErrNotFound            = errors.New("habit not found")
	ErrInvalidName         = errors.New("habit name must be 1-60 characters")
	ErrInvalidReminderTime = errors.New("reminder time must be HH:MM")
	ErrPermissionDenied    = errors.New("notifications not permitted")
)

// Store persists JSON documents by key.
type Store interface {
	LoadJSON(key string, v any) (bool, error)
	SaveJSON(key string, v any) error
	SaveJSONBatch(docs map[string]any) error
}

// Notifier schedules and cancels local notifications.
type Notifier interface {
	NotificationsPermitted(ctx context.Context) (bool, error)
	Schedule(ctx context.Context, n shell.Notification) error
	Cancel(ctx context.Context, id int) error
}

// Rewarder hands out reward butterflies.
type Rewarder interface {
	Reward(count int) error
}

// Service owns the habit collection and applies the growth rules to it.
type Service struct {
	store    Store
	notifier Notifier
	rewarder Rewarder
	logger   *zap.Logger

	now   func() time.Time
	newID func() string

	mu sync.Mutex
}

// NewService wires a garden to its store and collaborators. rewarder may be nil.
func NewService(store Store, notifier Notifier, rewarder Rewarder, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:    store,
		notifier: notifier,
		rewarder: rewarder,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Service) load() ([]Habit, error) {
	var habits []Habit
	if _, err := s.store.LoadJSON(db.KeyHabits, &habits); err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	return habits, nil
}

func (s *Service) save(habits []Habit) error {
	if habits == nil {
		habits = []Habit{}
	}
	if err := s.store.SaveJSON(db.KeyHabits, habits); err != nil {
		return fmt.Errorf("save habits: %w", err)
	}
	return nil
}

func indexOf(habits []Habit, id string) int {
	for i := range habits {
		if habits[i].ID == id {
			return i
		}
	}
	return -1
}

// Habits returns the garden in insertion order.
func (s *Service) Habits() ([]Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get returns a single habit.
func (s *Service) Get(id string) (Habit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return Habit{}, err
	}
	i := indexOf(habits, id)
	if i < 0 {
		return Habit{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return habits[i], nil
}

// Add plants a new habit at the seed stage.
func (s *Service) Add(name string, icon Icon) (Habit, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxNameLen {
		return Habit{}, ErrInvalidName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return Habit{}, err
	}

	h := NewHabit(s.newID(), name, icon, s.now())
	habits = append(habits, h)
	if err := s.save(habits); err != nil {
		return Habit{}, err
	}

	s.logger.Info("Habit planted", zap.String("habit_id", h.ID), zap.String("name", h.Name))
	return h, nil
}

// Complete marks the habit done for today. Completing twice in a day is a
// no-op and returns Completion.Applied == false.
func (s *Service) Complete(ctx context.Context, id string) (Completion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return Completion{}, err
	}
	i := indexOf(habits, id)
	if i < 0 {
		return Completion{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	c := habits[i].CompleteToday(s.now())
	if !c.Applied {
		return c, nil
	}
	if err := s.save(habits); err != nil {
		return Completion{}, err
	}

	metrics.HabitCompletions.Inc()
	s.logger.Info("Habit completed",
		zap.String("habit_id", id),
		zap.Int("streak", c.Streak),
		zap.Stringer("stage", c.Stage),
	)

	reward := 1
	if c.Matured {
		reward = 3
		metrics.HabitsMatured.Inc()
		s.announceMatured(ctx, habits[i])
	}
	if s.rewarder != nil {
		if err := s.rewarder.Reward(reward); err != nil {
			s.logger.Warn("Failed to reward butterflies", zap.Error(err))
		}
	}

	return c, nil
}

// announceMatured sends a best-effort notification for a matured habit.
func (s *Service) announceMatured(ctx context.Context, h Habit) {
	err := s.notifier.Schedule(ctx, shell.Notification{
		ID:    rand.IntN(1_000_000),
		Title: "🌳 Your habit has matured",
		Body:  fmt.Sprintf("%s is fully grown and will stay that way.", h.Name),
		At:    s.now().Add(time.Second),
	})
	if err != nil {
		metrics.CollaboratorFailed(shell.CmdNotifySchedule)
		s.logger.Warn("Failed to announce matured habit",
			zap.String("habit_id", h.ID),
			zap.Error(err),
		)
	}
}

// Delete removes a habit. An active reminder is cancelled first; a failed
// cancel is logged and does not block the delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return err
	}
	i := indexOf(habits, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if handle := habits[i].ReminderHandle; handle != nil {
		if err := s.notifier.Cancel(ctx, *handle); err != nil {
			metrics.CollaboratorFailed(shell.CmdNotifyCancel)
			s.logger.Warn("Failed to cancel reminder for deleted habit",
				zap.String("habit_id", id),
				zap.Int("handle", *handle),
				zap.Error(err),
			)
		}
	}

	habits = append(habits[:i], habits[i+1:]...)
	if err := s.save(habits); err != nil {
		return err
	}

	s.logger.Info("Habit deleted", zap.String("habit_id", id))
	return nil
}

// SetReminder enables a daily reminder at hhmm ("HH:MM") or disables the
// current one. A failed bridge call while enabling leaves the habit
// unchanged. Disabling needs no permission and cancels best-effort, as
// Delete does.
func (s *Service) SetReminder(ctx context.Context, id string, enabled bool, hhmm string) (Habit, error) {
	var hour, minute int
	if enabled {
		var err error
		if hour, minute, err = ParseReminderTime(hhmm); err != nil {
			return Habit{}, err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	habits, err := s.load()
	if err != nil {
		return Habit{}, err
	}
	i := indexOf(habits, id)
	if i < 0 {
		return Habit{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	h := &habits[i]

	if enabled {
		permitted, err := s.notifier.NotificationsPermitted(ctx)
		if err != nil {
			metrics.CollaboratorFailed(shell.CmdNotifyPermission)
			return Habit{}, fmt.Errorf("check notification permission: %w", err)
		}
		if !permitted {
			return Habit{}, ErrPermissionDenied
		}

		handle := reminderID(h.ID)
		err = s.notifier.Schedule(ctx, shell.Notification{
			ID:          handle,
			Title:       "💚 Habit reminder",
			Body:        "Don't forget: " + h.Name,
			At:          NextReminder(s.now(), hour, minute),
			RepeatDaily: true,
		})
		if err != nil {
			metrics.CollaboratorFailed(shell.CmdNotifySchedule)
			return Habit{}, fmt.Errorf("schedule reminder: %w", err)
		}
		h.ReminderEnabled = true
		h.ReminderTime = hhmm
		h.ReminderHandle = &handle
	} else {
		if handle := h.ReminderHandle; handle != nil {
			if err := s.notifier.Cancel(ctx, *handle); err != nil {
				metrics.CollaboratorFailed(shell.CmdNotifyCancel)
				s.logger.Warn("Failed to cancel reminder",
					zap.String("habit_id", id),
					zap.Int("handle", *handle),
					zap.Error(err),
				)
			}
		}
		h.ReminderEnabled = false
		h.ReminderHandle = nil
	}

	if err := s.save(habits); err != nil {
		return Habit{}, err
	}
	return *h, nil
}

// RolloverResult reports what RolloverIfNeeded did.
type RolloverResult struct {
	Ran     bool
	Days    int // calendar days since the previous rollover
	Reset   int // habits whose streak was reset
	Habits  []Habit
	Today   string
	Initial bool // no previous rollover date was recorded
}

// RolloverIfNeeded applies the day rollover when the local date differs
// from the last recorded rollover date. A gap of two or more days applies
// a second rollover: nothing can have been completed on the days between.
func (s *Service) RolloverIfNeeded(ctx context.Context) (RolloverResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := now.Format(DateLayout)
	res := RolloverResult{Today: today}

	var last string
	found, err := s.store.LoadJSON(db.KeyLastRolloverDate, &last)
	if err != nil {
		return res, fmt.Errorf("load rollover date: %w", err)
	}
	if !found {
		res.Initial = true
		if err := s.store.SaveJSON(db.KeyLastRolloverDate, today); err != nil {
			return res, fmt.Errorf("save rollover date: %w", err)
		}
		return res, nil
	}
	if last == today {
		return res, nil
	}

	habits, err := s.load()
	if err != nil {
		return res, err
	}

	res.Days = daysBetween(last, now)
	for i := range habits {
		before := habits[i].Streak
		habits[i].Rollover()
		// Unlike a single rollover per day transition, a gap of two or
		// more days also rolls over the skipped day as missed.
		if res.Days >= 2 {
			habits[i].Rollover()
		}
		if before > 0 && habits[i].Streak == 0 {
			res.Reset++
		}
	}

	if habits == nil {
		habits = []Habit{}
	}
	err = s.store.SaveJSONBatch(map[string]any{
		db.KeyHabits:           habits,
		db.KeyLastRolloverDate: today,
	})
	if err != nil {
		return res, fmt.Errorf("save rollover: %w", err)
	}

	metrics.Rollovers.Inc()
	s.logger.Info("Day rollover applied",
		zap.String("from", last),
		zap.String("to", today),
		zap.Int("days", res.Days),
		zap.Int("reset", res.Reset),
	)

	res.Ran = true
	res.Habits = habits
	return res, nil
}

// daysBetween counts calendar days from the date string last to now. An
// unreadable or future date counts as one day.
func daysBetween(last string, now time.Time) int {
	from, err := time.ParseInLocation(DateLayout, last, now.Location())
	if err != nil {
		return 1
	}
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	days := int(to.Sub(from).Hours()/24 + 0.5)
	if days < 1 {
		return 1
	}
	return days
}
