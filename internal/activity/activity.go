// Package activity times workouts and keeps the session log.
package activity

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GoalDuration is the length at which the timer's progress reads 100%.
const GoalDuration = 30 * time.Minute

var ErrInvalidKind = errors.New("activity type must be walk, run or other")

// Kind is the type of activity.
type Kind string

const (
	Walk  Kind = "walk"
	Run   Kind = "run"
	Other Kind = "other"
)

// ParseKind accepts walk, run or other.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Walk, Run, Other:
		return k, nil
	case "":
		return Walk, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Session is one logged activity. Duration is stored in whole seconds.
type Session struct {
	ID       string    `json:"id"`
	Date     time.Time `json:"date"`
	Duration int       `json:"duration"`
	Type     Kind      `json:"type"`
}

// Minutes rounds the session to whole minutes.
func (s Session) Minutes() int {
	return int(math.Round(float64(s.Duration) / 60))
}

// TotalMinutes sums the rounded minutes of each session.
func TotalMinutes(sessions []Session) int {
	total := 0
	for _, s := range sessions {
		total += s.Minutes()
	}
	return total
}

// Store persists JSON documents by key.
type Store interface {
	LoadJSON(key string, v any) (bool, error)
	SaveJSON(key string, v any) error
}

// Log is the persisted session log, newest first.
type Log struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

func NewLog(store Store, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{store: store, logger: logger, now: time.Now}
}

// Sessions returns logged sessions, newest first.
func (l *Log) Sessions() ([]Session, error) {
	var sessions []Session
	if _, err := l.store.LoadJSON(db.KeyActivitySessions, &sessions); err != nil {
		return nil, fmt.Errorf("load activity sessions: %w", err)
	}
	return sessions, nil
}

// Record logs a session. Sessions shorter than a second are ignored and
// reported as not recorded.
func (l *Log) Record(d time.Duration, kind Kind) (Session, bool, error) {
	secs := int(d / time.Second)
	if secs <= 0 {
		return Session{}, false, nil
	}

	sessions, err := l.Sessions()
	if err != nil {
		return Session{}, false, err
	}

	s := Session{ID: uuid.NewString(), Date: l.now(), Duration: secs, Type: kind}
	sessions = append([]Session{s}, sessions...)
	if err := l.store.SaveJSON(db.KeyActivitySessions, sessions); err != nil {
		return Session{}, false, fmt.Errorf("save activity sessions: %w", err)
	}

	l.logger.Info("Activity recorded", zap.String("type", string(kind)), zap.Int("seconds", secs))
	return s, true, nil
}

// Timer is a pausable stopwatch.
type Timer struct {
	now func() time.Time

	mu      sync.Mutex
	running bool
	started time.Time
	elapsed time.Duration
}

func NewTimer() *Timer {
	return &Timer{now: time.Now}
}

// Start resumes the stopwatch. Starting a running timer does nothing.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		t.running = true
		t.started = t.now()
	}
}

// Stop pauses the stopwatch and returns the elapsed time.
func (t *Timer) Stop() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		t.elapsed += t.now().Sub(t.started)
		t.running = false
	}
	return t.elapsed
}

// Reset stops the stopwatch and clears it.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.elapsed = 0
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Elapsed is the total time the stopwatch has run.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return t.elapsed + t.now().Sub(t.started)
	}
	return t.elapsed
}

// Progress is Elapsed as a fraction of GoalDuration, capped at 1.
func (t *Timer) Progress() float64 {
	return min(1, float64(t.Elapsed())/float64(GoalDuration))
}

// FormatClock renders d as HH:MM:SS.
func FormatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs%3600/60, secs%60)
}
