package steps

import (
	"fmt"
	"sync"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/metrics"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// Store persists JSON documents by key.
type Store interface {
	LoadJSON(key string, v any) (bool, error)
	SaveJSON(key string, v any) error
}

// Tracker owns today's accumulator. A record dated another day reads as a
// fresh zero record; the previous day is not kept.
type Tracker struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	body Body
}

// NewTracker returns a tracker using DefaultBody until SetBody is called.
func NewTracker(store Store, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		store:  store,
		logger: logger,
		now:    time.Now,
		body:   DefaultBody,
	}
}

// SetBody changes the stride and weight used for new totals.
func (t *Tracker) SetBody(b Body) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.body = b
}

// Today returns today's record without modifying it.
func (t *Tracker) Today() (DayRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load()
}

// AddSteps adds n steps from src to today's total and persists the result.
func (t *Tracker) AddSteps(n int, src Source) (DayRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.load()
	if err != nil || n <= 0 {
		return rec, err
	}

	rec.StepData = Totals(rec.StepData.Steps+n, t.body)
	if src == SourceSimulated {
		rec.Simulated = true
	}
	if err := t.save(rec); err != nil {
		return rec, err
	}

	metrics.AddSteps(string(src), n)
	t.logger.Debug("Steps added",
		zap.Int("added", n),
		zap.Int("total", rec.StepData.Steps),
		zap.String("source", string(src)),
	)
	return rec, nil
}

// Seed raises today's total to at least floor and marks the day simulated.
// A total already above floor is kept so the count never goes backwards.
func (t *Tracker) Seed(floor int) (DayRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.load()
	if err != nil {
		return rec, err
	}

	steps := max(rec.StepData.Steps, floor)
	rec.StepData = Totals(steps, t.body)
	rec.Simulated = true
	if err := t.save(rec); err != nil {
		return rec, err
	}

	t.logger.Info("Simulated step count seeded", zap.Int("total", steps))
	return rec, nil
}

func (t *Tracker) load() (DayRecord, error) {
	today := t.now().Format(dateLayout)

	var rec DayRecord
	found, err := t.store.LoadJSON(db.KeyTodaySteps, &rec)
	if err != nil {
		return DayRecord{Date: today}, fmt.Errorf("load today's steps: %w", err)
	}
	if !found || rec.Date != today {
		return DayRecord{Date: today}, nil
	}
	return rec, nil
}

func (t *Tracker) save(rec DayRecord) error {
	if err := t.store.SaveJSON(db.KeyTodaySteps, rec); err != nil {
		return fmt.Errorf("save today's steps: %w", err)
	}
	return nil
}
