package steps

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/metrics"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/shell"
	"go.uber.org/zap"
)

// BackgroundLabel names the step-tracking task on the background host.
const BackgroundLabel = "step_tracking"

// Host runs labelled tasks while the app is not in the foreground.
type Host interface {
	StartBackground(ctx context.Context, label, payload string) error
	StopBackground(ctx context.Context, label string) error
	BackgroundActive(ctx context.Context, label string) (bool, error)
}

// Background drives step tracking on the background host and remembers
// whether it was left on.
type Background struct {
	host    Host
	store   Store
	logger  *zap.Logger
	payload string

	lc lifecycle
}

type backgroundPayload struct {
	Threshold  float64 `json:"threshold"`
	DebounceMs int64   `json:"debounceMs"`
	Key        string  `json:"key"`
}

// NewBackground returns a stopped controller. The host receives the
// classifier parameters so the task counts steps the same way.
func NewBackground(host Host, store Store, threshold float64, debounce time.Duration, logger *zap.Logger) *Background {
	if logger == nil {
		logger = zap.NewNop()
	}
	payload, _ := json.Marshal(backgroundPayload{
		Threshold:  threshold,
		DebounceMs: debounce.Milliseconds(),
		Key:        db.KeyTodaySteps,
	})
	return &Background{
		host:    host,
		store:   store,
		logger:  logger,
		payload: string(payload),
	}
}

// State reports the controller's lifecycle state.
func (b *Background) State() State {
	return b.lc.current()
}

// Start asks the host to run the tracking task. On failure the controller
// stays stopped.
func (b *Background) Start(ctx context.Context) error {
	if err := b.lc.beginStart(); err != nil {
		return err
	}
	if err := b.host.StartBackground(ctx, BackgroundLabel, b.payload); err != nil {
		b.lc.set(Stopped)
		metrics.CollaboratorFailed(shell.CmdBackgroundStart)
		return fmt.Errorf("start background tracking: %w", err)
	}
	b.lc.set(Active)
	b.remember(true)
	b.logger.Info("Background step tracking started")
	return nil
}

// Stop asks the host to end the tracking task. On failure the controller
// stays active.
func (b *Background) Stop(ctx context.Context) error {
	if err := b.lc.beginStop(); err != nil {
		return err
	}
	if err := b.host.StopBackground(ctx, BackgroundLabel); err != nil {
		b.lc.set(Active)
		metrics.CollaboratorFailed(shell.CmdBackgroundStop)
		return fmt.Errorf("stop background tracking: %w", err)
	}
	b.lc.set(Stopped)
	b.remember(false)
	b.logger.Info("Background step tracking stopped")
	return nil
}

// Toggle starts a stopped controller and stops an active one.
func (b *Background) Toggle(ctx context.Context) error {
	if b.State() == Active {
		return b.Stop(ctx)
	}
	return b.Start(ctx)
}

// Restore syncs the controller with the host at startup. When the host
// cannot be asked, the remembered flag is returned and the controller
// stays stopped.
func (b *Background) Restore(ctx context.Context) (bool, error) {
	active, err := b.host.BackgroundActive(ctx, BackgroundLabel)
	if err != nil {
		metrics.CollaboratorFailed(shell.CmdBackgroundStatus)
		var remembered bool
		if _, loadErr := b.store.LoadJSON(db.KeyBackgroundTracking, &remembered); loadErr != nil {
			b.logger.Warn("Failed to read background tracking flag", zap.Error(loadErr))
		}
		return remembered, fmt.Errorf("query background tracking: %w", err)
	}
	if active {
		b.lc.set(Active)
	} else {
		b.lc.set(Stopped)
	}
	b.remember(active)
	return active, nil
}

func (b *Background) remember(active bool) {
	if err := b.store.SaveJSON(db.KeyBackgroundTracking, active); err != nil {
		b.logger.Warn("Failed to persist background tracking flag", zap.Error(err))
	}
}
