package steps

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/shell"
	"go.uber.org/zap"
)

// MotionStream is a connection that can deliver motion events.
type MotionStream interface {
	MotionPermission(ctx context.Context) (shell.MotionAccess, error)
	Subscribe(ctx context.Context) error
	ReadEvent() (shell.Event, error)
	Close() error
}

// Dialer opens a dedicated motion connection.
type Dialer func() (MotionStream, error)

// Mode is where the pedometer currently gets its steps from.
type Mode int

const (
	ModeIdle Mode = iota
	ModeSensor
	ModeSimulated
)

func (m Mode) String() string {
	switch m {
	case ModeSensor:
		return "sensor"
	case ModeSimulated:
		return "simulated"
	default:
		return "idle"
	}
}

// Pedometer counts steps from the motion sensor when permission is granted
// and falls back to the simulator otherwise.
type Pedometer struct {
	dial       Dialer
	classifier *Classifier
	tracker    *Tracker
	generator  *Generator
	logger     *zap.Logger
	now        func() time.Time

	mu   sync.Mutex
	mode Mode
}

// NewPedometer wires a pedometer. dial may be nil, which always selects the
// simulator.
func NewPedometer(dial Dialer, classifier *Classifier, tracker *Tracker, generator *Generator, logger *zap.Logger) *Pedometer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pedometer{
		dial:       dial,
		classifier: classifier,
		tracker:    tracker,
		generator:  generator,
		logger:     logger,
		now:        time.Now,
	}
}

// Mode reports the current step source.
func (p *Pedometer) Mode() Mode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

func (p *Pedometer) setMode(m Mode) {
	p.mu.Lock()
	p.mode = m
	p.mu.Unlock()
}

// Run counts steps until ctx is done. A sensor stream that fails midway
// hands over to the simulator for the rest of the run.
func (p *Pedometer) Run(ctx context.Context) error {
	defer p.setMode(ModeIdle)

	stream, ok := p.openSensor(ctx)
	if ok {
		err := p.readSensor(ctx, stream)
		stream.Close()
		if ctx.Err() != nil {
			return nil
		}
		p.logger.Warn("Motion stream ended, switching to simulator", zap.Error(err))
	}

	return p.simulate(ctx)
}

// openSensor returns a subscribed stream, or false when steps must be
// simulated.
func (p *Pedometer) openSensor(ctx context.Context) (MotionStream, bool) {
	if p.dial == nil {
		return nil, false
	}
	stream, err := p.dial()
	if err != nil {
		p.logger.Info("Motion bridge unavailable, simulating steps", zap.Error(err))
		return nil, false
	}

	access, err := stream.MotionPermission(ctx)
	if err != nil || access != shell.MotionGranted {
		stream.Close()
		p.logger.Info("Motion sensor not usable, simulating steps",
			zap.Stringer("access", access),
			zap.Error(err),
		)
		return nil, false
	}

	if err := stream.Subscribe(ctx); err != nil {
		stream.Close()
		p.logger.Warn("Failed to subscribe to motion events", zap.Error(err))
		return nil, false
	}
	return stream, true
}

func (p *Pedometer) readSensor(ctx context.Context, stream MotionStream) error {
	p.setMode(ModeSensor)
	p.logger.Info("Counting steps from motion sensor")

	// ReadEvent blocks; closing the stream unblocks it on cancel.
	stop := context.AfterFunc(ctx, func() { stream.Close() })
	defer stop()

	for {
		ev, err := stream.ReadEvent()
		if err != nil {
			return err
		}
		x, y, z, at, ok := ev.Acceleration()
		if !ok {
			continue
		}
		if ev.TS == 0 {
			at = p.now()
		}
		if !p.classifier.Observe(Sample{X: x, Y: y, Z: z}, at) {
			continue
		}
		if _, err := p.tracker.AddSteps(1, SourceSensor); err != nil {
			p.logger.Warn("Failed to record step", zap.Error(err))
		}
	}
}

func (p *Pedometer) simulate(ctx context.Context) error {
	if err := p.generator.Start(ctx); err != nil {
		return fmt.Errorf("start step simulator: %w", err)
	}
	p.setMode(ModeSimulated)

	<-ctx.Done()
	return p.generator.Stop()
}
