package steps

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// GeneratorConfig bounds the simulated step stream.
type GeneratorConfig struct {
	SeedMin      int
	SeedMax      int
	MinInterval  time.Duration
	MaxInterval  time.Duration
	MaxIncrement int
}

// DefaultGeneratorConfig seeds 2,000-6,000 steps and adds 1-5 every 5-7s.
var DefaultGeneratorConfig = GeneratorConfig{
	SeedMin:      2000,
	SeedMax:      6000,
	MinInterval:  5 * time.Second,
	MaxInterval:  7 * time.Second,
	MaxIncrement: 5,
}

// Counter receives simulated steps.
type Counter interface {
	Seed(floor int) (DayRecord, error)
	AddSteps(n int, src Source) (DayRecord, error)
}

// Generator produces placeholder steps when no sensor is available. At most
// one loop runs per generator.
type Generator struct {
	counter Counter
	cfg     GeneratorConfig
	logger  *zap.Logger
	intn    func(n int) int

	lc     lifecycle
	cancel context.CancelFunc
	done   chan struct{}
}

// NewGenerator returns a stopped generator.
func NewGenerator(counter Counter, cfg GeneratorConfig, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{
		counter: counter,
		cfg:     cfg,
		logger:  logger,
		intn:    rand.IntN,
	}
}

// State reports the generator's lifecycle state.
func (g *Generator) State() State {
	return g.lc.current()
}

// Start seeds the day's count and begins adding steps until Stop is called
// or ctx is done.
func (g *Generator) Start(ctx context.Context) error {
	if err := g.lc.beginStart(); err != nil {
		return err
	}

	seed := g.cfg.SeedMin + g.intn(max(g.cfg.SeedMax-g.cfg.SeedMin+1, 1))
	if _, err := g.counter.Seed(seed); err != nil {
		g.lc.set(Stopped)
		return fmt.Errorf("seed simulated steps: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.done = make(chan struct{})
	go g.run(runCtx, g.done)

	g.lc.set(Active)
	g.logger.Info("Step simulator started", zap.Int("seed", seed))
	return nil
}

// Stop ends the loop and waits for it to exit.
func (g *Generator) Stop() error {
	if err := g.lc.beginStop(); err != nil {
		return err
	}
	g.cancel()
	<-g.done
	g.lc.set(Stopped)
	g.logger.Info("Step simulator stopped")
	return nil
}

func (g *Generator) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	for {
		timer := time.NewTimer(g.interval())
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		n := 1 + g.intn(max(g.cfg.MaxIncrement, 1))
		if _, err := g.counter.AddSteps(n, SourceSimulated); err != nil {
			g.logger.Warn("Failed to record simulated steps", zap.Error(err))
		}
	}
}

func (g *Generator) interval() time.Duration {
	spread := g.cfg.MaxInterval - g.cfg.MinInterval
	if spread <= 0 {
		return g.cfg.MinInterval
	}
	return g.cfg.MinInterval + time.Duration(g.intn(int(spread)+1))
}
