package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/app"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/metrics"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/steps"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	tea "github.com/charmbracelet/bubbletea"
)

// runTUI opens the garden and runs the pedometer (and the metrics
// endpoint, when configured) for as long as the TUI is up.
func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s, err := openServices()
	if err != nil {
		return err
	}
	defer s.Close()

	if active, err := s.background.Restore(ctx); err != nil {
		logger.Warn("Could not query background tracking",
			zap.Bool("remembered", active),
			zap.Error(err),
		)
	}

	name := "friend"
	if p, err := s.profiles.Load(); err == nil {
		name = p.Name
	}

	generator := steps.NewGenerator(s.tracker, cfg.Generator(), logger)
	classifier := steps.NewClassifier(cfg.Classifier.Threshold, cfg.Classifier.Debounce)
	pedometer := steps.NewPedometer(dialMotion, classifier, s.tracker, generator, logger)

	model := app.New(app.Deps{
		Garden:      s.garden,
		Steps:       s.tracker,
		Summary:     s.summarySources(),
		Butterflies: s.butterflies,
		Background:  s.background,
		Mode:        pedometer.Mode,
		Name:        name,
		StepGoal:    cfg.StepGoal,
		Logger:      logger,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pedometer.Run(gctx)
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return metrics.Serve(gctx, cfg.MetricsAddr, logger)
		})
	}
	g.Go(func() error {
		// Quitting the TUI ends the other goroutines.
		defer cancel()
		if _, err := program.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("run tui: %w", err)
		}
		return nil
	})

	return g.Wait()
}
