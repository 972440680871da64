// Package metrics exposes bloom's prometheus counters.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// StepsCounted counts steps added to the day's total, by source
	// (sensor, simulated).
	StepsCounted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloom_steps_counted_total",
			Help: "Steps added to the daily total",
		},
		[]string{"source"},
	)

	HabitCompletions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloom_habit_completions_total",
			Help: "Habit completions recorded",
		},
	)

	HabitsMatured = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloom_habits_matured_total",
			Help: "Habits that reached the mature stage",
		},
	)

	// CollaboratorFailures counts failed calls to the shell bridge, by
	// operation (notify.schedule, background.start, ...).
	CollaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bloom_collaborator_failures_total",
			Help: "Failed calls to the mobile shell bridge",
		},
		[]string{"operation"},
	)

	Rollovers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bloom_day_rollovers_total",
			Help: "Day rollovers applied to the garden",
		},
	)
)

// AddSteps records n steps from source.
func AddSteps(source string, n int) {
	if n > 0 {
		StepsCounted.WithLabelValues(source).Add(float64(n))
	}
}

// CollaboratorFailed records a failed bridge call.
func CollaboratorFailed(operation string) {
	CollaboratorFailures.WithLabelValues(operation).Inc()
}

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Serving metrics", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}
