package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddStepsIgnoresNonPositive(t *testing.T) {
	before := testutil.ToFloat64(StepsCounted.WithLabelValues("sensor"))

	AddSteps("sensor", 0)
	AddSteps("sensor", -3)
	AddSteps("sensor", 2)

	after := testutil.ToFloat64(StepsCounted.WithLabelValues("sensor"))
	assert.Equal(t, 2.0, after-before)
}

func TestCollaboratorFailed(t *testing.T) {
	before := testutil.ToFloat64(CollaboratorFailures.WithLabelValues("notify.cancel"))
	CollaboratorFailed("notify.cancel")
	after := testutil.ToFloat64(CollaboratorFailures.WithLabelValues("notify.cancel"))
	assert.Equal(t, 1.0, after-before)
}

func TestServeStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, "127.0.0.1:0", zap.NewNop()) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}
