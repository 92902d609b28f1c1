package telemetry

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/danielpatrickdp/uqrc-engine/internal/closure"
	"github.com/danielpatrickdp/uqrc-engine/internal/hooks"
	"github.com/danielpatrickdp/uqrc-engine/internal/logging"
	"github.com/danielpatrickdp/uqrc-engine/internal/loss"
	"github.com/danielpatrickdp/uqrc-engine/internal/memory"
	"github.com/danielpatrickdp/uqrc-engine/internal/orchestrator"
	"github.com/danielpatrickdp/uqrc-engine/internal/update"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTurn(t *testing.T) {
	c := New()
	c.ObserveTurn(orchestrator.TurnResult{
		Closure:           closure.Result{Status: closure.StatusAllow, Forced: true},
		Trigger:           logging.TriggerDecoded,
		Decision:          logging.DecisionRejected,
		HoldSteps:         2,
		Latency:           3 * time.Millisecond,
		AttractorDistance: 0.25,
		Diagnostics:       update.Diagnostics{EntropyGate: 0.5},
	})

	assert.Equal(t, 1.0, testutil.ToFloat64(c.Turns.WithLabelValues("allow", "true", "decoded")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CommitOutcomes.WithLabelValues("rejected")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.HoldRetries))
	assert.Equal(t, 0.25, testutil.ToFloat64(c.AttractorDist))
	assert.Equal(t, 0.5, testutil.ToFloat64(c.EntropyGate))
	assert.Equal(t, 1, testutil.CollectAndCount(c.TurnLatency))
}

func TestObserveTrain(t *testing.T) {
	c := New()
	c.ObserveTrain(orchestrator.TrainResult{Breakdown: loss.Breakdown{Total: 1.5}})
	c.ObserveTrain(orchestrator.TrainResult{Breakdown: loss.Breakdown{Total: 0.5}})
	assert.Equal(t, 2.0, testutil.ToFloat64(c.TrainingSteps))
	assert.Equal(t, 0.5, testutil.ToFloat64(c.TrainingLoss))
}

func TestCollectorsAsObserver(t *testing.T) {
	c := New()
	o := orchestrator.New(orchestrator.DefaultConfig(),
		orchestrator.WithMemory(memory.NewStore(nil)),
		orchestrator.WithHooks(hooks.NewStore([]hooks.Hook{{Message: "ping", Reply: "pong"}})),
		orchestrator.WithObserver(c),
	)
	st := o.Initialize()
	st = o.RunTurn("ping", st, nil).State
	o.RunTurn("ping", st, nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.Turns.WithLabelValues("allow", "false", "hook_exact")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CommitOutcomes.WithLabelValues("commit")))
}

func TestHandlerServesMetrics(t *testing.T) {
	c := New()
	c.TrainingSteps.Inc()

	srv := httptest.NewServer(c.NewServer(":0").Handler)
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	require.NoError(t, testutil.GatherAndCompare(c.Registry(), strings.NewReader(`
# HELP uqrc_training_steps_total Training steps applied
# TYPE uqrc_training_steps_total counter
uqrc_training_steps_total 1
`), "uqrc_training_steps_total"))
}
