package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/arup-group/batsim/core/metrics"
)

func TestPromSinkRecordsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordAgentResult(coremetrics.AgentResultEvent{
		AgentID: "a", Days: 2, EnRouteEvents: 1, ActivityEvents: 2, TotalKWh: 20,
	}))
	require.NoError(t, sink.RecordAgentResult(coremetrics.AgentResultEvent{
		AgentID: "b", Ineligible: true,
	}))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["batsim_agents_total"])
	assert.True(t, names["batsim_charge_events_total"])

	ps := sink.(*PromSink)
	assert.InDelta(t, 1.0, testutil.ToFloat64(ps.agents.WithLabelValues("optimised")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(ps.agents.WithLabelValues("ineligible")), 1e-9)
	assert.InDelta(t, 1.0, testutil.ToFloat64(ps.events.WithLabelValues("enroute")), 1e-9)
	assert.InDelta(t, 2.0, testutil.ToFloat64(ps.events.WithLabelValues("activity")), 1e-9)
	assert.InDelta(t, 20.0, testutil.ToFloat64(ps.energyKWh), 1e-9)
}

func TestPromSinkRegisterTwice(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	assert.NoError(t, err)
}
