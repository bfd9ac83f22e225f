package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/arup-group/batsim/core/metrics"
)

// PromSink records simulation results in Prometheus metrics.
type PromSink struct {
	agents    *prometheus.CounterVec
	events    *prometheus.CounterVec
	energyKWh prometheus.Counter
	leakKWs   prometheus.Gauge
	passes    prometheus.Histogram
}

// NewPromSink registers metrics on the default Prometheus registerer. The
// Prometheus server should be started separately using cfg.PrometheusPort.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(_ coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	agents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batsim_agents_total",
		Help: "Number of optimised agents by outcome",
	}, []string{"outcome"})
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "batsim_charge_events_total",
		Help: "Number of charge events in realised loops",
	}, []string{"kind"})
	energy := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "batsim_delivered_energy_kwh_total",
		Help: "Delivered energy across realised loops in kWh per day",
	})
	leak := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "batsim_energy_leak_kws",
		Help: "Accumulated loop energy leak in kWs",
	})
	passes := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "batsim_loop_passes",
		Help:    "Realised loop length in trace passes",
		Buckets: prometheus.ExponentialBuckets(1, 2, 8),
	})

	sink := &PromSink{agents: agents, events: events, energyKWh: energy, leakKWs: leak, passes: passes}
	for _, c := range []prometheus.Collector{agents, events, energy, leak, passes} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return nil, err
			}
		}
	}
	return sink, nil
}

// RecordAgentResult updates the per-agent counters.
func (s *PromSink) RecordAgentResult(ev coremetrics.AgentResultEvent) error {
	outcome := "optimised"
	switch {
	case ev.Ineligible:
		outcome = "ineligible"
	case ev.Infeasible:
		outcome = "infeasible"
	}
	s.agents.WithLabelValues(outcome).Inc()
	if outcome != "optimised" {
		return nil
	}
	s.events.WithLabelValues("enroute").Add(float64(ev.EnRouteEvents))
	s.events.WithLabelValues("activity").Add(float64(ev.ActivityEvents))
	s.energyKWh.Add(ev.TotalKWh)
	s.leakKWs.Add(ev.LeakKWs)
	s.passes.Observe(float64(ev.Days))
	return nil
}

// RecordRunSummary is a no-op for Prometheus: totals are derivable from the
// per-agent counters.
func (s *PromSink) RecordRunSummary(coremetrics.RunSummaryEvent) error { return nil }
