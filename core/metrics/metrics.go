package metrics

import "time"

// AgentResultEvent is a per-agent optimisation outcome to be recorded.
type AgentResultEvent struct {
	RunID          string
	AgentID        string
	Days           int
	EnRouteEvents  int
	ActivityEvents int
	TotalKWh       float64
	LeakKWs        float64
	Ineligible     bool
	Infeasible     bool
	Time           time.Time
}

// RunSummaryEvent captures the totals of one simulation run.
type RunSummaryEvent struct {
	RunID      string
	Scenario   string
	Agents     int
	Ineligible int
	Infeasible int
	TotalKWh   float64
	LeakKWs    float64
	Duration   time.Duration
	Time       time.Time
}

// MetricsSink records simulation results for observability purposes.
type MetricsSink interface {
	RecordAgentResult(ev AgentResultEvent) error
	RecordRunSummary(ev RunSummaryEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordAgentResult(AgentResultEvent) error { return nil }
func (NopSink) RecordRunSummary(RunSummaryEvent) error   { return nil }

// MultiSink fans events out to several sinks, returning the first error.
type MultiSink struct {
	sinks []MetricsSink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordAgentResult(ev AgentResultEvent) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordAgentResult(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) RecordRunSummary(ev RunSummaryEvent) error {
	var first error
	for _, s := range m.sinks {
		if err := s.RecordRunSummary(ev); err != nil && first == nil {
			first = err
		}
	}
	return first
}
