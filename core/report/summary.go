package report

import (
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/arup-group/batsim/core/optimise"
	"github.com/arup-group/batsim/core/sim"
)

// Summary aggregates optimisation results across the population. Event
// charges arrive already normalised to per-day rates and scaled, so the
// summary divides counts by each agent's loop length and applies the scale
// factor to them at finalisation. The leak is accumulated raw.
type Summary struct {
	RunID string
	Name  string

	scale float64

	agents     int
	ineligible int
	infeasible int

	enRouteCharge  float64
	enRouteEvents  float64
	activityCharge map[string]float64
	activityEvents map[string]float64
	leak           float64

	// per-agent daily delivered energy in kWh, for distribution stats
	dailyKWh []float64

	finalised bool
}

// NewSummary returns an empty summary for the given scale factor.
func NewSummary(name string, scale float64) *Summary {
	return &Summary{
		Name:           name,
		scale:          scale,
		activityCharge: make(map[string]float64),
		activityEvents: make(map[string]float64),
	}
}

// Add folds one agent's result into the aggregate. Results must be added in
// sorted agent id order for bit-reproducible totals.
func (s *Summary) Add(res *optimise.Result) {
	s.agents++
	switch {
	case res.Ineligible:
		s.ineligible++
		return
	case res.Infeasible:
		s.infeasible++
		return
	}
	days := float64(res.Record.Days())
	for _, ev := range res.Record.Events() {
		switch ev.Kind {
		case sim.KindEnRoute:
			s.enRouteCharge += ev.Charge
			s.enRouteEvents += 1 / days
		case sim.KindActivity:
			s.activityCharge[ev.Activity] += ev.Charge
			s.activityEvents[ev.Activity] += 1 / days
		}
	}
	s.leak += res.Record.Leak()
	s.dailyKWh = append(s.dailyKWh, res.Record.TotalCharge()/3600)
}

// Finalise applies the scale factor to event counts. Charges were scaled per
// event; the leak is deliberately left raw.
func (s *Summary) Finalise() {
	if s.finalised {
		return
	}
	s.finalised = true
	s.enRouteEvents *= s.scale
	for k := range s.activityEvents {
		s.activityEvents[k] *= s.scale
	}
}

// TotalCharge returns the aggregate delivered energy per day in kWs.
func (s *Summary) TotalCharge() float64 {
	total := s.enRouteCharge
	for _, v := range s.activityCharge {
		total += v
	}
	return total
}

// TotalEvents returns the aggregate daily event count.
func (s *Summary) TotalEvents() float64 {
	total := s.enRouteEvents
	for _, v := range s.activityEvents {
		total += v
	}
	return total
}

// Leak returns the aggregate loop leak in kWs.
func (s *Summary) Leak() float64 { return s.leak }

// EnRouteCharge returns the daily en-route energy in kWs.
func (s *Summary) EnRouteCharge() float64 { return s.enRouteCharge }

// ActivityCharge returns the daily activity energy in kWs.
func (s *Summary) ActivityCharge() float64 {
	var total float64
	for _, v := range s.activityCharge {
		total += v
	}
	return total
}

// Agents returns (total, ineligible, infeasible) agent counts.
func (s *Summary) Agents() (int, int, int) { return s.agents, s.ineligible, s.infeasible }

// ActivityBreakdown returns the per-activity-type (energy kWs, events) rows
// sorted by activity type.
func (s *Summary) ActivityBreakdown() []ActivityRow {
	types := make([]string, 0, len(s.activityCharge))
	for k := range s.activityCharge {
		types = append(types, k)
	}
	sort.Strings(types)
	rows := make([]ActivityRow, 0, len(types))
	for _, t := range types {
		rows = append(rows, ActivityRow{
			Activity: t,
			Charge:   s.activityCharge[t],
			Events:   s.activityEvents[t],
		})
	}
	return rows
}

// ActivityRow is one line of the per-activity breakdown.
type ActivityRow struct {
	Activity string
	Charge   float64
	Events   float64
}

// DailyEnergyStats returns mean, median and 95th percentile of per-agent
// daily delivered energy in kWh.
func (s *Summary) DailyEnergyStats() (mean, median, p95 float64) {
	if len(s.dailyKWh) == 0 {
		return 0, 0, 0
	}
	sorted := make([]float64, len(s.dailyKWh))
	copy(sorted, s.dailyKWh)
	sort.Float64s(sorted)
	mean = stat.Mean(sorted, nil)
	median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p95 = stat.Quantile(0.95, stat.Empirical, sorted, nil)
	return mean, median, p95
}

// String renders the run summary for the terminal.
func (s *Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nTotal Charge: %s", HumanEnergy(s.TotalCharge()))
	fmt.Fprintf(&b, "\nTotal Events: %.0f", s.TotalEvents())
	fmt.Fprintf(&b, "\nTotal Energy Leak: %s", HumanEnergy(s.leak))
	fmt.Fprintf(&b, "\nAgents: %d (%d ineligible, %d infeasible)", s.agents, s.ineligible, s.infeasible)
	mean, median, p95 := s.DailyEnergyStats()
	fmt.Fprintf(&b, "\nDaily energy per agent: mean %.2f kWh, median %.2f kWh, p95 %.2f kWh", mean, median, p95)
	fmt.Fprintf(&b, "\n\n[En Route Charging]")
	fmt.Fprintf(&b, "\nTotal En-route Charge: %s", HumanEnergy(s.enRouteCharge))
	fmt.Fprintf(&b, "\nTotal En-route Charge Events: %.0f", s.enRouteEvents)
	fmt.Fprintf(&b, "\n\n[Activity Charging]")
	fmt.Fprintf(&b, "\nTotal Activity Charge: %s", HumanEnergy(s.ActivityCharge()))
	fmt.Fprintf(&b, "\nTotal Activity Charge Events: %.0f", s.TotalEvents()-s.enRouteEvents)
	fmt.Fprintf(&b, "\n\n[Charging by activity]")
	for _, row := range s.ActivityBreakdown() {
		fmt.Fprintf(&b, "\n%s: %s from %.0f charge events", row.Activity, HumanEnergy(row.Charge), row.Events)
	}
	return b.String()
}
