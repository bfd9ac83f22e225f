package report

import (
	"github.com/arup-group/batsim/core/optimise"
	"github.com/arup-group/batsim/core/sim"
)

// AgentReport is the per-agent summary row. Energies are in kWh and already
// normalised to per-day rates and scaled; the leak stays raw (kWs over the
// whole loop, unscaled) so it is interpretable in simulation units.
type AgentReport struct {
	AgentID        string  `json:"agent_id"`
	Days           int     `json:"days"`
	EnRouteEvents  int     `json:"enroute_events"`
	ActivityEvents int     `json:"activity_events"`
	TotalEvents    int     `json:"total_events"`
	TotalKWh       float64 `json:"total_kwh"`
	EnRouteKWh     float64 `json:"enroute_kwh"`
	ActivityKWh    float64 `json:"activity_kwh"`
	LeakKWs        float64 `json:"leak_kws"`
	Ineligible     bool    `json:"ineligible"`
	Infeasible     bool    `json:"infeasible"`
}

// NewAgentReport summarises one optimisation result.
func NewAgentReport(res *optimise.Result) AgentReport {
	r := res.Record
	return AgentReport{
		AgentID:        res.AgentID,
		Days:           r.Days(),
		EnRouteEvents:  r.Count(sim.KindEnRoute),
		ActivityEvents: r.Count(sim.KindActivity),
		TotalEvents:    r.Count(""),
		TotalKWh:       r.TotalCharge() / 3600,
		EnRouteKWh:     r.TotalEnRoute() / 3600,
		ActivityKWh:    r.TotalActivity() / 3600,
		LeakKWs:        r.Leak(),
		Ineligible:     res.Ineligible,
		Infeasible:     res.Infeasible,
	}
}
