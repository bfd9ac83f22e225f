package optimise

import (
	"github.com/arup-group/batsim/core/model"
	"github.com/arup-group/batsim/core/scenario"
	"github.com/arup-group/batsim/core/sim"
)

// Result is one agent's optimisation outcome. At most one of the diagnostic
// flags is set, and a flagged result carries an empty record. A feasible
// result may also carry no events when its loop needed no charging.
type Result struct {
	AgentID string
	Caps    *scenario.Capabilities
	Record  *sim.Record
	Plan    []int
	Score   sim.Score

	Ineligible       bool
	IneligibleReason string
	Infeasible       bool
}

// OptimiseAgent searches the agent's charging plans for the loop with the
// lexicographically best score. Candidates are tried in size-ascending order;
// once a plan with zero en-route events wins, larger plans cannot improve it
// and enumeration stops at the size-class boundary.
func OptimiseAgent(sc *scenario.Scenario, caps *scenario.Capabilities, person *model.Person) *Result {
	res := &Result{AgentID: caps.AgentID, Caps: caps}

	if reason := caps.IneligibleReason(); reason != "" {
		res.Ineligible = true
		res.IneligibleReason = reason
		res.Record = sim.EmptyRecord(caps.AgentID)
		return res
	}

	enum := NewEnumerator(caps, person)
	best := sim.WorstScore()
	var bestRecord *sim.Record
	var bestPlan []int

	for k := 0; k <= enum.SlotCount(); k++ {
		for _, plan := range enum.PlansOfSize(k) {
			record := sim.Simulate(caps, &person.Trace, plan, sc.Precision, sc.Patience)
			if record.Infeasible {
				continue
			}
			score := sim.ScoreRecord(record)
			if score.Less(best) {
				best = score
				bestRecord = record
				bestPlan = plan
			}
		}
		if best.EnRouteEvents == 0 {
			break
		}
	}

	if bestRecord == nil {
		res.Infeasible = true
		res.Record = sim.EmptyRecord(caps.AgentID)
		return res
	}
	bestRecord.Finalise(sc.Scale)
	res.Record = bestRecord
	res.Plan = bestPlan
	res.Score = best
	return res
}
