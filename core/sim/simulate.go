package sim

import (
	"github.com/arup-group/batsim/core/model"
	"github.com/arup-group/batsim/core/scenario"
)

// Simulate replays the wrapped trace under one candidate charging plan,
// producing the candidate's realised loop. The plan lists the trace indices
// of the activities the agent intends to charge at.
//
// Each pass walks the plan's segments in order. Activities in the plan charge
// for as much of their window as the battery accepts. Each link traversal
// drains the battery by distance x consumption; when the state reaches the
// trigger level an en-route event fires, pinned to the link's entry time. The
// delivered energy covers the distance to the next plan activity (wrapping at
// most one full cycle) or tops up to capacity when the plan has no slots.
//
// The run ends as soon as a pass-start SoC recurs within precision, or after
// patience passes, in which case the minimal-leak pass range is selected. A
// state below zero marks the candidate infeasible.
func Simulate(caps *scenario.Capabilities, trace *model.Trace, plan []int, precision float64, patience int) *Record {
	battery := NewBattery(caps.Battery, caps.Trigger)
	record := NewRecord(caps.AgentID, precision)

	planSet := make(map[int]bool, len(plan))
	for _, i := range plan {
		planSet[i] = true
	}

	for day := 0; day < patience; day++ {
		record.NewPass(battery.State)
		for i, seg := range trace.Plan {
			switch {
			case seg.Activity != nil && planSet[i]:
				act := seg.Activity
				charger := caps.ActivityCharger(act.Type)
				if charger == nil {
					// plan slot without a charger: enumerator bug or corrupt
					// input, skip rather than crash
					continue
				}
				charge, duration := battery.ChargeForDuration(act.Duration(), charger.ChargeRate)
				if charge > 0 {
					record.AddEvent(ActivityEvent(
						caps.AgentID, charger.Name, charge, day+1,
						act.StartTime, act.StartTime+duration, act.Type, act.X, act.Y,
					))
				}
			case seg.Link != nil:
				link := seg.Link
				battery.ApplyDistance(link.Distance)
				if battery.MustCharge() {
					var charge float64
					var duration int
					if len(plan) == 0 {
						// no activities available for charging, top up in full
						charge, duration = battery.ChargeToFull(caps.EnRoute.ChargeRate)
					} else {
						desired := planAhead(trace, planSet, i, battery.ConsumptionRate)
						charge, duration = battery.ChargeToDesired(desired, caps.EnRoute.ChargeRate)
					}
					record.AddEvent(EnRouteEvent(
						caps.AgentID, caps.EnRoute.Name, charge, day+1,
						link.StartTime, link.StartTime+duration, link.ID, link.X, link.Y,
					))
				}
				if battery.State < 0 {
					record.Infeasible = true
					return record
				}
			}
		}
		if record.TryClose(battery.State) {
			return record
		}
	}
	record.NewPass(battery.State)
	record.ForceClose()
	return record
}

// planAhead sums the energy needed to reach the next plan activity, walking
// the cyclic trace from the current link (inclusive) for at most one full
// cycle. With no plan activity in reach the full cycle's consumption is
// returned.
func planAhead(trace *model.Trace, planSet map[int]bool, start int, consumptionRate float64) float64 {
	var required float64
	n := len(trace.Plan)
	for k := 0; k < n; k++ {
		i := (start + k) % n
		seg := trace.Plan[i]
		if seg.Activity != nil && planSet[i] {
			return required
		}
		if seg.Link != nil {
			required += seg.Link.Distance * consumptionRate
		}
	}
	return required
}
