package scenario

import (
	"strings"

	"github.com/arup-group/batsim/core/model"
)

// Capabilities is the result of resolving the scenario groups against one
// agent's attributes. A nil Battery, Trigger or EnRoute makes the agent
// ineligible for simulation.
type Capabilities struct {
	AgentID    string
	Battery    *BatterySpec
	Trigger    *TriggerSpec
	EnRoute    *EnRouteSpec
	Activities []*ActivitySpec
}

// Resolve evaluates every group for the agent. Battery, trigger and en-route
// use last-match-wins; activity specs accumulate in group order. A matching
// spec is one whose filters all pass and whose Bernoulli draw succeeds.
func Resolve(s *Scenario, sampler Sampler, agentID string, attrs model.Attributes) *Capabilities {
	caps := &Capabilities{AgentID: agentID}
	for i := range s.BatteryGroup {
		spec := &s.BatteryGroup[i]
		if spec.Filters.Match(attrs) && sampler.Draw(agentID, "battery", i, spec.P) {
			caps.Battery = spec
		}
	}
	for i := range s.TriggerGroup {
		spec := &s.TriggerGroup[i]
		if spec.Filters.Match(attrs) && sampler.Draw(agentID, "trigger", i, spec.P) {
			caps.Trigger = spec
		}
	}
	for i := range s.EnRouteGroup {
		spec := &s.EnRouteGroup[i]
		if spec.Filters.Match(attrs) && sampler.Draw(agentID, "enroute", i, spec.P) {
			caps.EnRoute = spec
		}
	}
	for i := range s.ActivityGroup {
		spec := &s.ActivityGroup[i]
		if spec.Filters.Match(attrs) && sampler.Draw(agentID, "activity", i, spec.P) {
			caps.Activities = append(caps.Activities, spec)
		}
	}
	return caps
}

// IneligibleReason returns a diagnostic reason if the agent cannot be
// simulated, or "" when all required groups resolved.
func (c *Capabilities) IneligibleReason() string {
	switch {
	case c.Battery == nil:
		return "no battery"
	case c.Trigger == nil:
		return "no trigger"
	case c.EnRoute == nil:
		return "no en-route charger"
	}
	return ""
}

// ChargerTypes returns the set of activity types the agent can charge at.
func (c *Capabilities) ChargerTypes() map[string]bool {
	types := make(map[string]bool)
	for _, spec := range c.Activities {
		for _, act := range spec.Activities {
			types[act] = true
		}
	}
	return types
}

// ActivityCharger returns the charger spec for the activity type, or nil.
// When several accumulated specs cover the type the later one wins.
func (c *Capabilities) ActivityCharger(act string) *ActivitySpec {
	for i := len(c.Activities) - 1; i >= 0; i-- {
		if c.Activities[i].Covers(act) {
			return c.Activities[i]
		}
	}
	return nil
}

// Record is one row of the dry-run CSV: the name of the specification
// assigned to the agent in each group.
type Record struct {
	AgentID    string
	Battery    string
	Trigger    string
	EnRoute    string
	Activities string
}

// ToRecord summarises the resolution for the dry-run artifact.
func (c *Capabilities) ToRecord() Record {
	name := func(n string) string {
		if n == "" {
			return "None"
		}
		return n
	}
	rec := Record{
		AgentID: c.AgentID,
		Battery: "None", Trigger: "None", EnRoute: "None",
	}
	if c.Battery != nil {
		rec.Battery = name(c.Battery.Name)
	}
	if c.Trigger != nil {
		rec.Trigger = name(c.Trigger.Name)
	}
	if c.EnRoute != nil {
		rec.EnRoute = name(c.EnRoute.Name)
	}
	var acts []string
	for _, spec := range c.Activities {
		if spec.Name != "" {
			acts = append(acts, spec.Name)
		}
	}
	rec.Activities = strings.Join(acts, "+")
	return rec
}
