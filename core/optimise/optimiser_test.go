package optimise

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arup-group/batsim/core/model"
	"github.com/arup-group/batsim/core/scenario"
	"github.com/arup-group/batsim/core/sim"
)

func fullCaps(battery *scenario.BatterySpec, trigger, enRouteRate float64, activities ...*scenario.ActivitySpec) *scenario.Capabilities {
	return &scenario.Capabilities{
		AgentID:    "A",
		Battery:    battery,
		Trigger:    &scenario.TriggerSpec{Name: "default", Trigger: trigger},
		EnRoute:    &scenario.EnRouteSpec{Name: "enroute", ChargeRate: enRouteRate},
		Activities: activities,
	}
}

func TestOptimisePrefersLastChargingActivity(t *testing.T) {
	// three home slots, of which only the last (overnight) one is long enough
	// to cover a pass's consumption on its own: the optimiser should settle
	// on it
	person := personWithTrace(
		model.LinkSegment(model.Link{ID: "a", StartTime: 1, EndTime: 2, Distance: 1}),
		model.ActivitySegment(model.Activity{Type: "home", StartTime: 2, EndTime: 4}),
		model.LinkSegment(model.Link{ID: "b", StartTime: 4, EndTime: 5, Distance: 1}),
		model.ActivitySegment(model.Activity{Type: "home", StartTime: 5, EndTime: 7}),
		model.LinkSegment(model.Link{ID: "c", StartTime: 7, EndTime: 8, Distance: 1}),
		model.ActivitySegment(model.Activity{Type: "home", StartTime: 8, EndTime: 12}),
	)
	home := &scenario.ActivitySpec{Name: "home", Activities: []string{"home"}, ChargeRate: 1000}
	battery := &scenario.BatterySpec{Capacity: 10, Initial: 10, ConsumptionRate: 1000.0 / 3.6}
	caps := fullCaps(battery, 0, 1000, home)
	sc := scenario.Default()

	res := OptimiseAgent(sc, caps, person)
	require.False(t, res.Ineligible)
	require.False(t, res.Infeasible)
	assert.Equal(t, []int{5}, res.Plan)
	events := res.Record.Events()
	require.Len(t, events, 1)
	assert.Equal(t, sim.KindActivity, events[0].Kind)
	assert.InDelta(t, 3000.0, events[0].Charge, 1e-3)
	assert.Equal(t, 8, events[0].StartTime)
	assert.Equal(t, 11, events[0].EndTime)
	assert.InDelta(t, 0.0, res.Record.Leak(), 1e-6)
}

func TestOptimiseRequiresEnRoute(t *testing.T) {
	// trips consume three kWs per pass but the two one-second home windows
	// return only one kWs each, so some en-route charging is unavoidable;
	// total charge must still balance
	person := personWithTrace(
		model.LinkSegment(model.Link{ID: "a", StartTime: 1, EndTime: 2, Distance: 1}),
		model.ActivitySegment(model.Activity{Type: "home", StartTime: 2, EndTime: 3}),
		model.LinkSegment(model.Link{ID: "b", StartTime: 3, EndTime: 4, Distance: 1}),
		model.ActivitySegment(model.Activity{Type: "home", StartTime: 4, EndTime: 5}),
		model.LinkSegment(model.Link{ID: "c", StartTime: 5, EndTime: 6, Distance: 1}),
	)
	home := &scenario.ActivitySpec{Activities: []string{"home"}, ChargeRate: 1}
	battery := &scenario.BatterySpec{Capacity: 3.0 / 3600, Initial: 3.0 / 3600, ConsumptionRate: 1.0 / 3.6}
	caps := fullCaps(battery, 0, 1, home)
	sc := scenario.Default()

	res := OptimiseAgent(sc, caps, person)
	require.False(t, res.Infeasible)
	assert.InDelta(t, 3.0, res.Record.TotalCharge(), 1e-3)
}

func TestOptimiseIndifferencePrefersHome(t *testing.T) {
	person := personWithTrace(
		model.LinkSegment(model.Link{ID: "a", StartTime: 1, EndTime: 2, Distance: 1}),
		model.ActivitySegment(model.Activity{Type: "work", StartTime: 2, EndTime: 4}),
		model.LinkSegment(model.Link{ID: "b", StartTime: 4, EndTime: 5, Distance: 1}),
		model.ActivitySegment(model.Activity{Type: "home", StartTime: 5, EndTime: 7}),
	)
	home := &scenario.ActivitySpec{Activities: []string{"home"}, ChargeRate: 1}
	work := &scenario.ActivitySpec{Activities: []string{"work"}, ChargeRate: 1}
	battery := &scenario.BatterySpec{Capacity: 3.0 / 3600, Initial: 3.0 / 3600, ConsumptionRate: 1.0 / 3.6}
	caps := fullCaps(battery, 0, 1, home, work)
	sc := scenario.Default()

	res := OptimiseAgent(sc, caps, person)
	events := res.Record.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "home", events[0].Activity)
	assert.InDelta(t, 2.0, events[0].Charge, 1e-6)
	assert.InDelta(t, 0.0, res.Record.Leak(), 1e-6)
}

func TestOptimiseIneligible(t *testing.T) {
	person := homeWorkPerson()
	caps := &scenario.Capabilities{AgentID: "A"}
	res := OptimiseAgent(scenario.Default(), caps, person)
	assert.True(t, res.Ineligible)
	assert.Equal(t, "no battery", res.IneligibleReason)
	assert.Empty(t, res.Record.Events())
}

// commuteTrace is the reference day: ten km out, ten km back, with the home
// activity wrapped across midnight.
func commuteTrace() *model.Person {
	return personWithTrace(
		model.LinkSegment(model.Link{ID: "out", StartTime: 28800, EndTime: 30600, Distance: 10000}),
		model.ActivitySegment(model.Activity{Type: "work", StartTime: 30600, EndTime: 61200}),
		model.LinkSegment(model.Link{ID: "back", StartTime: 61200, EndTime: 63000, Distance: 10000}),
		model.ActivitySegment(model.Activity{Type: "home", StartTime: 63000, EndTime: 115200}),
	)
}

func commuterBattery() *scenario.BatterySpec {
	return &scenario.BatterySpec{Name: "20kWh", Capacity: 20, Initial: 20, ConsumptionRate: 1}
}

func TestCommuterHomeCharger(t *testing.T) {
	home := &scenario.ActivitySpec{Name: "home-3kw", Activities: []string{"home"}, ChargeRate: 3}
	caps := fullCaps(commuterBattery(), 0.25, 10, home)
	res := OptimiseAgent(scenario.Default(), caps, commuteTrace())

	require.False(t, res.Infeasible)
	events := res.Record.Events()
	require.Len(t, events, 2)
	assert.Equal(t, 1, res.Record.Days())
	// ten kWh en route on the return trip, ten kWh overnight at home
	assert.InDelta(t, 36000.0, res.Record.TotalEnRoute(), 1.0)
	assert.InDelta(t, 36000.0, res.Record.TotalActivity(), 1.0)
	assert.InDelta(t, 72000.0, res.Record.TotalCharge(), 1.0)
	assert.InDelta(t, 0.0, res.Record.Leak(), 1.0)
	assert.Equal(t, 1, res.Record.Count(sim.KindEnRoute))
	enRoute := events[0]
	if enRoute.Kind != sim.KindEnRoute {
		enRoute = events[1]
	}
	assert.Equal(t, "back", enRoute.LinkID)
}

func TestCommuterNoActivityCharger(t *testing.T) {
	caps := fullCaps(commuterBattery(), 0.25, 10)
	res := OptimiseAgent(scenario.Default(), caps, commuteTrace())

	events := res.Record.Events()
	require.Len(t, events, 1)
	assert.Equal(t, sim.KindEnRoute, events[0].Kind)
	assert.Equal(t, "back", events[0].LinkID)
	// a single twenty kWh top-up on the return trip
	assert.InDelta(t, 72000.0, events[0].Charge, 1.0)
	assert.InDelta(t, 0.0, res.Record.Leak(), 1.0)
}

func TestCommuterWorkAndHomeChargers(t *testing.T) {
	home := &scenario.ActivitySpec{Name: "home-3kw", Activities: []string{"home"}, ChargeRate: 3}
	work := &scenario.ActivitySpec{Name: "work-10kw", Activities: []string{"work"}, ChargeRate: 10}
	caps := fullCaps(commuterBattery(), 0.25, 10, home, work)
	res := OptimiseAgent(scenario.Default(), caps, commuteTrace())

	assert.Equal(t, 0, res.Record.Count(sim.KindEnRoute))
	assert.Equal(t, 2, res.Record.Count(sim.KindActivity))
	// ten kWh at work, ten kWh at home
	assert.InDelta(t, 72000.0, res.Record.TotalActivity(), 1.0)
	byActivity := map[string]float64{}
	for _, ev := range res.Record.Events() {
		byActivity[ev.Activity] += ev.Charge
	}
	assert.InDelta(t, 36000.0, byActivity["work"], 1.0)
	assert.InDelta(t, 36000.0, byActivity["home"], 1.0)
}

func TestRunPoolDeterministic(t *testing.T) {
	sc := scenario.Default()
	sc.BatteryGroup = []scenario.BatterySpec{*commuterBattery()}
	sc.TriggerGroup = []scenario.TriggerSpec{{Name: "default", Trigger: 0.25}}
	sc.EnRouteGroup = []scenario.EnRouteSpec{{Name: "default", ChargeRate: 10}}
	sc.ActivityGroup = []scenario.ActivitySpec{{Name: "home-3kw", Activities: []string{"home"}, ChargeRate: 3}}

	pop := model.NewPopulation()
	for _, id := range []string{"c", "a", "b"} {
		person := commuteTrace()
		pop.People[id] = person
	}

	first, err := Run(context.Background(), sc, pop, 2, nil)
	require.NoError(t, err)
	second, err := Run(context.Background(), sc, pop, 1, nil)
	require.NoError(t, err)
	require.Len(t, first, 3)
	// results come back in sorted agent id order regardless of worker count
	assert.Equal(t, "a", first[0].AgentID)
	assert.Equal(t, "b", first[1].AgentID)
	assert.Equal(t, "c", first[2].AgentID)
	for i := range first {
		assert.Equal(t, first[i].AgentID, second[i].AgentID)
		assert.Equal(t, first[i].Record.Events(), second[i].Record.Events())
	}
}
