package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arup-group/batsim/core/model"
)

func testScenario() *Scenario {
	s := &Scenario{
		BatteryGroup: []BatterySpec{
			{Name: "default", Capacity: 100, Initial: 100, ConsumptionRate: 0.15},
			{Name: "small", Capacity: 20, Initial: 20, ConsumptionRate: 0.15,
				Filters: Filters{{Key: "car_type", Values: []string{"city", "compact"}}}},
		},
		TriggerGroup: []TriggerSpec{{Name: "default", Trigger: 0.2}},
		EnRouteGroup: []EnRouteSpec{{Name: "default", ChargeRate: 10}},
	}
	s.SetDefaults()
	return s
}

func TestResolveLastMatchWins(t *testing.T) {
	s := testScenario()
	sampler := NewSampler(0)

	caps := Resolve(s, sampler, "a", model.Attributes{})
	require.NotNil(t, caps.Battery)
	assert.Equal(t, "default", caps.Battery.Name)

	caps = Resolve(s, sampler, "b", model.Attributes{"car_type": "city"})
	require.NotNil(t, caps.Battery)
	assert.Equal(t, "small", caps.Battery.Name)
}

func TestResolveFailedDrawKeepsEarlierMatch(t *testing.T) {
	s := testScenario()
	never := 0.0
	s.BatteryGroup[1].P = &never
	sampler := NewSampler(0)

	caps := Resolve(s, sampler, "b", model.Attributes{"car_type": "city"})
	require.NotNil(t, caps.Battery)
	assert.Equal(t, "default", caps.Battery.Name)
}

func TestResolveIneligible(t *testing.T) {
	s := testScenario()
	s.BatteryGroup = []BatterySpec{
		{Name: "ev-only", Capacity: 100, Initial: 100, ConsumptionRate: 0.15,
			Filters: Filters{{Key: "vehicle", Values: []string{"ev"}}}},
	}
	sampler := NewSampler(0)

	caps := Resolve(s, sampler, "a", model.Attributes{"vehicle": "petrol"})
	assert.Equal(t, "no battery", caps.IneligibleReason())

	caps = Resolve(s, sampler, "b", model.Attributes{"vehicle": "ev"})
	assert.Empty(t, caps.IneligibleReason())
}

func TestResolveActivityCumulative(t *testing.T) {
	s := testScenario()
	s.ActivityGroup = []ActivitySpec{
		{Name: "home-slow", Activities: []string{"home"}, ChargeRate: 3},
		{Name: "work", Activities: []string{"work"}, ChargeRate: 7},
	}
	sampler := NewSampler(0)

	caps := Resolve(s, sampler, "a", model.Attributes{})
	require.Len(t, caps.Activities, 2)
	// disjoint specs both persist
	assert.Equal(t, 3.0, caps.ActivityCharger("home").ChargeRate)
	assert.Equal(t, 7.0, caps.ActivityCharger("work").ChargeRate)
	assert.Nil(t, caps.ActivityCharger("shop"))
	assert.Equal(t, map[string]bool{"home": true, "work": true}, caps.ChargerTypes())
}

func TestResolveActivityOverlapLaterWins(t *testing.T) {
	s := testScenario()
	s.ActivityGroup = []ActivitySpec{
		{Name: "home-slow", Activities: []string{"home"}, ChargeRate: 3},
		{Name: "home-fast", Activities: []string{"home"}, ChargeRate: 10,
			Filters: Filters{{Key: "income", Values: []string{"high"}}}},
	}
	sampler := NewSampler(0)

	rich := Resolve(s, sampler, "a", model.Attributes{"income": "high"})
	assert.Equal(t, 10.0, rich.ActivityCharger("home").ChargeRate)

	other := Resolve(s, sampler, "b", model.Attributes{"income": "low"})
	assert.Equal(t, 3.0, other.ActivityCharger("home").ChargeRate)
}

func TestResolveRecord(t *testing.T) {
	s := testScenario()
	s.ActivityGroup = []ActivitySpec{
		{Name: "home", Activities: []string{"home"}, ChargeRate: 3},
		{Name: "work", Activities: []string{"work"}, ChargeRate: 7},
	}
	sampler := NewSampler(0)

	rec := Resolve(s, sampler, "a", model.Attributes{"car_type": "city"}).ToRecord()
	assert.Equal(t, "a", rec.AgentID)
	assert.Equal(t, "small", rec.Battery)
	assert.Equal(t, "default", rec.Trigger)
	assert.Equal(t, "default", rec.EnRoute)
	assert.Equal(t, "home+work", rec.Activities)
}

func TestResolveRecordNoMatches(t *testing.T) {
	s := testScenario()
	s.BatteryGroup = []BatterySpec{
		{Name: "ev", Capacity: 1, Initial: 1, ConsumptionRate: 1,
			Filters: Filters{{Key: "vehicle", Values: []string{"ev"}}}},
	}
	sampler := NewSampler(0)
	rec := Resolve(s, sampler, "a", model.Attributes{}).ToRecord()
	assert.Equal(t, "None", rec.Battery)
	assert.Equal(t, "", rec.Activities)
}

func TestResolveDeterministicAcrossCalls(t *testing.T) {
	s := testScenario()
	half := 0.5
	s.BatteryGroup[1].P = &half
	sampler := NewSampler(11)
	attrs := model.Attributes{"car_type": "city"}

	first := Resolve(s, sampler, "agent-7", attrs)
	for i := 0; i < 10; i++ {
		again := Resolve(s, sampler, "agent-7", attrs)
		assert.Equal(t, first.Battery.Name, again.Battery.Name)
	}
}
