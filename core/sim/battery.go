package sim

import "github.com/arup-group/batsim/core/scenario"

// Battery tracks an agent's state of charge during simulation. Specification
// units are converted on construction: kWh to kWs for capacity and state,
// kWh/km to kWs/m for consumption. The trigger level is the absolute SoC at
// which en-route charging starts.
type Battery struct {
	State           float64
	Capacity        float64
	Initial         float64
	TriggerLevel    float64
	ConsumptionRate float64
}

// NewBattery builds the battery state from resolved specifications.
func NewBattery(battery *scenario.BatterySpec, trigger *scenario.TriggerSpec) *Battery {
	capacity := battery.Capacity * 3600
	return &Battery{
		State:           battery.Initial * 3600,
		Capacity:        capacity,
		Initial:         battery.Initial * 3600,
		TriggerLevel:    trigger.Trigger * capacity,
		ConsumptionRate: battery.ConsumptionRate * 3.6,
	}
}

// ApplyDistance drains the battery for the given distance in metres.
func (b *Battery) ApplyDistance(distance float64) {
	b.State -= distance * b.ConsumptionRate
}

// Deficit returns the gap between current state and capacity.
func (b *Battery) Deficit() float64 { return b.Capacity - b.State }

// MustCharge reports whether the state is at or below the trigger level.
func (b *Battery) MustCharge() bool { return b.State <= b.TriggerLevel }

// ChargeToFull charges to capacity at the given rate (kW), returning the
// delivered charge in kWs and the duration in whole seconds.
func (b *Battery) ChargeToFull(rate float64) (float64, int) {
	desired := b.Deficit()
	duration := int(desired / rate)
	b.State = b.Capacity
	return desired, duration
}

// ChargeForDuration charges for up to the given duration in seconds at the
// given rate, stopping early at capacity. Returns achieved charge and the
// actual charging duration.
func (b *Battery) ChargeForDuration(duration int, rate float64) (float64, int) {
	charge := float64(duration) * rate
	if charge > b.Deficit() {
		charge = b.Deficit()
		duration = int(charge / rate)
		b.State = b.Capacity
		return charge, duration
	}
	b.State += charge
	return charge, duration
}

// ChargeToDesired applies the desired charge at the given rate, capped at
// capacity. Returns achieved charge and duration.
func (b *Battery) ChargeToDesired(desired, rate float64) (float64, int) {
	if desired > b.Deficit() {
		charge := b.Deficit()
		duration := int(charge / rate)
		b.State = b.Capacity
		return charge, duration
	}
	b.State += desired
	return desired, int(desired / rate)
}
