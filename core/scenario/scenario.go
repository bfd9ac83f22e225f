package scenario

import (
	"errors"
	"fmt"
)

// ErrConfig indicates a scenario that fails schema or range checks. It is
// fatal and surfaced before any agent runs.
var ErrConfig = errors.New("invalid scenario")

// Scenario bundles the four specification groups with run-level scalars.
// Precision is the loop-closure tolerance in kWs, Patience the maximum number
// of trace passes simulated per candidate plan.
type Scenario struct {
	Name      string  `json:"name"`
	Scale     float64 `json:"scale"`
	Precision float64 `json:"precision"`
	Patience  int     `json:"patience"`
	Seed      int64   `json:"seed"`

	BatteryGroup  []BatterySpec  `json:"battery_group"`
	TriggerGroup  []TriggerSpec  `json:"trigger_group"`
	EnRouteGroup  []EnRouteSpec  `json:"enroute_group"`
	ActivityGroup []ActivitySpec `json:"activity_group"`
}

// Default returns a scenario with the documented defaults and singleton
// battery, trigger and en-route groups.
func Default() *Scenario {
	s := &Scenario{}
	s.SetDefaults()
	return s
}

// SetDefaults fills unset scalars and missing required groups.
func (s *Scenario) SetDefaults() {
	if s.Scale == 0 {
		s.Scale = 1.0
	}
	if s.Precision == 0 {
		s.Precision = 1.0
	}
	if s.Patience == 0 {
		s.Patience = 100
	}
	if len(s.BatteryGroup) == 0 {
		s.BatteryGroup = []BatterySpec{defaultBatterySpec()}
	}
	if len(s.TriggerGroup) == 0 {
		s.TriggerGroup = []TriggerSpec{defaultTriggerSpec()}
	}
	if len(s.EnRouteGroup) == 0 {
		s.EnRouteGroup = []EnRouteSpec{defaultEnRouteSpec()}
	}
}

// Validate applies the range checks of the scenario schema.
func (s *Scenario) Validate() error {
	if s.Scale < 0 {
		return fmt.Errorf("%w: scale must be non-negative, got %v", ErrConfig, s.Scale)
	}
	if s.Precision <= 0 {
		return fmt.Errorf("%w: precision must be positive, got %v", ErrConfig, s.Precision)
	}
	if s.Patience <= 0 {
		return fmt.Errorf("%w: patience must be positive, got %d", ErrConfig, s.Patience)
	}
	for i, b := range s.BatteryGroup {
		if b.Capacity <= 0 {
			return fmt.Errorf("%w: battery_group[%d] capacity must be positive", ErrConfig, i)
		}
		if b.Initial < 0 || b.Initial > b.Capacity {
			return fmt.Errorf("%w: battery_group[%d] initial outside [0, capacity]", ErrConfig, i)
		}
		if b.ConsumptionRate < 0 {
			return fmt.Errorf("%w: battery_group[%d] consumption_rate must be non-negative", ErrConfig, i)
		}
		if err := validateP(b.P, "battery_group", i); err != nil {
			return err
		}
	}
	for i, t := range s.TriggerGroup {
		if t.Trigger < 0 || t.Trigger > 1 {
			return fmt.Errorf("%w: trigger_group[%d] trigger outside [0, 1]", ErrConfig, i)
		}
		if err := validateP(t.P, "trigger_group", i); err != nil {
			return err
		}
	}
	for i, e := range s.EnRouteGroup {
		if e.ChargeRate <= 0 {
			return fmt.Errorf("%w: enroute_group[%d] charge_rate must be positive", ErrConfig, i)
		}
		if err := validateP(e.P, "enroute_group", i); err != nil {
			return err
		}
	}
	for i, a := range s.ActivityGroup {
		if a.ChargeRate <= 0 {
			return fmt.Errorf("%w: activity_group[%d] charge_rate must be positive", ErrConfig, i)
		}
		if len(a.Activities) == 0 {
			return fmt.Errorf("%w: activity_group[%d] lists no activity types", ErrConfig, i)
		}
		if err := validateP(a.P, "activity_group", i); err != nil {
			return err
		}
	}
	return nil
}

func validateP(p *float64, group string, i int) error {
	if p != nil && (*p < 0 || *p > 1) {
		return fmt.Errorf("%w: %s[%d] p outside [0, 1]", ErrConfig, group, i)
	}
	return nil
}
