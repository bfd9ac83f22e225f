package scenario

// BatterySpec assigns a battery to matching agents. Capacity and Initial are
// in kWh, ConsumptionRate in kWh/km; the simulator converts to kWs and kWs/m.
type BatterySpec struct {
	Name            string   `json:"name"`
	Capacity        float64  `json:"capacity"`
	Initial         float64  `json:"initial"`
	ConsumptionRate float64  `json:"consumption_rate"`
	P               *float64 `json:"p"`
	Filters         Filters  `json:"filters"`
}

// TriggerSpec assigns the SoC fraction at which en-route charging starts.
type TriggerSpec struct {
	Name    string   `json:"name"`
	Trigger float64  `json:"trigger"`
	P       *float64 `json:"p"`
	Filters Filters  `json:"filters"`
}

// EnRouteSpec assigns the en-route charge rate in kW.
type EnRouteSpec struct {
	Name       string   `json:"name"`
	ChargeRate float64  `json:"charge_rate"`
	P          *float64 `json:"p"`
	Filters    Filters  `json:"filters"`
}

// ActivitySpec assigns a charger of the given rate (kW) to the listed
// activity types. Unlike the other groups, activity specs accumulate: every
// matching spec applies, later specs overwriting earlier ones per type.
type ActivitySpec struct {
	Name       string   `json:"name"`
	Activities []string `json:"activities"`
	ChargeRate float64  `json:"charge_rate"`
	P          *float64 `json:"p"`
	Filters    Filters  `json:"filters"`
}

// Covers reports whether the spec applies to the activity type.
func (s *ActivitySpec) Covers(act string) bool {
	for _, a := range s.Activities {
		if a == act {
			return true
		}
	}
	return false
}

func defaultBatterySpec() BatterySpec {
	return BatterySpec{Name: "default", Capacity: 100, Initial: 100, ConsumptionRate: 0.15}
}

func defaultTriggerSpec() TriggerSpec {
	return TriggerSpec{Name: "default", Trigger: 0.2}
}

func defaultEnRouteSpec() EnRouteSpec {
	return EnRouteSpec{Name: "default", ChargeRate: 10}
}
