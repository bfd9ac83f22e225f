package report

import (
	"fmt"
	"math"
)

// base unit of energy is the kWs
var energyUnits = []struct {
	factor float64
	name   string
}{
	{3_600_000_000_000, "TWh"},
	{3_600_000_000, "GWh"},
	{3_600_000, "MWh"},
	{3600, "kWh"},
	{1, "kWs"},
}

// HumanEnergy formats an energy in kWs with a readable unit.
func HumanEnergy(kws float64) string {
	idx := len(energyUnits) - 1
	for i := range energyUnits {
		if i+1 == len(energyUnits) {
			break
		}
		cur := energyUnits[i].factor
		next := energyUnits[i+1].factor
		if kws+next/2 >= cur+cur/2 {
			idx = i
			break
		}
	}
	u := energyUnits[idx]
	return fmt.Sprintf("%d %s", int(math.Round(kws/u.factor)), u.name)
}
