package optimise

import (
	"github.com/arup-group/batsim/core/model"
	"github.com/arup-group/batsim/core/scenario"
)

// Enumerator yields candidate charging plans: subsets of the agent's
// chargeable activity slots, in size-ascending order starting with the empty
// plan. Within a size, subsets favouring later slots come first, so that
// indifferent candidates resolve to the overnight activity.
type Enumerator struct {
	// slots holds the chargeable trace indices in descending order.
	slots []int
}

// NewEnumerator derives the chargeable slot set from the agent's trace and
// resolved capabilities.
func NewEnumerator(caps *scenario.Capabilities, person *model.Person) *Enumerator {
	asc := person.ChargeableSlots(caps.ChargerTypes())
	desc := make([]int, len(asc))
	for i, s := range asc {
		desc[len(asc)-1-i] = s
	}
	return &Enumerator{slots: desc}
}

// SlotCount returns the number of chargeable slots.
func (e *Enumerator) SlotCount() int { return len(e.slots) }

// PlansOfSize returns every plan with exactly k slots. Size 0 returns the
// single empty plan.
func (e *Enumerator) PlansOfSize(k int) [][]int {
	if k == 0 {
		return [][]int{{}}
	}
	var out [][]int
	combo := make([]int, k)
	var walk func(start, depth int)
	walk = func(start, depth int) {
		if depth == k {
			plan := make([]int, k)
			copy(plan, combo)
			out = append(out, plan)
			return
		}
		for i := start; i <= len(e.slots)-(k-depth); i++ {
			combo[depth] = e.slots[i]
			walk(i+1, depth+1)
		}
	}
	walk(0, 0)
	return out
}
