package model

import "sort"

// Attributes holds an agent's upstream attributes as plain strings.
type Attributes map[string]string

// Person holds one agent's attributes and trace.
type Person struct {
	Attributes Attributes `json:"attributes"`
	Trace      Trace      `json:"trace"`
}

// ChargeableSlots returns the plan indices of activities whose type appears
// in the given set of charger-equipped activity types.
func (p *Person) ChargeableSlots(types map[string]bool) []int {
	var slots []int
	for i, s := range p.Trace.Plan {
		if s.Activity != nil && types[s.Activity.Type] {
			slots = append(slots, i)
		}
	}
	return slots
}

// Population maps agent ids to persons. Iteration must use IDs so that runs
// are reproducible regardless of map order.
type Population struct {
	People map[string]*Person `json:"people"`
}

// NewPopulation returns an empty population.
func NewPopulation() *Population {
	return &Population{People: make(map[string]*Person)}
}

// IDs returns all agent ids in sorted order.
func (p *Population) IDs() []string {
	ids := make([]string, 0, len(p.People))
	for id := range p.People {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of agents.
func (p *Population) Len() int { return len(p.People) }

// Validate checks every trace; any failure is fatal to the run.
func (p *Population) Validate() error {
	for _, id := range p.IDs() {
		if err := p.People[id].Trace.Validate(); err != nil {
			return err
		}
	}
	return nil
}
