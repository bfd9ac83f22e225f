package sim

import (
	"math"
	"sort"
)

// Record accumulates the passes of one candidate-plan simulation and resolves
// them into a realised loop: either a closed cycle (start and end SoC agree
// within precision) or, once patience is exhausted, the contiguous pass range
// minimising the absolute energy leak.
type Record struct {
	AgentID string

	// passes holds the charge events of each pass; history the SoC at each
	// pass start. history gains one final entry when a run is force-closed.
	passes  [][]Event
	history []float64

	sliceStart int
	sliceEnd   int // exclusive bound into passes, -1 while the loop is open
	precision  float64

	leak     float64
	resolved bool

	// Infeasible marks a candidate whose SoC fell below zero.
	Infeasible bool
}

// NewRecord returns an empty record with the given closure precision.
func NewRecord(agentID string, precision float64) *Record {
	return &Record{AgentID: agentID, precision: precision, sliceEnd: -1}
}

// EmptyRecord returns a resolved record with no passes, used for agents that
// are not simulated.
func EmptyRecord(agentID string) *Record {
	return &Record{AgentID: agentID, sliceEnd: -1, resolved: true}
}

// NewPass starts a new pass, recording the SoC at its start.
func (r *Record) NewPass(state float64) {
	r.history = append(r.history, state)
	r.passes = append(r.passes, nil)
}

// AddEvent appends an event to the current pass.
func (r *Record) AddEvent(ev Event) {
	r.passes[len(r.passes)-1] = append(r.passes[len(r.passes)-1], ev)
}

// TryClose checks the end-of-pass state against the history of pass starts.
// On a match within precision the loop closes from the matched pass.
func (r *Record) TryClose(state float64) bool {
	for k, v := range r.history {
		if math.Abs(state-v) < r.precision {
			r.sliceStart = k
			r.leak = state - v
			r.resolved = true
			return true
		}
	}
	return false
}

// ForceClose picks the pass range [i, j) minimising the absolute leak, with
// ties broken by shorter range then earlier start. Requires at least two
// history entries; the caller records the final state as an extra pass first.
func (r *Record) ForceClose() {
	bestLeak := math.MaxFloat64
	bestLen := math.MaxInt
	for i := 0; i < len(r.history)-1; i++ {
		for j := i + 1; j < len(r.history); j++ {
			leak := math.Abs(r.history[i] - r.history[j])
			if leak < bestLeak || (leak == bestLeak && j-i < bestLen) {
				bestLeak = leak
				bestLen = j - i
				r.sliceStart = i
				r.sliceEnd = j
			}
		}
	}
	r.leak = r.history[r.sliceEnd] - r.history[r.sliceStart]
	r.resolved = true
}

// Slice returns the passes of the realised loop.
func (r *Record) Slice() [][]Event {
	if r.sliceEnd < 0 {
		return r.passes[r.sliceStart:]
	}
	return r.passes[r.sliceStart:r.sliceEnd]
}

// Days returns the number of passes in the realised loop.
func (r *Record) Days() int { return len(r.Slice()) }

// Len returns the total number of simulated passes.
func (r *Record) Len() int { return len(r.passes) }

// Leak returns the net energy gain over the loop in kWs. Positive means a
// surplus of charging over consumption.
func (r *Record) Leak() float64 { return r.leak }

// Resolved reports whether a loop has been selected.
func (r *Record) Resolved() bool { return r.resolved }

// Finalise normalises the loop's events to per-day rates, applies the scale
// factor and sorts events for deterministic emission. The leak is left in
// raw kWs so it stays interpretable in original units.
func (r *Record) Finalise(scale float64) {
	days := r.Days()
	start := r.sliceStart
	end := r.sliceEnd
	if end < 0 {
		end = len(r.passes)
	}
	for i := start; i < end; i++ {
		for k := range r.passes[i] {
			if days > 1 {
				r.passes[i][k].normalise(days, start)
			}
			r.passes[i][k].Charge *= scale
		}
	}
	for i := start; i < end; i++ {
		events := r.passes[i]
		sort.SliceStable(events, func(a, b int) bool {
			if events[a].StartTime != events[b].StartTime {
				return events[a].StartTime < events[b].StartTime
			}
			return events[a].Kind < events[b].Kind
		})
	}
}

// Events returns the loop's events flattened in pass order.
func (r *Record) Events() []Event {
	var out []Event
	for _, pass := range r.Slice() {
		out = append(out, pass...)
	}
	return out
}

// TotalCharge sums delivered energy over the loop in kWs.
func (r *Record) TotalCharge() float64 { return r.totalBy("") }

// TotalEnRoute sums en-route energy over the loop in kWs.
func (r *Record) TotalEnRoute() float64 { return r.totalBy(KindEnRoute) }

// TotalActivity sums activity energy over the loop in kWs.
func (r *Record) TotalActivity() float64 { return r.totalBy(KindActivity) }

func (r *Record) totalBy(kind Kind) float64 {
	var total float64
	for _, pass := range r.Slice() {
		for _, ev := range pass {
			if kind == "" || ev.Kind == kind {
				total += ev.Charge
			}
		}
	}
	return total
}

// Count returns the number of events in the loop, optionally by kind
// (pass "" for all).
func (r *Record) Count(kind Kind) int {
	var n int
	for _, pass := range r.Slice() {
		for _, ev := range pass {
			if kind == "" || ev.Kind == kind {
				n++
			}
		}
	}
	return n
}
