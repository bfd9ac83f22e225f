package sim

import "math"

// Score ranks a realised loop. Components are per-day rates over the loop's
// pass count and compare lexicographically: fewer en-route events first, then
// less en-route energy, then fewer activity events.
type Score struct {
	EnRouteEvents  float64
	EnRouteCharge  float64
	ActivityEvents float64
}

// WorstScore sorts after every real score.
func WorstScore() Score {
	return Score{
		EnRouteEvents:  math.MaxFloat64,
		EnRouteCharge:  math.MaxFloat64,
		ActivityEvents: math.MaxFloat64,
	}
}

// Less reports whether s ranks strictly better than o.
func (s Score) Less(o Score) bool {
	if s.EnRouteEvents != o.EnRouteEvents {
		return s.EnRouteEvents < o.EnRouteEvents
	}
	if s.EnRouteCharge != o.EnRouteCharge {
		return s.EnRouteCharge < o.EnRouteCharge
	}
	return s.ActivityEvents < o.ActivityEvents
}

// ScoreRecord scores the record's realised loop.
func ScoreRecord(r *Record) Score {
	days := float64(r.Days())
	var enRoute, activity, cost float64
	for _, pass := range r.Slice() {
		for _, ev := range pass {
			switch ev.Kind {
			case KindActivity:
				activity++
			case KindEnRoute:
				enRoute++
				cost += ev.Charge
			}
		}
	}
	return Score{
		EnRouteEvents:  enRoute / days,
		EnRouteCharge:  cost / days,
		ActivityEvents: activity / days,
	}
}
