package model

import (
	"errors"
	"fmt"
)

// ErrMalformedTrace indicates a trace that violates basic ordering or range
// checks. It is fatal to the run.
var ErrMalformedTrace = errors.New("malformed trace")

// Activity is a stationary segment of a trace: the agent is parked at a
// location of the given type between StartTime and EndTime (seconds).
type Activity struct {
	Type      string  `json:"act"`
	StartTime int     `json:"start_time"`
	EndTime   int     `json:"end_time"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// Duration returns the activity length in seconds.
func (a Activity) Duration() int { return a.EndTime - a.StartTime }

// Link is a single link traversal within a trip. Distance is in metres.
type Link struct {
	ID        string  `json:"id"`
	StartTime int     `json:"start_time"`
	EndTime   int     `json:"end_time"`
	Distance  float64 `json:"distance"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// Duration returns the traversal time in seconds.
func (l Link) Duration() int { return l.EndTime - l.StartTime }

// Segment is one element of a trace plan: exactly one of Activity or Link is
// set. Consecutive links form a trip.
type Segment struct {
	Activity *Activity `json:"activity,omitempty"`
	Link     *Link     `json:"link,omitempty"`
}

// ActivitySegment wraps an activity as a trace segment.
func ActivitySegment(a Activity) Segment { return Segment{Activity: &a} }

// LinkSegment wraps a link traversal as a trace segment.
func LinkSegment(l Link) Segment { return Segment{Link: &l} }

// Trace is an agent's repeating daily activity/trip sequence with link-level
// resolution on trips. The plan is treated as cyclic: after the last segment
// the simulation re-enters the first.
type Trace struct {
	Plan []Segment `json:"plan"`
}

// Add appends a segment to the plan.
func (t *Trace) Add(s Segment) { t.Plan = append(t.Plan, s) }

// ContainsLink reports whether the plan has at least one link traversal.
func (t *Trace) ContainsLink() bool {
	for _, s := range t.Plan {
		if s.Link != nil {
			return true
		}
	}
	return false
}

func (t *Trace) first() *Segment {
	if len(t.Plan) == 0 {
		return nil
	}
	return &t.Plan[0]
}

func (t *Trace) last() *Segment {
	if len(t.Plan) == 0 {
		return nil
	}
	return &t.Plan[len(t.Plan)-1]
}

// Wrappable reports whether the first and last segments are activities of the
// same type, in which case they can be merged into a single overnight window.
func (t *Trace) Wrappable() bool {
	if len(t.Plan) <= 1 {
		return false
	}
	first, last := t.first(), t.last()
	if first.Activity == nil || last.Activity == nil {
		return false
	}
	return first.Activity.Type == last.Activity.Type
}

// Wrap merges the first activity into the last by extending the last
// activity's end time past the day boundary, then drops the first segment.
// The caller is expected to check Wrappable first.
func (t *Trace) Wrap() error {
	first, last := t.first(), t.last()
	if first == nil || first.Activity == nil || last == nil || last.Activity == nil {
		return fmt.Errorf("%w: wrap requires activities at both ends", ErrMalformedTrace)
	}
	last.Activity.EndTime += first.Activity.Duration()
	t.Plan = t.Plan[1:]
	return nil
}

// Validate applies the input checks that are fatal to a run: segment times
// must be non-negative and ordered, link distances non-negative.
func (t *Trace) Validate() error {
	for i, s := range t.Plan {
		switch {
		case s.Activity != nil:
			a := s.Activity
			if a.StartTime < 0 || a.EndTime < a.StartTime {
				return fmt.Errorf("%w: activity %q at segment %d has times [%d, %d]",
					ErrMalformedTrace, a.Type, i, a.StartTime, a.EndTime)
			}
		case s.Link != nil:
			l := s.Link
			if l.StartTime < 0 || l.EndTime < l.StartTime {
				return fmt.Errorf("%w: link %q at segment %d has times [%d, %d]",
					ErrMalformedTrace, l.ID, i, l.StartTime, l.EndTime)
			}
			if l.Distance < 0 {
				return fmt.Errorf("%w: link %q at segment %d has negative distance",
					ErrMalformedTrace, l.ID, i)
			}
		default:
			return fmt.Errorf("%w: empty segment at index %d", ErrMalformedTrace, i)
		}
	}
	return nil
}
