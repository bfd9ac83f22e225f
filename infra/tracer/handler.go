package tracer

import (
	"fmt"
	"io"

	"github.com/arup-group/batsim/core/model"
	"github.com/arup-group/batsim/infra/logger"
)

const dayEnd = 24 * 60 * 60

type activityStart struct {
	time    int
	actType string
	link    string
	started bool
}

// TraceHandler folds MATSim events into per-agent traces. Activity windows
// come from actstart/actend pairs, link traversals from entered/left link
// pairs. Links left via "vehicle leaves traffic" count half their length, as
// the vehicle parks partway along.
type TraceHandler struct {
	network        *Network
	activityStarts map[string]activityStart
	linkEntries    map[string]int
	log            logger.Logger
}

// NewTraceHandler returns a handler bound to the given network.
func NewTraceHandler(network *Network, log logger.Logger) *TraceHandler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &TraceHandler{
		network:        network,
		activityStarts: make(map[string]activityStart),
		linkEntries:    make(map[string]int),
		log:            log,
	}
}

// AddTraces consumes the events stream and builds every agent's wrapped
// trace in place.
func (h *TraceHandler) AddTraces(pop *model.Population, events io.Reader) error {
	if err := ReadEvents(events, func(ev Event) error {
		return h.process(pop, ev)
	}); err != nil {
		return err
	}
	h.finalise(pop)
	h.clean(pop)
	h.wrap(pop)
	return nil
}

func (h *TraceHandler) process(pop *model.Population, ev Event) error {
	switch ev.Type {
	case "actstart":
		if _, ok := pop.People[ev.Person]; ok {
			h.activityStarts[ev.Person] = activityStart{
				time: ev.Time, actType: ev.ActType, link: ev.Link, started: true,
			}
		}
	case "actend":
		person, ok := pop.People[ev.Person]
		if !ok {
			return nil
		}
		start, pending := h.activityStarts[ev.Person]
		delete(h.activityStarts, ev.Person)
		if !pending {
			// first activity of the day has no actstart, it began before
			// the simulated window
			start = activityStart{time: 0, actType: ev.ActType, link: ev.Link}
		}
		info, ok := h.network.Links[start.link]
		if !ok {
			return fmt.Errorf("failed to find link %q in network", start.link)
		}
		person.Trace.Add(model.ActivitySegment(model.Activity{
			Type:      start.actType,
			StartTime: start.time,
			EndTime:   ev.Time,
			X:         info.Node.X,
			Y:         info.Node.Y,
		}))
	case "entered link":
		if _, ok := pop.People[ev.Vehicle]; ok {
			h.linkEntries[ev.Vehicle] = ev.Time
		}
	case "left link", "vehicle leaves traffic":
		person, ok := pop.People[ev.Vehicle]
		if !ok {
			return nil
		}
		entry, pending := h.linkEntries[ev.Vehicle]
		if !pending {
			return nil
		}
		delete(h.linkEntries, ev.Vehicle)
		info, ok := h.network.Links[ev.Link]
		if !ok {
			return fmt.Errorf("failed to find link %q in network", ev.Link)
		}
		distance := info.Length
		if ev.Type == "vehicle leaves traffic" {
			distance *= 0.5
		}
		person.Trace.Add(model.LinkSegment(model.Link{
			ID:        ev.Link,
			StartTime: entry,
			EndTime:   ev.Time,
			Distance:  distance,
			X:         info.Node.X,
			Y:         info.Node.Y,
		}))
	}
	return nil
}

// finalise closes activities still open at the end of the events stream,
// assuming a 24h day end.
func (h *TraceHandler) finalise(pop *model.Population) {
	for pid, start := range h.activityStarts {
		person, ok := pop.People[pid]
		if !ok {
			continue
		}
		actType := start.actType
		if actType == "" {
			actType = "home"
		}
		info, ok := h.network.Links[start.link]
		if !ok {
			h.log.Warnf("dropping open activity for %s: unknown link %q", pid, start.link)
			continue
		}
		person.Trace.Add(model.ActivitySegment(model.Activity{
			Type:      actType,
			StartTime: start.time,
			EndTime:   dayEnd,
			X:         info.Node.X,
			Y:         info.Node.Y,
		}))
	}
}

// clean drops agents whose trace has no link traversals: they never drive.
func (h *TraceHandler) clean(pop *model.Population) {
	for pid, person := range pop.People {
		if !person.Trace.ContainsLink() {
			delete(pop.People, pid)
		}
	}
}

// wrap merges matching first and last activities into one overnight window.
func (h *TraceHandler) wrap(pop *model.Population) {
	for pid, person := range pop.People {
		if person.Trace.Wrappable() {
			if err := person.Trace.Wrap(); err != nil {
				h.log.Warnf("wrap failed for %s: %v", pid, err)
			}
		}
	}
}
