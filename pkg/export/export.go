package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"

	"github.com/arup-group/batsim/core/report"
	"github.com/arup-group/batsim/core/scenario"
	"github.com/arup-group/batsim/core/sim"
)

// WriteEventsCSV writes the charge event stream with one row per event.
func WriteEventsCSV(w io.Writer, events []sim.Event) error {
	cw := csv.NewWriter(w)
	header := []string{
		"agent_id", "kind", "spec", "charge_kws", "day",
		"start_time_s", "end_time_s", "activity", "link_id", "x", "y",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, ev := range events {
		rec := []string{
			ev.AgentID,
			string(ev.Kind),
			ev.Spec,
			formatFloat(ev.Charge),
			strconv.Itoa(ev.Day),
			strconv.Itoa(ev.StartTime),
			strconv.Itoa(ev.EndTime),
			ev.Activity,
			ev.LinkID,
			formatFloat(ev.X),
			formatFloat(ev.Y),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEventsJSON writes the charge event stream as a JSON array.
func WriteEventsJSON(w io.Writer, events []sim.Event) error {
	return json.NewEncoder(w).Encode(events)
}

// WriteReportCSV writes the per-agent summary rows.
func WriteReportCSV(w io.Writer, rows []report.AgentReport) error {
	cw := csv.NewWriter(w)
	header := []string{
		"agent_id", "days", "enroute_events", "activity_events", "total_events",
		"total_kwh", "enroute_kwh", "activity_kwh", "leak_kws",
		"ineligible", "infeasible",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{
			row.AgentID,
			strconv.Itoa(row.Days),
			strconv.Itoa(row.EnRouteEvents),
			strconv.Itoa(row.ActivityEvents),
			strconv.Itoa(row.TotalEvents),
			formatFloat(row.TotalKWh),
			formatFloat(row.EnRouteKWh),
			formatFloat(row.ActivityKWh),
			formatFloat(row.LeakKWs),
			strconv.FormatBool(row.Ineligible),
			strconv.FormatBool(row.Infeasible),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSpecsCSV writes the capability-resolution rows of a dry run.
func WriteSpecsCSV(w io.Writer, rows []scenario.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"agent_id", "battery", "trigger", "en_route", "activities"}); err != nil {
		return err
	}
	for _, row := range rows {
		rec := []string{row.AgentID, row.Battery, row.Trigger, row.EnRoute, row.Activities}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
