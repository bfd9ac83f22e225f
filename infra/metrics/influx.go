package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/arup-group/batsim/core/metrics"
	"github.com/arup-group/batsim/infra/logger"
)

// InfluxSink writes simulation results to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg coremetrics.Config) *InfluxSink {
	client := influxdb2.NewClientWithOptions(cfg.InfluxURL, cfg.InfluxToken,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxOrg, cfg.InfluxBucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordAgentResult writes the agent outcome as a point.
func (s *InfluxSink) RecordAgentResult(ev coremetrics.AgentResultEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("agent_result").
		AddTag("run_id", ev.RunID).
		AddTag("agent_id", ev.AgentID).
		AddTag("ineligible", strconv.FormatBool(ev.Ineligible)).
		AddTag("infeasible", strconv.FormatBool(ev.Infeasible)).
		AddField("days", ev.Days).
		AddField("enroute_events", ev.EnRouteEvents).
		AddField("activity_events", ev.ActivityEvents).
		AddField("total_kwh", ev.TotalKWh).
		AddField("leak_kws", ev.LeakKWs).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordRunSummary writes the run totals as a point.
func (s *InfluxSink) RecordRunSummary(ev coremetrics.RunSummaryEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("run_summary").
		AddTag("run_id", ev.RunID).
		AddTag("scenario", ev.Scenario).
		AddField("agents", ev.Agents).
		AddField("ineligible", ev.Ineligible).
		AddField("infeasible", ev.Infeasible).
		AddField("total_kwh", ev.TotalKWh).
		AddField("leak_kws", ev.LeakKWs).
		AddField("duration_seconds", ev.Duration.Seconds()).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }
