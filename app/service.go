package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/arup-group/batsim/config"
	coremetrics "github.com/arup-group/batsim/core/metrics"
	"github.com/arup-group/batsim/core/model"
	"github.com/arup-group/batsim/core/optimise"
	"github.com/arup-group/batsim/core/report"
	"github.com/arup-group/batsim/core/scenario"
	"github.com/arup-group/batsim/core/sim"
	"github.com/arup-group/batsim/infra/logger"
	"github.com/arup-group/batsim/infra/metrics"
	"github.com/arup-group/batsim/infra/mqtt"
	"github.com/arup-group/batsim/infra/tracer"
	"github.com/arup-group/batsim/internal/eventbus"
	"github.com/arup-group/batsim/pkg/export"
)

// Service orchestrates the simulation pipeline: trace building, capability
// resolution, per-agent optimisation and reporting.
type Service struct {
	cfg       *config.Config
	log       logger.Logger
	sink      coremetrics.MetricsSink
	bus       *eventbus.Bus
	publisher *mqtt.Publisher
	runID     string

	promEnabled bool
	promPort    string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.SetLevel(cfg.Logging.Level)
	logg := logger.New("service")

	var sinks []coremetrics.MetricsSink
	if cfg.Metrics.PrometheusEnabled {
		sink, err := metrics.NewPromSink(cfg.Metrics)
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, sink)
	}
	if cfg.Metrics.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg.Metrics))
	}
	var sink coremetrics.MetricsSink = coremetrics.NopSink{}
	if len(sinks) == 1 {
		sink = sinks[0]
	} else if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	var publisher *mqtt.Publisher
	if cfg.Publish.Enabled {
		var err error
		publisher, err = mqtt.NewPublisher(cfg.Publish)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
	}

	return &Service{
		cfg:         cfg,
		log:         logg,
		sink:        sink,
		bus:         eventbus.New(),
		publisher:   publisher,
		runID:       uuid.NewString(),
		promEnabled: cfg.Metrics.PrometheusEnabled,
		promPort:    cfg.Metrics.PrometheusPort,
	}, nil
}

// RunID identifies this service instance in metrics and published payloads.
func (s *Service) RunID() string { return s.runID }

// Trace ingests MATSim outputs and writes the population's traces to
// tracesPath.
func (s *Service) Trace(networkPath, plansPath, eventsPath, tracesPath string) (*model.Population, error) {
	networkFile, err := os.Open(networkPath)
	if err != nil {
		return nil, fmt.Errorf("open network: %w", err)
	}
	defer networkFile.Close()
	network, err := tracer.ReadNetwork(networkFile)
	if err != nil {
		return nil, err
	}
	s.log.Infof("loaded network (%d links)", len(network.Links))

	plansFile, err := os.Open(plansPath)
	if err != nil {
		return nil, fmt.Errorf("open plans: %w", err)
	}
	defer plansFile.Close()
	pop, err := tracer.ReadPopulation(plansFile)
	if err != nil {
		return nil, err
	}
	s.log.Infof("loaded population (%d persons)", pop.Len())

	eventsFile, err := os.Open(eventsPath)
	if err != nil {
		return nil, fmt.Errorf("open events: %w", err)
	}
	defer eventsFile.Close()
	handler := tracer.NewTraceHandler(network, s.log)
	if err := handler.AddTraces(pop, eventsFile); err != nil {
		return nil, err
	}
	s.log.Infof("built traces for %d agents", pop.Len())

	out, err := os.Create(tracesPath)
	if err != nil {
		return nil, fmt.Errorf("create traces file: %w", err)
	}
	defer out.Close()
	if err := tracer.WriteTraces(out, pop); err != nil {
		return nil, err
	}
	s.log.Infof("wrote traces to %s", tracesPath)
	return pop, nil
}

// LoadTraces reads a traces file written by Trace.
func (s *Service) LoadTraces(tracesPath string) (*model.Population, error) {
	f, err := os.Open(tracesPath)
	if err != nil {
		return nil, fmt.Errorf("open traces: %w", err)
	}
	defer f.Close()
	pop, err := tracer.ReadTraces(f)
	if err != nil {
		return nil, err
	}
	s.log.Infof("loaded traces (%d agents)", pop.Len())
	return pop, nil
}

// Optimise runs the per-agent charging optimisation over the population and
// records the results in the metrics sink and, when enabled, the MQTT
// publisher. It writes no files; WriteOutputs does. The run summary is
// returned for display together with the per-agent results.
func (s *Service) Optimise(ctx context.Context, pop *model.Population) (*report.Summary, []*optimise.Result, error) {
	if err := pop.Validate(); err != nil {
		return nil, nil, err
	}

	if s.promEnabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.promPort); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go s.logProgress()

	started := time.Now()
	sc := &s.cfg.Scenario
	results, err := optimise.Run(ctx, sc, pop, s.cfg.Workers, s.bus)
	if err != nil {
		return nil, nil, err
	}
	s.log.Infof("optimised %d agents in %s", len(results), time.Since(started).Round(time.Millisecond))

	summary := report.NewSummary(sc.Name, sc.Scale)
	summary.RunID = s.runID
	now := time.Now()
	for _, res := range results {
		summary.Add(res)
		rep := report.NewAgentReport(res)
		if err := s.sink.RecordAgentResult(coremetrics.AgentResultEvent{
			RunID:          s.runID,
			AgentID:        res.AgentID,
			Days:           rep.Days,
			EnRouteEvents:  rep.EnRouteEvents,
			ActivityEvents: rep.ActivityEvents,
			TotalKWh:       rep.TotalKWh,
			LeakKWs:        rep.LeakKWs,
			Ineligible:     rep.Ineligible,
			Infeasible:     rep.Infeasible,
			Time:           now,
		}); err != nil {
			s.log.Warnf("metrics sink: %v", err)
		}
	}
	summary.Finalise()

	agents, ineligible, infeasible := summary.Agents()
	if err := s.sink.RecordRunSummary(coremetrics.RunSummaryEvent{
		RunID:      s.runID,
		Scenario:   sc.Name,
		Agents:     agents,
		Ineligible: ineligible,
		Infeasible: infeasible,
		TotalKWh:   summary.TotalCharge() / 3600,
		LeakKWs:    summary.Leak(),
		Duration:   time.Since(started),
		Time:       time.Now(),
	}); err != nil {
		s.log.Warnf("metrics sink: %v", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishEvents(s.runID, collectEvents(results)); err != nil {
			s.log.Warnf("publish events: %v", err)
		}
	}
	return summary, results, nil
}

// WriteOutputs writes the run artifacts to outDir.
func (s *Service) WriteOutputs(outDir string, results []*optimise.Result) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	specs := make([]scenario.Record, 0, len(results))
	rows := make([]report.AgentReport, 0, len(results))
	for _, res := range results {
		specs = append(specs, res.Caps.ToRecord())
		rows = append(rows, report.NewAgentReport(res))
	}

	if err := writeFile(filepath.Join(outDir, "specs.csv"), func(f *os.File) error {
		return export.WriteSpecsCSV(f, specs)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, "report.csv"), func(f *os.File) error {
		return export.WriteReportCSV(f, rows)
	}); err != nil {
		return err
	}
	if err := writeFile(filepath.Join(outDir, "events.csv"), func(f *os.File) error {
		return export.WriteEventsCSV(f, collectEvents(results))
	}); err != nil {
		return err
	}
	s.log.Infof("wrote outputs to %s", outDir)
	return nil
}

// DryRun resolves capabilities for every agent and writes the specs CSV.
func (s *Service) DryRun(pop *model.Population, outPath string) error {
	sc := &s.cfg.Scenario
	sampler := scenario.NewSampler(sc.Seed)
	rows := make([]scenario.Record, 0, pop.Len())
	for _, id := range pop.IDs() {
		caps := scenario.Resolve(sc, sampler, id, pop.People[id].Attributes)
		rows = append(rows, caps.ToRecord())
	}
	return writeFile(outPath, func(f *os.File) error {
		return export.WriteSpecsCSV(f, rows)
	})
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	return nil
}

func (s *Service) logProgress() {
	sub := s.bus.Subscribe()
	var lastDecile int
	for ev := range sub {
		progress, ok := ev.(optimise.Progress)
		if !ok {
			continue
		}
		if progress.Total == 0 {
			continue
		}
		decile := progress.Done * 10 / progress.Total
		if decile > lastDecile {
			lastDecile = decile
			s.log.Infof("optimising agents: %d/%d", progress.Done, progress.Total)
		}
	}
}

func collectEvents(results []*optimise.Result) []sim.Event {
	var events []sim.Event
	for _, res := range results {
		events = append(events, res.Record.Events()...)
	}
	return events
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create out file %q: %w", path, err)
	}
	defer f.Close()
	if err := write(f); err != nil {
		return fmt.Errorf("write %q: %w", path, err)
	}
	return f.Sync()
}
