package optimise

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/arup-group/batsim/core/model"
	"github.com/arup-group/batsim/core/scenario"
	"github.com/arup-group/batsim/internal/eventbus"
)

// Progress is published on the event bus as agents complete.
type Progress struct {
	AgentID string
	Done    int
	Total   int
}

// Run optimises every agent of the population in parallel. Agents are
// independent: each worker resolves capabilities and optimises from the
// shared read-only scenario. Results come back indexed by sorted agent id so
// downstream aggregation is deterministic regardless of scheduling.
func Run(ctx context.Context, sc *scenario.Scenario, pop *model.Population, workers int, bus eventbus.EventBus) ([]*Result, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sampler := scenario.NewSampler(sc.Seed)
	ids := pop.IDs()
	results := make([]*Result, len(ids))

	done := make(chan string, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			person := pop.People[id]
			caps := scenario.Resolve(sc, sampler, id, person.Attributes)
			results[i] = OptimiseAgent(sc, caps, person)
			done <- id
			return nil
		})
	}

	if bus != nil {
		go func() {
			count := 0
			for id := range done {
				count++
				bus.Publish(Progress{AgentID: id, Done: count, Total: len(ids)})
			}
		}()
	}

	if err := g.Wait(); err != nil {
		close(done)
		return nil, err
	}
	close(done)
	return results, nil
}
