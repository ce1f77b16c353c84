package simtest

import (
	"testing"

	"github.com/DauteRR/Random-Walks/internal/simulation"
)

// Runner executes scenarios against a real Simulation, failing the test on
// any setup error.
type Runner struct {
	t *testing.T
}

// NewRunner creates a scenario runner bound to t.
func NewRunner(t *testing.T) *Runner {
	t.Helper()
	return &Runner{t: t}
}

// Run executes the scenario and returns the collected results.
func (r *Runner) Run(scenario Scenario) SimulationResult {
	r.t.Helper()

	rng := scenario.Rand
	if rng == nil {
		seed := scenario.Seed
		if seed == 0 {
			seed = 1
		}
		rng = simulation.NewRand(seed)
	}

	sim, err := simulation.New(scenario.Rows, scenario.Columns, scenario.AllowCollisions, rng)
	if err != nil {
		r.t.Fatalf("scenario %q: New: %v", scenario.Name, err)
	}

	// Phase 1: place walks.
	admitted := 0
	for _, start := range scenario.Starts {
		ok, err := sim.AddWalk(start)
		if err != nil {
			r.t.Fatalf("scenario %q: AddWalk(%s): %v", scenario.Name, start, err)
		}
		if ok {
			admitted++
		}
	}
	if scenario.RandomWalks > 0 {
		admitted += sim.AddRandomWalks(scenario.RandomWalks)
	}

	result := SimulationResult{
		Admitted: admitted,
		Initial:  sim.Walks(),
		Ticks:    make([]TickResult, 0, scenario.Ticks),
		Sim:      sim,
	}

	// Phase 2: tick.
	for i := 0; i < scenario.Ticks; i++ {
		if scenario.BeforeTick != nil {
			scenario.BeforeTick(i, sim)
		}
		cells := sim.Tick()
		if len(cells) != sim.Len() {
			r.t.Fatalf("scenario %q: tick %d returned %d cells for %d walks", scenario.Name, i, len(cells), sim.Len())
		}
		result.Ticks = append(result.Ticks, TickResult{
			Index: i,
			Cells: cells,
			Walks: sim.Walks(),
		})
	}

	return result
}
