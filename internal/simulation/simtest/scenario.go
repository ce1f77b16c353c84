package simtest

import (
	"github.com/DauteRR/Random-Walks/internal/grid"
	"github.com/DauteRR/Random-Walks/internal/simulation"
	"github.com/DauteRR/Random-Walks/internal/walk"
)

// Scenario defines a complete simulation experiment.
type Scenario struct {
	Name            string
	Rows            int
	Columns         int
	AllowCollisions bool
	Starts          []grid.Cell // added in order, before any random walks
	RandomWalks     int         // random placements after Starts
	Ticks           int

	// Seed feeds the shared generator. Ignored when Rand is set.
	Seed int64

	// Rand, when non-nil, replaces the seeded generator. Use this for
	// scenarios that need to script each choice.
	Rand walk.Rand

	// BeforeTick, when non-nil, is called before each tick executes.
	BeforeTick func(tickIndex int, s *simulation.Simulation)
}

// TickResult captures the outcome of a single tick.
type TickResult struct {
	Index int
	Cells []grid.Cell
	Walks []simulation.WalkState // snapshot after the tick
}

// SimulationResult captures the initial placement, every tick, and the
// final simulation.
type SimulationResult struct {
	Admitted int
	Initial  []simulation.WalkState
	Ticks    []TickResult
	Sim      *simulation.Simulation
}

// Moved reports whether walk i produced a cell in tick t.
func (r SimulationResult) Moved(t, i int) bool {
	return r.Ticks[t].Cells[i] != simulation.FinishedMarker
}

// stateBefore returns the walk snapshot that tick t started from.
func (r SimulationResult) stateBefore(t int) []simulation.WalkState {
	if t == 0 {
		return r.Initial
	}
	return r.Ticks[t-1].Walks
}
