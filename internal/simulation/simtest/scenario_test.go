package simtest_test

import (
	"testing"

	"github.com/DauteRR/Random-Walks/internal/grid"
	"github.com/DauteRR/Random-Walks/internal/simulation"
	"github.com/DauteRR/Random-Walks/internal/simulation/simtest"
)

// TestSelfAvoidingWalks runs many seeded walks with collision avoidance
// and checks the invariants that must hold on every tick.
//
// Expected: no reversals, no cell visited twice across all walks, every
// move inside the grid and to a direct neighbor, termination is sticky.
func TestSelfAvoidingWalks(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		r := simtest.NewRunner(t)
		result := r.Run(simtest.Scenario{
			Name:        "self-avoiding",
			Rows:        12,
			Columns:     12,
			Seed:        seed,
			Starts:      []grid.Cell{{Row: 0, Col: 0}, {Row: 11, Col: 11}, {Row: 6, Col: 6}},
			RandomWalks: 4,
			Ticks:       300,
		})

		simtest.AssertNoReversal(t, result)
		simtest.AssertNoSharedCells(t, result)
		simtest.AssertCellsInGrid(t, result)
		simtest.AssertUnitMoves(t, result)
		simtest.AssertTerminationSticky(t, result)
		simtest.AssertStepCount(t, result, 300)

		// 300 ticks on 144 cells: every walk must have run out of room.
		if !result.Sim.Done() {
			t.Errorf("seed %d: %d walks still active after 300 ticks", seed, result.Sim.Active())
		}
	}
}

// TestFreeWalksLeaveTheGrid runs walks with collisions allowed on a tiny
// grid. Walks are free to overlap and eventually step past the inclusive
// boundary, which finishes them on the following tick.
func TestFreeWalksLeaveTheGrid(t *testing.T) {
	r := simtest.NewRunner(t)
	result := r.Run(simtest.Scenario{
		Name:            "free-walks",
		Rows:            2,
		Columns:         2,
		AllowCollisions: true,
		Seed:            99,
		Starts:          []grid.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 0}, {Row: 1, Col: 1}},
		Ticks:           2000,
	})

	if result.Admitted != 3 {
		t.Fatalf("Admitted = %d, want 3 (shared starts are allowed with collisions)", result.Admitted)
	}
	simtest.AssertUnitMoves(t, result)
	simtest.AssertTerminationSticky(t, result)
	simtest.AssertStepCount(t, result, 2000)

	if result.Sim.Occupied() != 0 {
		t.Errorf("Occupied = %d, want 0 with collisions allowed", result.Sim.Occupied())
	}

	// A walk finishes only once it stands outside [0,rows]x[0,cols].
	for i, ws := range result.Sim.Walks() {
		if !ws.Finished {
			continue
		}
		c := ws.Current
		outside := c.Row < 0 || c.Col < 0 || c.Row > 2 || c.Col > 2
		if !outside {
			t.Errorf("walk %d finished inside the inclusive bound at %s", i, c)
		}
	}
}

// TestIntraTickPriority checks that within one tick an earlier walk claims
// a contested cell before a later walk evaluates its candidates.
//
// Setup: 3x1 column grid, walks at the top and bottom, the middle cell free.
// Expected: walk 0 takes the middle, walk 1 dead-ends in the same tick.
func TestIntraTickPriority(t *testing.T) {
	var positionsBefore []grid.Cell

	r := simtest.NewRunner(t)
	result := r.Run(simtest.Scenario{
		Name:    "intra-tick",
		Rows:    3,
		Columns: 1,
		Seed:    5,
		Starts:  []grid.Cell{{Row: 0, Col: 0}, {Row: 2, Col: 0}},
		Ticks:   1,
		BeforeTick: func(i int, s *simulation.Simulation) {
			positionsBefore = append(positionsBefore, s.Walks()[1].Current)
		},
	})

	if len(positionsBefore) != 1 || positionsBefore[0] != (grid.Cell{Row: 2, Col: 0}) {
		t.Fatalf("BeforeTick saw %v, want walk 1 at (2,0)", positionsBefore)
	}

	cells := result.Ticks[0].Cells
	if cells[0] != (grid.Cell{Row: 1, Col: 0}) {
		t.Errorf("walk 0 moved to %s, want (1,0)", cells[0])
	}
	if cells[1] != simulation.FinishedMarker {
		t.Errorf("walk 1 reported %s, want FinishedMarker", cells[1])
	}
	if !result.Moved(0, 0) || result.Moved(0, 1) {
		t.Error("Moved does not match the tick output")
	}
}

// TestFinishedSimulationKeepsTicking checks that ticking past the end of
// every walk yields only sentinels and still advances the step counter.
func TestFinishedSimulationKeepsTicking(t *testing.T) {
	r := simtest.NewRunner(t)
	result := r.Run(simtest.Scenario{
		Name:    "exhausted",
		Rows:    1,
		Columns: 2,
		Seed:    1,
		Starts:  []grid.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}},
		Ticks:   50,
	})

	for _, tr := range result.Ticks {
		for i, c := range tr.Cells {
			if c != simulation.FinishedMarker {
				t.Fatalf("tick %d: walk %d reported %s, want FinishedMarker", tr.Index, i, c)
			}
		}
	}
	simtest.AssertStepCount(t, result, 50)
}
