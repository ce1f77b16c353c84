package simtest

import (
	"testing"

	"github.com/DauteRR/Random-Walks/internal/grid"
	"github.com/DauteRR/Random-Walks/internal/simulation"
)

// AssertNoReversal asserts that no walk ever moved back into the cell it
// had just left.
func AssertNoReversal(t *testing.T, result SimulationResult) {
	t.Helper()
	for ti, tr := range result.Ticks {
		before := result.stateBefore(ti)
		for i, cell := range tr.Cells {
			if cell == simulation.FinishedMarker || i >= len(before) {
				continue
			}
			if before[i].HasPrevious && cell == before[i].Previous {
				t.Errorf("AssertNoReversal: tick %d: walk %d reversed into %s", ti, i, cell)
			}
		}
	}
}

// AssertTerminationSticky asserts that once a walk reports FinishedMarker
// it keeps reporting it and its snapshot stays finished.
func AssertTerminationSticky(t *testing.T, result SimulationResult) {
	t.Helper()
	finishedAt := make(map[int]int)
	for ti, tr := range result.Ticks {
		for i, cell := range tr.Cells {
			if at, done := finishedAt[i]; done {
				if cell != simulation.FinishedMarker {
					t.Errorf("AssertTerminationSticky: walk %d finished at tick %d but moved to %s at tick %d", i, at, cell, ti)
				}
				if !tr.Walks[i].Finished {
					t.Errorf("AssertTerminationSticky: walk %d snapshot not finished at tick %d", i, ti)
				}
				continue
			}
			if cell == simulation.FinishedMarker {
				finishedAt[i] = ti
			}
		}
	}
}

// AssertNoSharedCells asserts that no cell was ever visited twice, by the
// same walk or by different walks, counting starting cells.
func AssertNoSharedCells(t *testing.T, result SimulationResult) {
	t.Helper()
	owner := make(map[grid.Cell]int)
	for _, ws := range result.Initial {
		if prev, dup := owner[ws.Current]; dup {
			t.Errorf("AssertNoSharedCells: walks %d and %d both start on %s", prev, ws.Index, ws.Current)
			continue
		}
		owner[ws.Current] = ws.Index
	}
	for ti, tr := range result.Ticks {
		for i, cell := range tr.Cells {
			if cell == simulation.FinishedMarker {
				continue
			}
			if prev, dup := owner[cell]; dup {
				t.Errorf("AssertNoSharedCells: tick %d: walk %d entered %s already visited by walk %d", ti, i, cell, prev)
				continue
			}
			owner[cell] = i
		}
	}
}

// AssertCellsInGrid asserts that every reported move lies inside the grid.
func AssertCellsInGrid(t *testing.T, result SimulationResult) {
	t.Helper()
	rows, cols := result.Sim.Rows(), result.Sim.Columns()
	for ti, tr := range result.Ticks {
		for i, c := range tr.Cells {
			if c == simulation.FinishedMarker {
				continue
			}
			if c.Row < 0 || c.Row >= rows || c.Col < 0 || c.Col >= cols {
				t.Errorf("AssertCellsInGrid: tick %d: walk %d at %s outside %dx%d", ti, i, c, rows, cols)
			}
		}
	}
}

// AssertUnitMoves asserts that every move is to an axis-aligned neighbor
// of the walk's previous position.
func AssertUnitMoves(t *testing.T, result SimulationResult) {
	t.Helper()
	for ti, tr := range result.Ticks {
		before := result.stateBefore(ti)
		for i, c := range tr.Cells {
			if c == simulation.FinishedMarker || i >= len(before) {
				continue
			}
			from := before[i].Current
			if abs(c.Row-from.Row)+abs(c.Col-from.Col) != 1 {
				t.Errorf("AssertUnitMoves: tick %d: walk %d jumped from %s to %s", ti, i, from, c)
			}
		}
	}
}

// AssertStepCount asserts the simulation's tick counter.
func AssertStepCount(t *testing.T, result SimulationResult, want int) {
	t.Helper()
	if got := result.Sim.Steps(); got != want {
		t.Errorf("AssertStepCount: Steps() = %d, want %d", got, want)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
