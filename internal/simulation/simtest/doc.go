// Package simtest is a scenario harness for simulation tests: a Scenario
// describes the grid, the starting cells and the number of ticks, and
// Runner.Run records every tick so the Assert helpers can check
// invariants across the whole run. Only test code imports it.
//
// Usage:
//
//	func TestTrailsNeverCross(t *testing.T) {
//	    r := simtest.NewRunner(t)
//	    result := r.Run(simtest.Scenario{
//	        Name:    "trails",
//	        Rows:    10,
//	        Columns: 10,
//	        Seed:    42,
//	        Starts:  []grid.Cell{{Row: 1, Col: 1}, {Row: 8, Col: 8}},
//	        Ticks:   200,
//	    })
//	    simtest.AssertNoSharedCells(t, result)
//	}
package simtest
