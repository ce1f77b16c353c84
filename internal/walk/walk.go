// Package walk implements a single random walker on a bounded grid.
//
// A Walk never holds a reference to the occupancy grid. The grid is
// borrowed for the duration of each call that needs it, so ownership stays
// with the simulation that created both.
package walk

import (
	"errors"
	"fmt"

	"github.com/DauteRR/Random-Walks/internal/grid"
)

// ErrNilGrid is returned by New when collisions are disallowed and no grid
// is supplied to track occupancy.
var ErrNilGrid = errors.New("walk needs a grid when collisions are disallowed")

// Rand is the source of randomness used to pick among candidate moves.
// *math/rand.Rand satisfies it.
type Rand interface {
	// Intn returns a uniform integer in [0, n). n is always > 0.
	Intn(n int) int
}

// Walk is one random walker. Its state machine is Active -> Finished and
// the transition is one-way.
type Walk struct {
	rows            int
	columns         int
	current         grid.Cell
	previous        grid.Cell
	hasPrevious     bool
	finished        bool
	allowCollisions bool
}

// New creates a walk at start. When collisions are disallowed the start
// cell is occupied on g immediately and g must be non-nil; with collisions
// allowed g may be nil.
func New(start grid.Cell, rows, columns int, allowCollisions bool, g *grid.Grid) (*Walk, error) {
	if !allowCollisions && g == nil {
		return nil, ErrNilGrid
	}
	if start.Row < 0 || start.Row >= rows || start.Col < 0 || start.Col >= columns {
		return nil, fmt.Errorf("walk start %s in %dx%d grid: %w", start, rows, columns, grid.ErrOutOfBounds)
	}

	w := &Walk{
		rows:            rows,
		columns:         columns,
		current:         start,
		allowCollisions: allowCollisions,
	}

	if !allowCollisions {
		if err := g.Occupy(start); err != nil {
			return nil, fmt.Errorf("occupying walk start: %w", err)
		}
	}

	return w, nil
}

// Current returns the walk's latest position.
func (w *Walk) Current() grid.Cell { return w.current }

// Previous returns the position before the latest move. ok is false until
// the walk has moved once.
func (w *Walk) Previous() (cell grid.Cell, ok bool) { return w.previous, w.hasPrevious }

// Finished reports whether the walk has terminated.
func (w *Walk) Finished() bool { return w.finished }

// CheckBoundary finishes the walk once its position leaves
// [0,rows]x[0,columns]. The upper bound is inclusive: a walk sitting one
// cell past the last row or column is still live.
func (w *Walk) CheckBoundary() {
	c := w.current
	if c.Row < 0 || c.Col < 0 || c.Row > w.rows || c.Col > w.columns {
		w.finished = true
	}
}

// CandidateMoves returns the legal neighbors of the current cell in the
// fixed order up, down, left, right.
//
// With collisions allowed every neighbor is a candidate, including cells
// outside the grid, and g is not consulted. With collisions disallowed a
// neighbor must be inside the grid, free on g, and not the previous cell;
// g must then be the grid the walk was created on.
func (w *Walk) CandidateMoves(g *grid.Grid) []grid.Cell {
	neighbors := [4]grid.Cell{
		w.current.Up(),
		w.current.Down(),
		w.current.Left(),
		w.current.Right(),
	}

	candidates := make([]grid.Cell, 0, len(neighbors))
	for _, n := range neighbors {
		if w.allowCollisions || w.eligible(n, g) {
			candidates = append(candidates, n)
		}
	}
	return candidates
}

func (w *Walk) eligible(n grid.Cell, g *grid.Grid) bool {
	if n.Row < 0 || n.Row > w.rows-1 || n.Col < 0 || n.Col > w.columns-1 {
		return false
	}
	occupied, err := g.IsOccupied(n)
	if err != nil || occupied {
		return false
	}
	return !w.hasPrevious || n != w.previous
}

// Step advances the walk by one cell. It returns false when the walk is
// finished, either because it had already left the grid or because no
// candidate move remains.
func (w *Walk) Step(g *grid.Grid, rng Rand) (grid.Cell, bool) {
	w.CheckBoundary()
	if w.finished {
		return grid.Cell{}, false
	}

	candidates := w.CandidateMoves(g)
	if len(candidates) == 0 {
		w.finished = true
		return grid.Cell{}, false
	}

	next := candidates[rng.Intn(len(candidates))]
	w.previous, w.hasPrevious = w.current, true
	w.current = next

	if !w.allowCollisions {
		// Candidates were bounds-checked above, so this cannot fail.
		_ = g.Occupy(next)
	}

	return next, true
}
