package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/DauteRR/Random-Walks/internal/grid"
	"github.com/DauteRR/Random-Walks/internal/walk"
)

// MinDensity is the smallest point density that yields a usable grid.
const MinDensity = 4

// ErrInvalidDensity is returned by DimensionsForDensity for densities
// below MinDensity.
var ErrInvalidDensity = errors.New("invalid point density")

// FinishedMarker stands in for a walk's cell in Tick output once that walk
// has finished. No live walk can ever report it: moves are axis-aligned, so
// reaching (-1,-1) would require starting from a cell already outside the
// grid on both axes.
var FinishedMarker = grid.Cell{Row: -1, Col: -1}

// DimensionsForDensity converts a point density into square grid
// dimensions: side = floor(sqrt(density)) - 1.
func DimensionsForDensity(density int) (rows, columns int, err error) {
	if density < MinDensity {
		return 0, 0, fmt.Errorf("density %d (must be >= %d): %w", density, MinDensity, ErrInvalidDensity)
	}
	side := int(math.Sqrt(float64(density))) - 1
	return side, side, nil
}

// NewRand returns the generator shared by every walk of a simulation.
// A zero seed picks a time-based one.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// WalkState is a read-only snapshot of one walk.
type WalkState struct {
	Index       int       `json:"index"`
	Current     grid.Cell `json:"current"`
	Previous    grid.Cell `json:"previous"`
	HasPrevious bool      `json:"has_previous"`
	Finished    bool      `json:"finished"`
}

// Simulation owns the occupancy grid and the walks that share it.
// It is not safe for concurrent use.
type Simulation struct {
	grid            *grid.Grid
	walks           []*walk.Walk
	allowCollisions bool
	rng             walk.Rand
	steps           int
}

// New creates an empty simulation over a rows x columns grid. A nil rng is
// replaced with a time-seeded generator.
func New(rows, columns int, allowCollisions bool, rng walk.Rand) (*Simulation, error) {
	g, err := grid.New(rows, columns)
	if err != nil {
		return nil, fmt.Errorf("creating grid: %w", err)
	}
	if rng == nil {
		rng = NewRand(0)
	}
	return &Simulation{
		grid:            g,
		walks:           make([]*walk.Walk, 0),
		allowCollisions: allowCollisions,
		rng:             rng,
	}, nil
}

// AddWalk appends a walk starting at start. It returns false without error
// when start is already occupied; this is the only admission check.
func (s *Simulation) AddWalk(start grid.Cell) (bool, error) {
	occupied, err := s.grid.IsOccupied(start)
	if err != nil {
		return false, fmt.Errorf("adding walk: %w", err)
	}
	if occupied {
		return false, nil
	}

	w, err := walk.New(start, s.grid.Rows(), s.grid.Columns(), s.allowCollisions, s.grid)
	if err != nil {
		return false, fmt.Errorf("adding walk: %w", err)
	}
	s.walks = append(s.walks, w)
	return true, nil
}

// AddRandomWalks tries n uniformly random starting cells and returns how
// many were admitted. Draws that land on occupied cells are dropped, not
// retried.
func (s *Simulation) AddRandomWalks(n int) int {
	added := 0
	for i := 0; i < n; i++ {
		start := grid.Cell{
			Row: s.rng.Intn(s.grid.Rows()),
			Col: s.rng.Intn(s.grid.Columns()),
		}
		// In-grid by construction, so AddWalk cannot fail here.
		if ok, _ := s.AddWalk(start); ok {
			added++
		}
	}
	return added
}

// Tick steps every walk once in insertion order and returns the new cell
// of each, or FinishedMarker for walks that are finished. The result has
// one entry per walk.
func (s *Simulation) Tick() []grid.Cell {
	cells := make([]grid.Cell, len(s.walks))
	for i, w := range s.walks {
		next, ok := w.Step(s.grid, s.rng)
		if !ok {
			next = FinishedMarker
		}
		cells[i] = next
	}
	s.steps++
	return cells
}

// Steps returns the number of Tick calls so far.
func (s *Simulation) Steps() int { return s.steps }

// Len returns the number of walks.
func (s *Simulation) Len() int { return len(s.walks) }

// Active returns the number of walks that have not finished.
func (s *Simulation) Active() int {
	n := 0
	for _, w := range s.walks {
		if !w.Finished() {
			n++
		}
	}
	return n
}

// Done reports whether no walk can move any more. A simulation without
// walks is done.
func (s *Simulation) Done() bool { return s.Active() == 0 }

// Walks returns a snapshot of every walk in insertion order.
func (s *Simulation) Walks() []WalkState {
	states := make([]WalkState, len(s.walks))
	for i, w := range s.walks {
		prev, ok := w.Previous()
		states[i] = WalkState{
			Index:       i,
			Current:     w.Current(),
			Previous:    prev,
			HasPrevious: ok,
			Finished:    w.Finished(),
		}
	}
	return states
}

// Rows returns the grid's row count.
func (s *Simulation) Rows() int { return s.grid.Rows() }

// Columns returns the grid's column count.
func (s *Simulation) Columns() int { return s.grid.Columns() }

// AllowCollisions reports the policy fixed at construction.
func (s *Simulation) AllowCollisions() bool { return s.allowCollisions }

// Occupied returns the number of occupied grid cells. It stays zero when
// collisions are allowed.
func (s *Simulation) Occupied() int { return s.grid.OccupiedCount() }
