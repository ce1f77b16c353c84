// Package grid provides the shared occupancy map that random walks consult
// when collision avoidance is enabled.
//
// A Grid is a passive structure: it has no internal locking and relies on
// its owner to serialize access.
package grid

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidDimensions is returned when a grid is built with a
	// non-positive number of rows or columns.
	ErrInvalidDimensions = errors.New("invalid grid dimensions")

	// ErrOutOfBounds is returned when a cell outside [0,rows)x[0,columns)
	// is read or written.
	ErrOutOfBounds = errors.New("cell out of bounds")
)

// Cell is a (row, column) coordinate. Cells produced by walks may lie
// outside the grid; only the Grid methods enforce bounds.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Up returns the neighbor one row above c.
func (c Cell) Up() Cell { return Cell{Row: c.Row - 1, Col: c.Col} }

// Down returns the neighbor one row below c.
func (c Cell) Down() Cell { return Cell{Row: c.Row + 1, Col: c.Col} }

// Left returns the neighbor one column to the left of c.
func (c Cell) Left() Cell { return Cell{Row: c.Row, Col: c.Col - 1} }

// Right returns the neighbor one column to the right of c.
func (c Cell) Right() Cell { return Cell{Row: c.Row, Col: c.Col + 1} }

// String formats the cell as "(row,col)".
func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Grid is a rows x columns occupancy table. Once a cell is occupied it
// stays occupied for the lifetime of the grid.
type Grid struct {
	rows     int
	columns  int
	occupied []bool // row-major
	count    int
}

// New creates a grid with every cell free.
func New(rows, columns int) (*Grid, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("rows=%d, columns=%d (each must be >= 1): %w", rows, columns, ErrInvalidDimensions)
	}
	if rows > math.MaxInt/columns {
		return nil, fmt.Errorf("rows=%d, columns=%d (too many cells): %w", rows, columns, ErrInvalidDimensions)
	}
	return &Grid{
		rows:     rows,
		columns:  columns,
		occupied: make([]bool, rows*columns),
	}, nil
}

// Rows returns the number of rows fixed at construction.
func (g *Grid) Rows() int { return g.rows }

// Columns returns the number of columns fixed at construction.
func (g *Grid) Columns() int { return g.columns }

// Contains reports whether c lies inside [0,rows)x[0,columns).
func (g *Grid) Contains(c Cell) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.columns
}

// IsOccupied reports whether c has been occupied.
func (g *Grid) IsOccupied(c Cell) (bool, error) {
	i, err := g.index(c)
	if err != nil {
		return false, err
	}
	return g.occupied[i], nil
}

// Occupy marks c as occupied. Occupying an already occupied cell is a no-op.
func (g *Grid) Occupy(c Cell) error {
	i, err := g.index(c)
	if err != nil {
		return err
	}
	if !g.occupied[i] {
		g.occupied[i] = true
		g.count++
	}
	return nil
}

// OccupiedCount returns the number of occupied cells.
func (g *Grid) OccupiedCount() int { return g.count }

func (g *Grid) index(c Cell) (int, error) {
	if !g.Contains(c) {
		return 0, fmt.Errorf("cell %s in %dx%d grid: %w", c, g.rows, g.columns, ErrOutOfBounds)
	}
	return c.Row*g.columns + c.Col, nil
}
