package grid

import (
	"errors"
	"math"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		columns int
		wantErr bool
	}{
		{"square", 3, 3, false},
		{"single cell", 1, 1, false},
		{"wide", 2, 40, false},
		{"zero rows", 0, 3, true},
		{"zero columns", 3, 0, true},
		{"negative rows", -1, 3, true},
		{"negative columns", 3, -5, true},
		{"cell count overflows", math.MaxInt/2 + 1, 2, true},
		{"cell count wraps to zero", math.MaxInt, math.MaxInt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New(tt.rows, tt.columns)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidDimensions) {
					t.Fatalf("New(%d, %d) error = %v, want ErrInvalidDimensions", tt.rows, tt.columns, err)
				}
				if g != nil {
					t.Error("expected nil grid on error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New(%d, %d) unexpected error: %v", tt.rows, tt.columns, err)
			}
			if g.Rows() != tt.rows || g.Columns() != tt.columns {
				t.Errorf("dimensions = %dx%d, want %dx%d", g.Rows(), g.Columns(), tt.rows, tt.columns)
			}
		})
	}
}

func TestNew_AllCellsFree(t *testing.T) {
	g, err := New(4, 5)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	for r := 0; r < 4; r++ {
		for c := 0; c < 5; c++ {
			occ, err := g.IsOccupied(Cell{Row: r, Col: c})
			if err != nil {
				t.Fatalf("IsOccupied(%d,%d): %v", r, c, err)
			}
			if occ {
				t.Errorf("cell (%d,%d) occupied on a fresh grid", r, c)
			}
		}
	}
	if g.OccupiedCount() != 0 {
		t.Errorf("OccupiedCount = %d, want 0", g.OccupiedCount())
	}
}

func TestOccupy_ThenIsOccupied(t *testing.T) {
	g, _ := New(3, 3)
	cell := Cell{Row: 1, Col: 2}

	if err := g.Occupy(cell); err != nil {
		t.Fatalf("Occupy: %v", err)
	}
	occ, err := g.IsOccupied(cell)
	if err != nil {
		t.Fatalf("IsOccupied: %v", err)
	}
	if !occ {
		t.Error("cell should be occupied after Occupy")
	}

	// Neighbors stay free; a swapped row/col index would flag (2,1).
	if occ, _ := g.IsOccupied(Cell{Row: 2, Col: 1}); occ {
		t.Error("transposed cell (2,1) reported occupied")
	}
}

func TestOccupy_Idempotent(t *testing.T) {
	g, _ := New(2, 2)
	cell := Cell{Row: 0, Col: 1}
	for i := 0; i < 3; i++ {
		if err := g.Occupy(cell); err != nil {
			t.Fatalf("Occupy #%d: %v", i+1, err)
		}
	}
	if g.OccupiedCount() != 1 {
		t.Errorf("OccupiedCount = %d, want 1", g.OccupiedCount())
	}
}

func TestOccupy_Monotonic(t *testing.T) {
	g, _ := New(5, 5)
	occupied := []Cell{{0, 0}, {4, 4}, {2, 3}, {3, 2}}
	for i, c := range occupied {
		if err := g.Occupy(c); err != nil {
			t.Fatalf("Occupy(%s): %v", c, err)
		}
		// Every cell occupied so far must still be occupied.
		for _, prev := range occupied[:i+1] {
			if occ, _ := g.IsOccupied(prev); !occ {
				t.Errorf("after occupying %s, %s became free", c, prev)
			}
		}
	}
}

func TestOutOfBounds(t *testing.T) {
	g, _ := New(3, 4)
	cells := []Cell{
		{Row: -1, Col: 0},
		{Row: 0, Col: -1},
		{Row: 3, Col: 0},
		{Row: 0, Col: 4},
		{Row: 3, Col: 4},
	}

	for _, c := range cells {
		t.Run(c.String(), func(t *testing.T) {
			if g.Contains(c) {
				t.Errorf("Contains(%s) = true, want false", c)
			}
			if _, err := g.IsOccupied(c); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("IsOccupied(%s) error = %v, want ErrOutOfBounds", c, err)
			}
			if err := g.Occupy(c); !errors.Is(err, ErrOutOfBounds) {
				t.Errorf("Occupy(%s) error = %v, want ErrOutOfBounds", c, err)
			}
		})
	}

	if g.OccupiedCount() != 0 {
		t.Errorf("failed Occupy calls changed OccupiedCount to %d", g.OccupiedCount())
	}
}

func TestCellNeighbors(t *testing.T) {
	c := Cell{Row: 4, Col: 11}
	if got := c.Up(); got != (Cell{3, 11}) {
		t.Errorf("Up = %s", got)
	}
	if got := c.Down(); got != (Cell{5, 11}) {
		t.Errorf("Down = %s", got)
	}
	if got := c.Left(); got != (Cell{4, 10}) {
		t.Errorf("Left = %s", got)
	}
	if got := c.Right(); got != (Cell{4, 12}) {
		t.Errorf("Right = %s", got)
	}
	if c.String() != "(4,11)" {
		t.Errorf("String = %q, want (4,11)", c.String())
	}
}
