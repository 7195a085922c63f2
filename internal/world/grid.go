package world

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
)

// MaterialID identifies the surface occupying a cell. Valid ids are >= 1.
type MaterialID int

// Cell is an integer grid coordinate.
type Cell struct {
	Col int
	Row int
}

// String formats the cell in the "col,row" key style used by map files.
func (c Cell) String() string {
	return strconv.Itoa(c.Col) + "," + strconv.Itoa(c.Row)
}

// ParseCell parses a "col,row" key. Surrounding whitespace is ignored.
func ParseCell(key string) (Cell, error) {
	colStr, rowStr, ok := strings.Cut(key, ",")
	if !ok {
		return Cell{}, fmt.Errorf("cell key %q: missing comma", key)
	}
	col, err := strconv.Atoi(strings.TrimSpace(colStr))
	if err != nil {
		return Cell{}, fmt.Errorf("cell key %q: bad column: %w", key, err)
	}
	row, err := strconv.Atoi(strings.TrimSpace(rowStr))
	if err != nil {
		return Cell{}, fmt.Errorf("cell key %q: bad row: %w", key, err)
	}
	return Cell{Col: col, Row: row}, nil
}

// Grid is a sparse tile map. It is immutable once built; every method is
// safe for concurrent readers and a nil *Grid behaves as an empty map.
type Grid struct {
	tiles    map[Cell]MaterialID
	min, max Cell
}

// NewGrid copies tiles into a new Grid, dropping ids below 1.
func NewGrid(tiles map[Cell]MaterialID) *Grid {
	g := &Grid{tiles: make(map[Cell]MaterialID, len(tiles))}
	first := true
	for cell, id := range tiles {
		if id < 1 {
			continue
		}
		g.tiles[cell] = id
		if first {
			g.min, g.max = cell, cell
			first = false
			continue
		}
		g.min.Col = min(g.min.Col, cell.Col)
		g.min.Row = min(g.min.Row, cell.Row)
		g.max.Col = max(g.max.Col, cell.Col)
		g.max.Row = max(g.max.Row, cell.Row)
	}
	return g
}

// At returns the material at (col, row) and whether the cell is occupied.
func (g *Grid) At(col, row int) (MaterialID, bool) {
	if g == nil {
		return 0, false
	}
	id, ok := g.tiles[Cell{Col: col, Row: row}]
	return id, ok
}

// Solid reports whether the world point (x, z) lies inside an occupied cell.
func (g *Grid) Solid(x, z float64) bool {
	_, ok := g.At(int(math.Floor(x)), int(math.Floor(z)))
	return ok
}

// Len returns the number of occupied cells.
func (g *Grid) Len() int {
	if g == nil {
		return 0
	}
	return len(g.tiles)
}

// Bounds returns the inclusive corner cells of the occupied area.
// ok is false for an empty grid.
func (g *Grid) Bounds() (minCell, maxCell Cell, ok bool) {
	if g.Len() == 0 {
		return Cell{}, Cell{}, false
	}
	return g.min, g.max, true
}

// Cells returns the occupied cells in row-major order.
func (g *Grid) Cells() []Cell {
	if g == nil {
		return nil
	}
	cells := make([]Cell, 0, len(g.tiles))
	for cell := range g.tiles {
		cells = append(cells, cell)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Row != cells[j].Row {
			return cells[i].Row < cells[j].Row
		}
		return cells[i].Col < cells[j].Col
	})
	return cells
}

// GridStore owns the current grid. Map loading publishes a replacement with
// Swap; readers call Load once per frame and keep that pointer for the frame.
type GridStore struct {
	current atomic.Pointer[Grid]
}

// NewGridStore creates a store holding g.
func NewGridStore(g *Grid) *GridStore {
	s := &GridStore{}
	s.current.Store(g)
	return s
}

// Load returns the grid visible to the current frame.
func (s *GridStore) Load() *Grid {
	return s.current.Load()
}

// Swap publishes g and returns the previous grid.
func (s *GridStore) Swap(g *Grid) *Grid {
	return s.current.Swap(g)
}
