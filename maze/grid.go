/*
Package maze provides the rectangular wall grid behind every generated layout.

A Grid holds one Cell per (x, z) position. Each cell carries four wall flags
indexed by Direction, and every write through SetWall is mirrored onto the
neighbor's opposite flag so the two sides of an interior edge always agree.

The Generator drives a Grid through a fixed number of randomized wall flips,
keeping a flip only while every cell stays reachable from (0, 0), then seals
the border and clears the configured entrance and exit.
*/
package maze

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

const (
	// MaxDimension bounds the width and depth of a grid.
	MaxDimension = 64
)

var (
	ErrInvalidDimensions = errors.New("invalid grid dimensions")
)

// Grid represents a rectangular maze of cells, indexed [x][z].
type Grid struct {
	width int      // Number of cells along x
	depth int      // Number of cells along z
	cells [][]Cell // 2D array of cells forming the maze
}

// NewGrid creates a grid of the given dimensions with every wall open.
func NewGrid(width, depth int) (*Grid, error) {
	if min(width, depth) <= 0 || max(width, depth) > MaxDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, depth)
	}

	cells := make([][]Cell, width)
	for x := range cells {
		cells[x] = make([]Cell, depth)
		for z := range cells[x] {
			cells[x][z] = Cell{X: x, Z: z}
		}
	}

	return &Grid{
		width: width,
		depth: depth,
		cells: cells,
	}, nil
}

// Width returns the number of cells along x.
func (g *Grid) Width() int {
	return g.width
}

// Depth returns the number of cells along z.
func (g *Grid) Depth() int {
	return g.depth
}

// InBounds checks if a position lies inside the grid.
func (g *Grid) InBounds(x, z int) bool {
	return x >= 0 && x < g.width && z >= 0 && z < g.depth
}

// Neighbor returns the position adjacent to (x, z) in direction d.
// The boolean is false when that position is outside the grid.
func (g *Grid) Neighbor(x, z int, d Direction) (Position, bool) {
	dx, dz := d.Delta()
	n := Position{X: x + dx, Z: z + dz}
	return n, g.InBounds(n.X, n.Z)
}

// Wall reports whether the wall on side d of cell (x, z) is set.
// It panics on coordinates outside the grid or an invalid direction.
func (g *Grid) Wall(x, z int, d Direction) bool {
	g.mustContain(x, z, d)
	return g.cells[x][z].Walls[d]
}

// SetWall sets the wall on side d of cell (x, z) and the matching wall of the
// neighbor in that direction, if there is one.
// It panics on coordinates outside the grid or an invalid direction.
func (g *Grid) SetWall(x, z int, d Direction, value bool) {
	g.mustContain(x, z, d)
	g.cells[x][z].Walls[d] = value

	if n, ok := g.Neighbor(x, z, d); ok {
		g.cells[n.X][n.Z].Walls[d.Opposite()] = value
	}
}

// Cell returns a copy of the cell at (x, z).
func (g *Grid) Cell(x, z int) Cell {
	g.mustInBounds(x, z)
	return g.cells[x][z]
}

// Cells returns copies of all cells, x-major then z.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, 0, g.width*g.depth)
	for x := 0; x < g.width; x++ {
		out = append(out, g.cells[x]...)
	}
	return out
}

// IsReachableAll reports whether every cell can be reached from (0, 0)
// by crossing only open walls.
func (g *Grid) IsReachableAll() bool {
	visited := mapset.New[Position]()
	stack := []Position{{X: 0, Z: 0}}

	for len(stack) > 0 {
		pos := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited.Has(pos) {
			continue
		}
		visited.Put(pos)

		cell := g.cells[pos.X][pos.Z]
		for _, d := range AllDirections() {
			if cell.Walls[d] {
				continue
			}
			if n, ok := g.Neighbor(pos.X, pos.Z, d); ok && !visited.Has(n) {
				stack = append(stack, n)
			}
		}
	}

	return visited.Size() == g.width*g.depth
}

// SetBorderWalls closes every wall that faces the outside of the grid.
// Openings must be cleared afterwards with SetWall.
func (g *Grid) SetBorderWalls() {
	for x := 0; x < g.width; x++ {
		g.cells[x][0].Walls[NegZ] = true
		g.cells[x][g.depth-1].Walls[PosZ] = true
	}
	for z := 0; z < g.depth; z++ {
		g.cells[0][z].Walls[NegX] = true
		g.cells[g.width-1][z].Walls[PosX] = true
	}
}

// IsExterior reports whether side d of cell (x, z) faces the outside of the grid.
func (g *Grid) IsExterior(x, z int, d Direction) bool {
	if !g.InBounds(x, z) || !d.IsValid() {
		return false
	}
	_, ok := g.Neighbor(x, z, d)
	return !ok
}

func (g *Grid) mustInBounds(x, z int) {
	if !g.InBounds(x, z) {
		panic(fmt.Sprintf("maze: cell (%d,%d) outside %dx%d grid", x, z, g.width, g.depth))
	}
}

func (g *Grid) mustContain(x, z int, d Direction) {
	g.mustInBounds(x, z)
	if !d.IsValid() {
		panic(fmt.Sprintf("maze: invalid direction %d", d))
	}
}

// String provides a textual representation of the grid, z=0 on top.
func (g *Grid) String() string {
	var b strings.Builder

	// Top boundary
	b.WriteString("+")
	for x := 0; x < g.width; x++ {
		if g.cells[x][0].Walls[NegZ] {
			b.WriteString("---+")
		} else {
			b.WriteString("   +")
		}
	}
	b.WriteString("\n")

	for z := 0; z < g.depth; z++ {
		// Cell rows
		if g.cells[0][z].Walls[NegX] {
			b.WriteString("|")
		} else {
			b.WriteString(" ")
		}
		for x := 0; x < g.width; x++ {
			if g.cells[x][z].Walls[PosX] {
				b.WriteString("   |")
			} else {
				b.WriteString("    ")
			}
		}
		b.WriteString("\n")

		// Wall rows
		b.WriteString("+")
		for x := 0; x < g.width; x++ {
			if g.cells[x][z].Walls[PosZ] {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
