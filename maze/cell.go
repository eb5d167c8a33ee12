package maze

// Position identifies a cell in the grid.
type Position struct {
	X int // X index of the cell
	Z int // Z index of the cell
}

// Cell represents a single cell in a maze grid.
// Walls is indexed by Direction; a true flag is an impassable wall.
type Cell struct {
	X     int     // X index of the cell
	Z     int     // Z index of the cell
	Walls [4]bool // Walls toward +x, +z, -x and -z
}

// HasWall returns true if there is a wall on side d of the cell.
func (c Cell) HasWall(d Direction) bool {
	return c.Walls[d]
}

// Position returns the coordinates of the cell.
func (c Cell) Position() Position {
	return Position{X: c.X, Z: c.Z}
}

// Pattern returns the wall flags used as a catalog key.
func (c Cell) Pattern() [4]bool {
	return c.Walls
}
