package maze

// Direction indexes the four wall flags of a cell.
type Direction int

// Directions in wall-array order.
const (
	PosX Direction = iota // toward increasing x
	PosZ                  // toward increasing z
	NegX                  // toward decreasing x
	NegZ                  // toward decreasing z
)

// directionCount is the number of wall flags per cell.
const directionCount = 4

// AllDirections returns all directions in wall-array order.
func AllDirections() []Direction {
	return []Direction{PosX, PosZ, NegX, NegZ}
}

// IsValid reports whether d indexes a wall flag.
func (d Direction) IsValid() bool {
	return d >= PosX && d <= NegZ
}

// Opposite returns the direction pointing back from the neighbor.
func (d Direction) Opposite() Direction {
	return (d + 2) % directionCount
}

// Delta returns the x and z offsets of the neighbor in direction d.
func (d Direction) Delta() (dx, dz int) {
	switch d {
	case PosX:
		return 1, 0
	case PosZ:
		return 0, 1
	case NegX:
		return -1, 0
	case NegZ:
		return 0, -1
	default:
		return 0, 0
	}
}

// String returns the string representation of a direction.
func (d Direction) String() string {
	switch d {
	case PosX:
		return "+x"
	case PosZ:
		return "+z"
	case NegX:
		return "-x"
	case NegZ:
		return "-z"
	default:
		return "unknown"
	}
}
