package maze

import (
	"errors"
	"fmt"
)

const (
	defaultTrialMultiplier = 2
	maxOpenings            = 2
)

var (
	ErrNilRand         = errors.New("random source is nil")
	ErrTooManyOpenings = errors.New("too many border openings")
	ErrInvalidOpening  = errors.New("opening is not an exterior wall")
)

// Rand is the random source consumed by the generator.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Opening is a border wall cleared after the border is sealed.
type Opening struct {
	X         int
	Z         int
	Direction Direction
}

// DefaultOpenings returns an entrance in the middle of the z=0 row and an exit
// in the middle of the last row.
func DefaultOpenings(width, depth int) []Opening {
	return []Opening{
		{X: width / 2, Z: 0, Direction: NegZ},
		{X: width / 2, Z: depth - 1, Direction: PosZ},
	}
}

// GeneratorConfig holds the parameters of a generation run.
type GeneratorConfig struct {
	Width           int       // Number of cells along x
	Depth           int       // Number of cells along z
	TrialMultiplier int       // Trials per cell; 0 means 2
	Openings        []Opening // Nil means DefaultOpenings
}

// Generator produces connected grids by randomized wall toggling.
type Generator struct {
	cfg GeneratorConfig
	rng Rand
}

// NewGenerator validates cfg and binds it to rng.
func NewGenerator(cfg GeneratorConfig, rng Rand) (*Generator, error) {
	if rng == nil {
		return nil, ErrNilRand
	}

	// Checks the dimensions and gives openings a grid to be validated against.
	shape, err := NewGrid(cfg.Width, cfg.Depth)
	if err != nil {
		return nil, err
	}

	if cfg.TrialMultiplier <= 0 {
		cfg.TrialMultiplier = defaultTrialMultiplier
	}

	if cfg.Openings == nil {
		cfg.Openings = DefaultOpenings(cfg.Width, cfg.Depth)
	}

	if len(cfg.Openings) > maxOpenings {
		return nil, fmt.Errorf("%w: %d", ErrTooManyOpenings, len(cfg.Openings))
	}

	openings := make([]Opening, len(cfg.Openings))
	for i, o := range cfg.Openings {
		if !shape.IsExterior(o.X, o.Z, o.Direction) {
			return nil, fmt.Errorf("%w: (%d,%d) %s", ErrInvalidOpening, o.X, o.Z, o.Direction)
		}
		openings[i] = o
	}
	cfg.Openings = openings

	return &Generator{cfg: cfg, rng: rng}, nil
}

// Trials returns the number of flip attempts per generation.
func (gen *Generator) Trials() int {
	return gen.cfg.TrialMultiplier * gen.cfg.Width * gen.cfg.Depth
}

// Openings returns the border openings cleared after sealing.
func (gen *Generator) Openings() []Opening {
	return append([]Opening(nil), gen.cfg.Openings...)
}

// Generate runs the full trial budget and returns a sealed, connected grid.
func (gen *Generator) Generate() (*Grid, error) {
	grid, err := NewGrid(gen.cfg.Width, gen.cfg.Depth)
	if err != nil {
		return nil, err
	}

	for trial := 0; trial < gen.Trials(); trial++ {
		gen.toggle(grid)
	}

	grid.SetBorderWalls()
	for _, o := range gen.cfg.Openings {
		grid.SetWall(o.X, o.Z, o.Direction, false)
	}

	return grid, nil
}

// toggle flips one random wall and reverts it if the grid falls apart.
func (gen *Generator) toggle(grid *Grid) {
	x := gen.rng.Intn(grid.width)
	z := gen.rng.Intn(grid.depth)
	d := Direction(gen.rng.Intn(directionCount))

	old := grid.Wall(x, z, d)
	grid.SetWall(x, z, d, !old)

	if !grid.IsReachableAll() {
		grid.SetWall(x, z, d, old)
	}
}
