// Package catalog holds the fixed library of structures that can be placed on
// a maze cell, keyed by the cell's wall pattern.
package catalog

import (
	"errors"
	"fmt"

	"github.com/beka-birhanu/vinom-structures/maze"
)

const idFmt = "cstr%d"

var (
	ErrEmptyCatalog = errors.New("catalog has no entries")
	ErrNoStructure  = errors.New("no structure for wall pattern")
)

// Entry is a raw catalog record: where the source structure sits and which
// walls it has.
type Entry struct {
	Origin maze.Position
	Walls  [4]bool
}

// Structure is a catalog entry with its assigned identifier.
type Structure struct {
	ID     string        `json:"id" bson:"id"`
	Origin maze.Position `json:"origin" bson:"origin"`
	Walls  [4]bool       `json:"walls" bson:"walls"`
}

// Catalog answers exact wall-pattern lookups.
type Catalog struct {
	structures []Structure
	byPattern  map[[4]bool][]Structure
}

// New builds a catalog, numbering entries in input order.
func New(entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{
		structures: make([]Structure, 0, len(entries)),
		byPattern:  make(map[[4]bool][]Structure),
	}
	for n, e := range entries {
		s := Structure{
			ID:     fmt.Sprintf(idFmt, n),
			Origin: e.Origin,
			Walls:  e.Walls,
		}
		c.structures = append(c.structures, s)
		c.byPattern[s.Walls] = append(c.byPattern[s.Walls], s)
	}

	return c, nil
}

// Structures returns every structure in catalog order.
func (c *Catalog) Structures() []Structure {
	return append([]Structure(nil), c.structures...)
}

// Lookup returns the structures matching walls exactly.
func (c *Catalog) Lookup(walls [4]bool) []Structure {
	return append([]Structure(nil), c.byPattern[walls]...)
}

// Patterns returns the number of distinct wall patterns covered.
func (c *Catalog) Patterns() int {
	return len(c.byPattern)
}

// Choose picks one of the structures matching walls uniformly at random.
func (c *Catalog) Choose(walls [4]bool, rng maze.Rand) (Structure, error) {
	options := c.byPattern[walls]
	if len(options) == 0 {
		return Structure{}, fmt.Errorf("%w: %v", ErrNoStructure, walls)
	}
	return options[rng.Intn(len(options))], nil
}
