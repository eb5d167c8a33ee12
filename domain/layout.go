// Package domain holds the generated layout records shared by the service,
// the repository and the HTTP API.
package domain

import (
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-structures/maze"
	"github.com/google/uuid"
)

// Placement binds one grid cell to the structure chosen for it.
type Placement struct {
	X           int     `json:"x" bson:"x"`
	Z           int     `json:"z" bson:"z"`
	Walls       [4]bool `json:"walls" bson:"walls"`
	StructureID string  `json:"structure_id" bson:"structureId"`
}

// Layout is one generation try: a full grid of placements.
type Layout struct {
	ID         uuid.UUID   `json:"id" bson:"id"`
	Try        int         `json:"try" bson:"try"`
	Seed       int64       `json:"seed" bson:"seed"`
	Width      int         `json:"width" bson:"width"`
	Depth      int         `json:"depth" bson:"depth"`
	Placements []Placement `json:"placements" bson:"placements"`
}

// Batch groups the independent tries produced by a single request.
type Batch struct {
	ID              uuid.UUID `json:"id" bson:"_id"`
	Seed            int64     `json:"seed" bson:"seed"`
	Width           int       `json:"width" bson:"width"`
	Depth           int       `json:"depth" bson:"depth"`
	Tries           int       `json:"tries" bson:"tries"`
	TrialMultiplier int       `json:"trial_multiplier" bson:"trialMultiplier"`
	Layouts         []Layout  `json:"layouts" bson:"layouts"`
	CreatedAt       time.Time `json:"created_at" bson:"createdAt"`
}

// Grid rebuilds the wall grid recorded in the layout's placements.
func (l Layout) Grid() (*maze.Grid, error) {
	grid, err := maze.NewGrid(l.Width, l.Depth)
	if err != nil {
		return nil, err
	}
	for _, p := range l.Placements {
		if !grid.InBounds(p.X, p.Z) {
			return nil, fmt.Errorf("placement (%d,%d) outside %dx%d layout", p.X, p.Z, l.Width, l.Depth)
		}
		for _, d := range maze.AllDirections() {
			if p.Walls[d] {
				grid.SetWall(p.X, p.Z, d, true)
			}
		}
	}
	return grid, nil
}
