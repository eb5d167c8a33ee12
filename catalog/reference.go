package catalog

import "github.com/beka-birhanu/vinom-structures/maze"

// Reference returns the stock structure library: a 4x4 block of source
// cuboids spaced 12 blocks apart. It covers every pattern except the fully
// walled one, which a connected grid of two or more cells cannot produce.
// The fully open pattern appears twice.
func Reference() []Entry {
	return []Entry{
		{Origin: maze.Position{X: 1, Z: 200}, Walls: [4]bool{false, false, true, true}},
		{Origin: maze.Position{X: 1, Z: 212}, Walls: [4]bool{true, false, true, false}},
		{Origin: maze.Position{X: 1, Z: 224}, Walls: [4]bool{false, true, false, true}},
		{Origin: maze.Position{X: 1, Z: 236}, Walls: [4]bool{false, true, true, false}},
		{Origin: maze.Position{X: 13, Z: 200}, Walls: [4]bool{false, false, true, false}},
		{Origin: maze.Position{X: 13, Z: 212}, Walls: [4]bool{false, false, false, true}},
		{Origin: maze.Position{X: 13, Z: 224}, Walls: [4]bool{true, false, false, false}},
		{Origin: maze.Position{X: 13, Z: 236}, Walls: [4]bool{false, true, false, false}},
		{Origin: maze.Position{X: 25, Z: 200}, Walls: [4]bool{false, false, false, false}},
		{Origin: maze.Position{X: 25, Z: 212}, Walls: [4]bool{true, true, true, false}},
		{Origin: maze.Position{X: 25, Z: 224}, Walls: [4]bool{false, true, true, true}},
		{Origin: maze.Position{X: 25, Z: 236}, Walls: [4]bool{false, false, false, false}},
		{Origin: maze.Position{X: 37, Z: 200}, Walls: [4]bool{true, false, false, true}},
		{Origin: maze.Position{X: 37, Z: 212}, Walls: [4]bool{true, false, true, true}},
		{Origin: maze.Position{X: 37, Z: 224}, Walls: [4]bool{true, true, false, true}},
		{Origin: maze.Position{X: 37, Z: 236}, Walls: [4]bool{true, true, false, false}},
	}
}
