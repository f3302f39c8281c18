package grid

import (
	"fmt"
	"sort"
)

// Coord identifies a cell on the mountain using axial hex coordinates
// within a level. The implicit third cube coordinate is -Q-R.
type Coord struct {
	Level int
	Q     int
	R     int
}

func (c Coord) String() string {
	return fmt.Sprintf("L%d(%d,%d)", c.Level, c.Q, c.R)
}

// S returns the implicit third cube coordinate.
func (c Coord) S() int {
	return -c.Q - c.R
}

// Less reports whether c sorts before other in the canonical cell
// ordering: ascending level, then q, then r. Effect resolution walks
// target sets in this order so outcomes are reproducible.
func (c Coord) Less(other Coord) bool {
	if c.Level != other.Level {
		return c.Level < other.Level
	}
	if c.Q != other.Q {
		return c.Q < other.Q
	}
	return c.R < other.R
}

// SortCoords sorts cells into the canonical ordering in place.
func SortCoords(coords []Coord) {
	sort.Slice(coords, func(i, j int) bool {
		return coords[i].Less(coords[j])
	})
}

// Direction indexes the six axial hex directions, counted clockwise
// starting from +Q.
type Direction int

const (
	DirEast Direction = iota
	DirSouthEast
	DirSouthWest
	DirWest
	DirNorthWest
	DirNorthEast
)

// NumDirections is the number of axial hex directions.
const NumDirections = 6

var directionOffsets = [NumDirections][2]int{
	{1, 0},  // east
	{0, 1},  // south-east
	{-1, 1}, // south-west
	{-1, 0}, // west
	{0, -1}, // north-west
	{1, -1}, // north-east
}

// Step returns the cell one step from c in direction d, on the same level.
func (c Coord) Step(d Direction) Coord {
	off := directionOffsets[int(d)%NumDirections]
	return Coord{Level: c.Level, Q: c.Q + off[0], R: c.R + off[1]}
}

// hexDistance is the hex-step distance between two cells of the same
// level, ignoring bounds.
func hexDistance(a, b Coord) int {
	dq := a.Q - b.Q
	dr := a.R - b.R
	ds := a.S() - b.S()
	return (abs(dq) + abs(dr) + abs(ds)) / 2
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
