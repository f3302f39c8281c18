package grid

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	// ErrInvalidCoordinate reports a query against a cell outside every level.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrUnreachableTarget reports two cells with no connecting path.
	ErrUnreachableTarget = errors.New("unreachable target")
)

// ShapeKind selects the footprint a targeting query produces.
type ShapeKind int

const (
	// ShapeSingle yields the candidate cells a single target may be
	// chosen from: every valid cell within range of the origin.
	ShapeSingle ShapeKind = iota
	// ShapeArea yields the contiguous disk of the shape's radius
	// around the origin cell.
	ShapeArea
	// ShapeLine yields the ray of cells from the origin in one axial
	// direction, up to range steps.
	ShapeLine
)

var shapeNames = map[ShapeKind]string{
	ShapeSingle: "SINGLE",
	ShapeArea:   "AREA",
	ShapeLine:   "LINE",
}

func (k ShapeKind) String() string {
	if name, ok := shapeNames[k]; ok {
		return name
	}
	return fmt.Sprintf("SHAPE_%d", int(k))
}

// Shape describes a targeting footprint.
type Shape struct {
	Kind      ShapeKind
	Radius    int       // area radius, ShapeArea only
	Direction Direction // ray direction, ShapeLine only
}

// level is one stratum of the mountain: a bounded hex disk plus the
// connection cells that link it to the levels above and below.
type level struct {
	index  int
	radius int
	// cells linking to the level above; the matching cell on the upper
	// level has the same q,r.
	connectionsUp map[Coord]struct{}
}

func (l *level) contains(c Coord) bool {
	return c.Level == l.index && hexDistance(c, Coord{Level: l.index}) <= l.radius
}

// Mountain is the multi-level hexagonal board. Levels shrink toward the
// summit and are joined only at designated connection cells, so
// cross-level movement always funnels through those cells.
//
// Mountain also owns the occupancy index: at most one unit per cell.
type Mountain struct {
	levels    []*level
	occupancy map[Coord]uuid.UUID
}

// NewMountain builds a mountain of the given number of levels. Level 0
// is a hex disk of baseRadius; every level above shrinks by one. The
// six connection cells between consecutive levels sit on the upper
// level's rim, one per axial direction, shared by both levels.
func NewMountain(levels, baseRadius int) (*Mountain, error) {
	if levels < 1 {
		return nil, fmt.Errorf("mountain needs at least one level, got %d", levels)
	}
	if baseRadius < levels-1 {
		return nil, fmt.Errorf("base radius %d too small for %d levels", baseRadius, levels)
	}

	m := &Mountain{
		levels:    make([]*level, levels),
		occupancy: make(map[Coord]uuid.UUID),
	}
	for i := 0; i < levels; i++ {
		m.levels[i] = &level{
			index:         i,
			radius:        baseRadius - i,
			connectionsUp: make(map[Coord]struct{}),
		}
	}
	for i := 0; i < levels-1; i++ {
		upperRadius := m.levels[i+1].radius
		for d := Direction(0); d < NumDirections; d++ {
			off := directionOffsets[d]
			c := Coord{Level: i, Q: off[0] * upperRadius, R: off[1] * upperRadius}
			m.levels[i].connectionsUp[c] = struct{}{}
		}
	}
	return m, nil
}

// Levels returns the number of levels.
func (m *Mountain) Levels() int {
	return len(m.levels)
}

// Contains reports whether c lies within its level's valid cell set.
func (m *Mountain) Contains(c Coord) bool {
	if c.Level < 0 || c.Level >= len(m.levels) {
		return false
	}
	return m.levels[c.Level].contains(c)
}

// IsConnection reports whether c is a connection cell linking to the
// level above.
func (m *Mountain) IsConnection(c Coord) bool {
	if c.Level < 0 || c.Level >= len(m.levels) {
		return false
	}
	_, ok := m.levels[c.Level].connectionsUp[c]
	return ok
}

// Neighbors returns the valid cells adjacent to c: the six axial
// neighbors on the same level, plus the matching cell on the adjacent
// level when c is a connection cell. Adjacency is symmetric.
func (m *Mountain) Neighbors(c Coord) ([]Coord, error) {
	if !m.Contains(c) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCoordinate, c)
	}

	neighbors := make([]Coord, 0, NumDirections+2)
	for d := Direction(0); d < NumDirections; d++ {
		n := c.Step(d)
		if m.Contains(n) {
			neighbors = append(neighbors, n)
		}
	}
	if m.IsConnection(c) {
		neighbors = append(neighbors, Coord{Level: c.Level + 1, Q: c.Q, R: c.R})
	}
	if c.Level > 0 {
		below := Coord{Level: c.Level - 1, Q: c.Q, R: c.R}
		if m.IsConnection(below) {
			neighbors = append(neighbors, below)
		}
	}
	SortCoords(neighbors)
	return neighbors, nil
}

// Distance returns the minimum hex-step count between two cells.
// Cells on the same level use plain hex distance. Cells on different
// levels pay intra-level distance to a connection cell, one step per
// level crossing, and intra-level distance on the far side, minimized
// over every connection chain.
func (m *Mountain) Distance(a, b Coord) (int, error) {
	if !m.Contains(a) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCoordinate, a)
	}
	if !m.Contains(b) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidCoordinate, b)
	}
	if a.Level == b.Level {
		return hexDistance(a, b), nil
	}

	// Cross-level cost is symmetric, so always walk upward.
	from, to := a, b
	if from.Level > to.Level {
		from, to = to, from
	}

	// Walk level by level; entries hold the cheapest cost to stand on
	// each entry cell of the current level.
	entries := map[Coord]int{from: 0}
	for lvl := from.Level; lvl < to.Level; lvl++ {
		next := make(map[Coord]int)
		for conn := range m.levels[lvl].connectionsUp {
			best := -1
			for entry, cost := range entries {
				total := cost + hexDistance(entry, conn) + 1
				if best == -1 || total < best {
					best = total
				}
			}
			if best >= 0 {
				next[Coord{Level: lvl + 1, Q: conn.Q, R: conn.R}] = best
			}
		}
		if len(next) == 0 {
			return 0, fmt.Errorf("%w: no connection between level %d and %d", ErrUnreachableTarget, lvl, lvl+1)
		}
		entries = next
	}

	best := -1
	for entry, cost := range entries {
		total := cost + hexDistance(entry, to)
		if best == -1 || total < best {
			best = total
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("%w: %s to %s", ErrUnreachableTarget, a, b)
	}
	return best, nil
}

// CellsInRange computes the set of valid cells matching a targeting
// shape from an origin cell. Out-of-bounds cells are silently excluded;
// only an invalid origin is an error. Results come back in canonical
// order.
func (m *Mountain) CellsInRange(origin Coord, rng int, shape Shape) ([]Coord, error) {
	if !m.Contains(origin) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCoordinate, origin)
	}

	var cells []Coord
	switch shape.Kind {
	case ShapeSingle:
		cells = m.disk(origin, rng)
	case ShapeArea:
		cells = m.disk(origin, shape.Radius)
	case ShapeLine:
		c := origin
		for i := 0; i < rng; i++ {
			c = c.Step(shape.Direction)
			if !m.Contains(c) {
				break
			}
			cells = append(cells, c)
		}
	default:
		return nil, fmt.Errorf("unknown shape kind %d", int(shape.Kind))
	}
	SortCoords(cells)
	return cells, nil
}

// disk returns the valid same-level cells within radius of center,
// center included.
func (m *Mountain) disk(center Coord, radius int) []Coord {
	var cells []Coord
	for dq := -radius; dq <= radius; dq++ {
		for dr := -radius; dr <= radius; dr++ {
			c := Coord{Level: center.Level, Q: center.Q + dq, R: center.R + dr}
			if hexDistance(center, c) > radius {
				continue
			}
			if m.Contains(c) {
				cells = append(cells, c)
			}
		}
	}
	return cells
}

// OccupantAt returns the unit occupying c, if any.
func (m *Mountain) OccupantAt(c Coord) (uuid.UUID, bool, error) {
	if !m.Contains(c) {
		return uuid.Nil, false, fmt.Errorf("%w: %s", ErrInvalidCoordinate, c)
	}
	id, ok := m.occupancy[c]
	return id, ok, nil
}

// Place records unit occupying c. The cell must be valid and empty.
func (m *Mountain) Place(unit uuid.UUID, c Coord) error {
	if !m.Contains(c) {
		return fmt.Errorf("%w: %s", ErrInvalidCoordinate, c)
	}
	if occ, ok := m.occupancy[c]; ok {
		return fmt.Errorf("cell %s already occupied by %s", c, occ)
	}
	m.occupancy[c] = unit
	return nil
}

// Remove clears the occupant of c. Removing an empty or unknown cell is
// a no-op so defeat cleanup stays idempotent.
func (m *Mountain) Remove(c Coord) {
	delete(m.occupancy, c)
}

// Move relocates the occupant of from to to. The destination must be
// valid and empty, and from must hold the given unit; a mismatch means
// the occupancy index and unit records have diverged.
func (m *Mountain) Move(unit uuid.UUID, from, to Coord) error {
	occ, ok := m.occupancy[from]
	if !ok || occ != unit {
		return fmt.Errorf("occupancy mismatch at %s: want %s, have %s", from, unit, occ)
	}
	if err := m.Place(unit, to); err != nil {
		return err
	}
	delete(m.occupancy, from)
	return nil
}

// Occupied returns every occupied cell in canonical order.
func (m *Mountain) Occupied() []Coord {
	cells := make([]Coord, 0, len(m.occupancy))
	for c := range m.occupancy {
		cells = append(cells, c)
	}
	SortCoords(cells)
	return cells
}
