package grid

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func mustMountain(t *testing.T, levels, radius int) *Mountain {
	t.Helper()
	m, err := NewMountain(levels, radius)
	if err != nil {
		t.Fatalf("NewMountain(%d, %d): %v", levels, radius, err)
	}
	return m
}

func (m *Mountain) allCells() []Coord {
	var cells []Coord
	for _, l := range m.levels {
		for dq := -l.radius; dq <= l.radius; dq++ {
			for dr := -l.radius; dr <= l.radius; dr++ {
				c := Coord{Level: l.index, Q: dq, R: dr}
				if l.contains(c) {
					cells = append(cells, c)
				}
			}
		}
	}
	return cells
}

func TestNeighborsValidAndSymmetric(t *testing.T) {
	m := mustMountain(t, 3, 4)

	for _, c := range m.allCells() {
		neighbors, err := m.Neighbors(c)
		if err != nil {
			t.Fatalf("Neighbors(%s): %v", c, err)
		}
		for _, n := range neighbors {
			if !m.Contains(n) {
				t.Errorf("Neighbors(%s) returned invalid cell %s", c, n)
			}
			back, err := m.Neighbors(n)
			if err != nil {
				t.Fatalf("Neighbors(%s): %v", n, err)
			}
			found := false
			for _, b := range back {
				if b == c {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("adjacency not symmetric: %s in Neighbors(%s) but not vice versa", n, c)
			}
		}
	}
}

func TestNeighborsCrossLevel(t *testing.T) {
	m := mustMountain(t, 2, 3)

	// Upper level has radius 2, so the east connection cell on level 0
	// is (2, 0).
	conn := Coord{Level: 0, Q: 2, R: 0}
	if !m.IsConnection(conn) {
		t.Fatalf("expected %s to be a connection cell", conn)
	}

	neighbors, err := m.Neighbors(conn)
	if err != nil {
		t.Fatalf("Neighbors(%s): %v", conn, err)
	}
	upper := Coord{Level: 1, Q: 2, R: 0}
	found := false
	for _, n := range neighbors {
		if n == upper {
			found = true
		}
	}
	if !found {
		t.Errorf("Neighbors(%s) = %v, missing cross-level cell %s", conn, neighbors, upper)
	}

	// Non-connection cells never reach across levels.
	center := Coord{Level: 0}
	neighbors, err = m.Neighbors(center)
	if err != nil {
		t.Fatalf("Neighbors(%s): %v", center, err)
	}
	for _, n := range neighbors {
		if n.Level != 0 {
			t.Errorf("Neighbors(%s) returned cross-level cell %s", center, n)
		}
	}
}

func TestNeighborsInvalidCoordinate(t *testing.T) {
	m := mustMountain(t, 2, 3)

	_, err := m.Neighbors(Coord{Level: 5, Q: 0, R: 0})
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
	_, err = m.Neighbors(Coord{Level: 0, Q: 10, R: 10})
	if !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestDistanceSameLevel(t *testing.T) {
	m := mustMountain(t, 1, 4)

	tests := []struct {
		a, b Coord
		want int
	}{
		{Coord{0, 0, 0}, Coord{0, 0, 0}, 0},
		{Coord{0, 0, 0}, Coord{0, 1, 0}, 1},
		{Coord{0, 0, 0}, Coord{0, 1, 1}, 2},
		{Coord{0, -2, 0}, Coord{0, 2, 0}, 4},
		{Coord{0, 0, -2}, Coord{0, 0, 2}, 4},
	}
	for _, tt := range tests {
		got, err := m.Distance(tt.a, tt.b)
		if err != nil {
			t.Fatalf("Distance(%s, %s): %v", tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Errorf("Distance(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestDistanceCrossLevel(t *testing.T) {
	m := mustMountain(t, 2, 3)

	// From level 0 center to level 1 center: 2 steps to the nearest
	// connection cell (rim of the radius-2 upper level), 1 to cross,
	// then 2 back to the upper center.
	a := Coord{Level: 0}
	b := Coord{Level: 1}
	got, err := m.Distance(a, b)
	if err != nil {
		t.Fatalf("Distance(%s, %s): %v", a, b, err)
	}
	if got != 5 {
		t.Errorf("Distance(%s, %s) = %d, want 5", a, b, got)
	}

	// Standing on a connection cell, the matching upper cell is one step.
	conn := Coord{Level: 0, Q: 2, R: 0}
	upper := Coord{Level: 1, Q: 2, R: 0}
	got, err = m.Distance(conn, upper)
	if err != nil {
		t.Fatalf("Distance(%s, %s): %v", conn, upper, err)
	}
	if got != 1 {
		t.Errorf("Distance(%s, %s) = %d, want 1", conn, upper, got)
	}

	// Symmetric in either direction.
	down, err := m.Distance(b, a)
	if err != nil {
		t.Fatalf("Distance(%s, %s): %v", b, a, err)
	}
	if down != 5 {
		t.Errorf("Distance(%s, %s) = %d, want 5", b, a, down)
	}
}

func TestCellsInRangeShapes(t *testing.T) {
	m := mustMountain(t, 1, 4)
	origin := Coord{Level: 0}

	single, err := m.CellsInRange(origin, 1, Shape{Kind: ShapeSingle})
	if err != nil {
		t.Fatalf("CellsInRange single: %v", err)
	}
	if len(single) != 7 {
		t.Errorf("single range 1 candidates = %d cells, want 7", len(single))
	}

	area, err := m.CellsInRange(origin, 3, Shape{Kind: ShapeArea, Radius: 2})
	if err != nil {
		t.Fatalf("CellsInRange area: %v", err)
	}
	if len(area) != 19 {
		t.Errorf("area radius 2 = %d cells, want 19", len(area))
	}

	line, err := m.CellsInRange(origin, 3, Shape{Kind: ShapeLine, Direction: DirEast})
	if err != nil {
		t.Fatalf("CellsInRange line: %v", err)
	}
	want := []Coord{{0, 1, 0}, {0, 2, 0}, {0, 3, 0}}
	if len(line) != len(want) {
		t.Fatalf("line = %v, want %v", line, want)
	}
	for i := range want {
		if line[i] != want[i] {
			t.Errorf("line[%d] = %s, want %s", i, line[i], want[i])
		}
	}
}

func TestCellsInRangeClipsAtBounds(t *testing.T) {
	m := mustMountain(t, 1, 2)

	// Origin on the rim: the disk silently drops out-of-bounds cells.
	rim := Coord{Level: 0, Q: 2, R: 0}
	area, err := m.CellsInRange(rim, 1, Shape{Kind: ShapeArea, Radius: 1})
	if err != nil {
		t.Fatalf("CellsInRange: %v", err)
	}
	for _, c := range area {
		if !m.Contains(c) {
			t.Errorf("CellsInRange returned out-of-bounds cell %s", c)
		}
	}
	if len(area) >= 7 {
		t.Errorf("rim area should be clipped, got %d cells", len(area))
	}

	// Line walking off the edge stops there.
	line, err := m.CellsInRange(rim, 4, Shape{Kind: ShapeLine, Direction: DirEast})
	if err != nil {
		t.Fatalf("CellsInRange: %v", err)
	}
	if len(line) != 0 {
		t.Errorf("east line off the rim = %v, want empty", line)
	}
}

func TestCellsInRangeCanonicalOrder(t *testing.T) {
	m := mustMountain(t, 1, 3)

	cells, err := m.CellsInRange(Coord{Level: 0}, 2, Shape{Kind: ShapeSingle})
	if err != nil {
		t.Fatalf("CellsInRange: %v", err)
	}
	for i := 1; i < len(cells); i++ {
		if !cells[i-1].Less(cells[i]) {
			t.Errorf("cells not in canonical order at %d: %s then %s", i, cells[i-1], cells[i])
		}
	}
}

func TestOccupancy(t *testing.T) {
	m := mustMountain(t, 1, 3)
	unit := uuid.New()
	c := Coord{Level: 0, Q: 1, R: 0}

	if err := m.Place(unit, c); err != nil {
		t.Fatalf("Place: %v", err)
	}
	occ, ok, err := m.OccupantAt(c)
	if err != nil || !ok || occ != unit {
		t.Fatalf("OccupantAt = %v, %v, %v; want %s", occ, ok, err, unit)
	}

	// Double placement is rejected.
	if err := m.Place(uuid.New(), c); err == nil {
		t.Error("expected error placing onto occupied cell")
	}

	dest := Coord{Level: 0, Q: 2, R: 0}
	if err := m.Move(unit, c, dest); err != nil {
		t.Fatalf("Move: %v", err)
	}
	_, ok, _ = m.OccupantAt(c)
	if ok {
		t.Error("origin cell still occupied after move")
	}
	occ, ok, _ = m.OccupantAt(dest)
	if !ok || occ != unit {
		t.Errorf("destination occupant = %v, %v; want %s", occ, ok, unit)
	}

	m.Remove(dest)
	_, ok, _ = m.OccupantAt(dest)
	if ok {
		t.Error("cell still occupied after Remove")
	}
}

func TestMoveOccupancyMismatch(t *testing.T) {
	m := mustMountain(t, 1, 3)

	err := m.Move(uuid.New(), Coord{Level: 0}, Coord{Level: 0, Q: 1, R: 0})
	if err == nil {
		t.Error("expected mismatch error moving unplaced unit")
	}
}
