package game

import (
	"sort"

	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
	"github.com/ascentcg/ascent-server-go/internal/game/grid"
)

// sortUnits orders units by their cell in the grid's canonical
// ordering, the order every multi-target effect resolves in.
func sortUnits(units []*Unit) {
	sort.Slice(units, func(i, j int) bool {
		return units[i].Coord.Less(units[j].Coord)
	})
}

// resolveTargets computes the unit target set for a card's targeting
// rule and the player's chosen anchor, validated against the caster's
// position. The result comes back in canonical cell order.
func (m *Match) resolveTargets(caster *Unit, rule catalog.TargetingRule, spec TargetSpec) ([]*Unit, error) {
	anchor := caster.Coord
	if rule.RelativeTo == catalog.RelativeChosenCell {
		if spec.Cell == nil {
			return nil, validationf(ReasonBadTargetSpec, "targeting rule needs a chosen cell")
		}
		anchor = *spec.Cell
		dist, err := m.mountain.Distance(caster.Coord, anchor)
		if err != nil {
			return nil, err
		}
		if dist > rule.Range {
			return nil, validationf(ReasonOutOfRange,
				"cell %s is %d steps away, range is %d", anchor, dist, rule.Range)
		}
	}

	var cells []grid.Coord
	switch rule.Shape {
	case grid.ShapeSingle:
		if !m.mountain.Contains(anchor) {
			return nil, validationf(ReasonBadTargetSpec, "cell %s is not on the mountain", anchor)
		}
		cells = []grid.Coord{anchor}
	case grid.ShapeArea:
		area, err := m.mountain.CellsInRange(anchor, rule.Range, grid.Shape{Kind: grid.ShapeArea, Radius: rule.Radius})
		if err != nil {
			return nil, err
		}
		cells = area
	case grid.ShapeLine:
		if spec.Direction == nil {
			return nil, validationf(ReasonBadTargetSpec, "line targeting needs a direction")
		}
		line, err := m.mountain.CellsInRange(anchor, rule.Range, grid.Shape{Kind: grid.ShapeLine, Direction: *spec.Direction})
		if err != nil {
			return nil, err
		}
		cells = line
	}

	targets := make([]*Unit, 0, len(cells))
	for _, cell := range cells {
		id, ok, err := m.mountain.OccupantAt(cell)
		if err != nil || !ok {
			continue
		}
		unit := m.units[id]
		if unit == nil || unit.Defeated {
			continue
		}
		if m.matchesOrigin(rule.Origin, caster, unit) {
			targets = append(targets, unit)
		}
	}
	sortUnits(targets)
	return targets, nil
}

func (m *Match) matchesOrigin(filter catalog.OriginFilter, caster, target *Unit) bool {
	switch filter {
	case catalog.OriginSelf:
		return target.ID == caster.ID
	case catalog.OriginAlly:
		return target.Owner == caster.Owner
	case catalog.OriginEnemy:
		return target.Owner != caster.Owner
	default:
		return true
	}
}
