package game

import (
	"github.com/google/uuid"

	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
	"github.com/ascentcg/ascent-server-go/internal/game/grid"
	"github.com/ascentcg/ascent-server-go/internal/game/modifier"
)

// Unit is a piece on the mountain: a player's avatar or a summoned
// climber. Health is non-negative; a unit reaching zero is marked
// defeated and leaves the occupancy index in the same resolution step.
type Unit struct {
	ID        uuid.UUID
	Owner     string
	Card      catalog.CardID // empty for avatars
	Coord     grid.Coord
	Health    int
	MaxHealth int
	Avatar    bool
	Defeated  bool
	Modifiers *modifier.Set
}

// newAvatar and newClimber leave ID zero; the match assigns its
// deterministic id before the unit is placed.
func newAvatar(owner string, c grid.Coord, health int) *Unit {
	return &Unit{
		Owner:     owner,
		Coord:     c,
		Health:    health,
		MaxHealth: health,
		Avatar:    true,
		Modifiers: modifier.NewSet(),
	}
}

func newClimber(owner string, card catalog.Card, c grid.Coord) *Unit {
	return &Unit{
		Owner:     owner,
		Card:      card.ID,
		Coord:     c,
		Health:    card.Power,
		MaxHealth: card.Power,
		Modifiers: modifier.NewSet(),
	}
}
