package game

import (
	"github.com/google/uuid"

	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
	"github.com/ascentcg/ascent-server-go/internal/game/grid"
	"github.com/ascentcg/ascent-server-go/internal/game/modifier"
)

// UnitView is a unit as a player sees it.
type UnitView struct {
	ID        uuid.UUID
	Owner     string
	Card      catalog.CardID
	Coord     grid.Coord
	Health    int
	MaxHealth int
	Avatar    bool
	Modifiers []modifier.Modifier
}

// PlayerView is a read-only snapshot of the match from one player's
// side: the board and both discards are public, the own hand and own
// armed traps are private, and the opponent's hidden zones show as
// counts only.
type PlayerView struct {
	MatchID      uuid.UUID
	You          string
	Opponent     string
	Turn         int
	Phase        Phase
	ActivePlayer string

	Hand         []catalog.CardID
	DeckCount    int
	Discard      []catalog.CardID
	Resources    int
	ResourcesMax int

	OpponentHandCount int
	OpponentDeckCount int
	OpponentDiscard   []catalog.CardID

	Board    []UnitView
	OwnTraps []grid.Coord

	Outcome *MatchOutcome
}

// View builds the player-visible snapshot. It never mutates state.
func (m *Match) View(playerID string) (*PlayerView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.player(playerID)
	if p == nil {
		return nil, validationf(ReasonNotActivePlayer, "unknown player %q", playerID)
	}
	opp := m.opponentOf(playerID)

	view := &PlayerView{
		MatchID:      m.id,
		You:          p.id,
		Opponent:     opp.id,
		Turn:         m.turn,
		Phase:        m.phase,
		ActivePlayer: m.active().id,

		Hand:         append([]catalog.CardID(nil), p.zones.Hand...),
		DeckCount:    len(p.zones.Deck),
		Discard:      append([]catalog.CardID(nil), p.zones.Discard...),
		Resources:    p.pool.Current(),
		ResourcesMax: p.pool.Max(),

		OpponentHandCount: len(opp.zones.Hand),
		OpponentDeckCount: len(opp.zones.Deck),
		OpponentDiscard:   append([]catalog.CardID(nil), opp.zones.Discard...),
	}
	if m.outcome != nil {
		out := *m.outcome
		view.Outcome = &out
	}

	units := make([]*Unit, 0, len(m.units))
	for _, u := range m.units {
		if !u.Defeated {
			units = append(units, u)
		}
	}
	sortUnits(units)
	for _, u := range units {
		view.Board = append(view.Board, UnitView{
			ID:        u.ID,
			Owner:     u.Owner,
			Card:      u.Card,
			Coord:     u.Coord,
			Health:    u.Health,
			MaxHealth: u.MaxHealth,
			Avatar:    u.Avatar,
			Modifiers: u.Modifiers.Active(),
		})
	}

	for cell, armed := range m.traps {
		for _, t := range armed {
			if t.owner == playerID {
				view.OwnTraps = append(view.OwnTraps, cell)
				break
			}
		}
	}
	grid.SortCoords(view.OwnTraps)

	return view, nil
}
