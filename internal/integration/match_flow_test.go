// Package integration runs full match flows through the public engine
// API: catalog loading, match play to a terminal state and replay
// verification.
package integration

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ascentcg/ascent-server-go/internal/game"
	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
	"github.com/ascentcg/ascent-server-go/internal/game/grid"
)

const cardsYAML = `
cards:
  - id: ember-bolt
    name: Ember Bolt
    type: spell
    rarity: common
    cost: 0
    effects:
      - kind: damage
        magnitude: 4
    target:
      shape: single
      range: 20
      origin: enemy
      anchor: cell
  - id: second-wind
    name: Second Wind
    type: spell
    rarity: common
    cost: 0
    effects:
      - kind: heal
        magnitude: 2
    target:
      shape: single
      range: 20
      origin: any
      anchor: cell
  - id: ridge-guard
    name: Ridge Guard
    type: climber
    rarity: common
    cost: 0
    power: 4
    target:
      shape: single
      range: 2
      anchor: cell
  - id: camp-supplies
    name: Camp Supplies
    type: gear
    rarity: common
    cost: 0
    effects:
      - kind: draw
        magnitude: 1
    target:
      shape: single
      origin: self
      anchor: caster
`

func loadTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.Parse([]byte(cardsYAML))
	require.NoError(t, err)
	return cat
}

func deck(lead ...catalog.CardID) []catalog.CardID {
	out := append([]catalog.CardID{}, lead...)
	for len(out) < 15 {
		out = append(out, "second-wind")
	}
	return out
}

func rules() game.Rules {
	return game.Rules{
		Levels:         2,
		BaseRadius:     4,
		StartingHealth: 10,
		OpeningHand:    0,
		ResourceCap:    10,
		TurnLimit:      0,
	}
}

// TestFullMatchToVictory plays a complete match through the engine:
// player one burns the opposing avatar down over three turns while
// player two passes, then the replay is saved, reloaded and rebuilt.
func TestFullMatchToVictory(t *testing.T) {
	cat := loadTestCatalog(t)
	engine := game.NewEngine(cat, rules(), zap.NewNop())

	id, delta, err := engine.CreateMatch(
		game.PlayerSetup{ID: "asha", Deck: deck("ember-bolt", "ember-bolt", "ember-bolt")},
		game.PlayerSetup{ID: "bren", Deck: deck()})
	require.NoError(t, err)
	require.Equal(t, game.PhaseMain, delta.Phase)
	require.Equal(t, "asha", delta.ActivePlayer)

	target := grid.Coord{Level: 0, Q: 4, R: 0}
	bolt := game.Action{Type: game.ActionPlayCard, Card: "ember-bolt",
		Target: game.TargetSpec{Cell: &target}}
	pass := game.Action{Type: game.ActionEndPhase}

	var terminal *game.StateDelta
	for turn := 0; turn < 3; turn++ {
		delta, err = engine.SubmitAction(id, "asha", bolt)
		require.NoError(t, err)
		if delta.Terminal != nil {
			terminal = delta
			break
		}
		_, err = engine.SubmitAction(id, "asha", pass)
		require.NoError(t, err)
		_, err = engine.SubmitAction(id, "bren", pass)
		require.NoError(t, err)
	}

	require.NotNil(t, terminal, "three bolts should end the match")
	assert.Equal(t, game.ResultVictory, terminal.Terminal.Result)
	assert.Equal(t, "asha", terminal.Terminal.Winner)

	out, done, err := engine.Outcome(id)
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, "asha", out.Winner)

	// Both avatars remain visible to the winner; the loser's avatar is
	// gone from the board.
	view, err := engine.View(id, "asha")
	require.NoError(t, err)
	require.NotNil(t, view.Outcome)
	require.Len(t, view.Board, 1)
	assert.Equal(t, "asha", view.Board[0].Owner)

	record, err := engine.ReplayRecord(id)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "match.replay")
	require.NoError(t, record.SaveFile(path))

	loaded, err := game.LoadReplayFile(path)
	require.NoError(t, err)
	rebuilt, err := loaded.Rebuild(cat, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, record.FinalChecksum, rebuilt.Checksum())
}

// TestSummonAndBoardControl exercises climbers, movement and the
// player-visible card accounting across several turns.
func TestSummonAndBoardControl(t *testing.T) {
	cat := loadTestCatalog(t)
	engine := game.NewEngine(cat, rules(), zap.NewNop())

	id, _, err := engine.CreateMatch(
		game.PlayerSetup{ID: "asha", Deck: deck("ridge-guard", "camp-supplies")},
		game.PlayerSetup{ID: "bren", Deck: deck()})
	require.NoError(t, err)

	cell := grid.Coord{Level: 0, Q: -3, R: 0}
	delta, err := engine.SubmitAction(id, "asha", game.Action{
		Type: game.ActionPlayCard, Card: "ridge-guard",
		Target: game.TargetSpec{Cell: &cell}})
	require.NoError(t, err)
	require.Len(t, delta.Events, 1)
	require.Equal(t, game.EventSummon, delta.Events[0].Kind)
	climberID := delta.Events[0].Unit

	// The climber can move; the total card count never changes.
	dest := grid.Coord{Level: 0, Q: -2, R: 0}
	_, err = engine.SubmitAction(id, "asha", game.Action{
		Type: game.ActionMoveUnit, Unit: climberID, Dest: dest})
	require.NoError(t, err)

	_, err = engine.SubmitAction(id, "asha", game.Action{Type: game.ActionEndPhase})
	require.NoError(t, err)

	view, err := engine.View(id, "asha")
	require.NoError(t, err)
	onBoard := 0
	for _, u := range view.Board {
		if u.Card != "" {
			onBoard++
			assert.Equal(t, dest, u.Coord)
		}
	}
	require.Equal(t, 1, onBoard)
	total := view.DeckCount + len(view.Hand) + len(view.Discard) + onBoard
	assert.Equal(t, 15, total)

	// Gear draw: playing camp-supplies nets one replacement card.
	_, err = engine.SubmitAction(id, "bren", game.Action{Type: game.ActionEndPhase})
	require.NoError(t, err)

	handBefore := len(mustView(t, engine, id, "asha").Hand)
	delta, err = engine.SubmitAction(id, "asha", game.Action{
		Type: game.ActionPlayCard, Card: "camp-supplies"})
	require.NoError(t, err)
	assert.Equal(t, handBefore, len(mustView(t, engine, id, "asha").Hand))
	_ = delta
}

func mustView(t *testing.T, engine *game.Engine, id uuid.UUID, player string) *game.PlayerView {
	t.Helper()
	view, err := engine.View(id, player)
	require.NoError(t, err)
	return view
}
