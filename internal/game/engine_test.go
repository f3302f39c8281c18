package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ascentcg/ascent-server-go/internal/game/grid"
)

func TestEngineMatchLifecycle(t *testing.T) {
	rules := testRules()
	rules.StartingHealth = 1
	e := NewEngine(testCatalog(t), rules, nil)

	id, delta, err := e.CreateMatch(
		PlayerSetup{ID: "p1", Deck: fillerDeck("bolt")},
		PlayerSetup{ID: "p2", Deck: fillerDeck()})
	require.NoError(t, err)
	require.NotNil(t, delta)
	assert.Equal(t, PhaseMain, delta.Phase)
	assert.Equal(t, "p1", delta.ActivePlayer)

	_, _, err = e.Outcome(id)
	require.NoError(t, err)

	delta, err = e.SubmitAction(id, "p1", Action{Type: ActionPlayCard, Card: "bolt",
		Target: cellTarget(grid.Coord{Level: 0, Q: 4, R: 0})})
	require.NoError(t, err)
	require.NotNil(t, delta.Terminal)

	out, done, err := e.Outcome(id)
	require.NoError(t, err)
	require.True(t, done)
	assert.Equal(t, "p1", out.Winner)

	view, err := e.View(id, "p2")
	require.NoError(t, err)
	require.NotNil(t, view.Outcome)

	record, err := e.ReplayRecord(id)
	require.NoError(t, err)
	assert.Equal(t, id, record.MatchID)
	assert.Len(t, record.Actions, 1)
}

func TestEngineUnknownMatch(t *testing.T) {
	e := NewEngine(testCatalog(t), testRules(), nil)

	_, err := e.SubmitAction(uuid.New(), "p1", Action{Type: ActionEndPhase})
	assert.ErrorContains(t, err, "not found")
	_, err = e.View(uuid.New(), "p1")
	assert.ErrorContains(t, err, "not found")
	_, _, err = e.Outcome(uuid.New())
	assert.ErrorContains(t, err, "not found")
}

func TestEngineMatchesAreIndependent(t *testing.T) {
	e := NewEngine(testCatalog(t), testRules(), nil)

	a, _, err := e.CreateMatch(
		PlayerSetup{ID: "p1", Deck: fillerDeck()},
		PlayerSetup{ID: "p2", Deck: fillerDeck()})
	require.NoError(t, err)
	b, _, err := e.CreateMatch(
		PlayerSetup{ID: "p1", Deck: fillerDeck()},
		PlayerSetup{ID: "p2", Deck: fillerDeck()})
	require.NoError(t, err)
	require.NotEqual(t, a, b)

	_, err = e.SubmitAction(a, "p1", Action{Type: ActionEndPhase})
	require.NoError(t, err)

	viewA, err := e.View(a, "p1")
	require.NoError(t, err)
	viewB, err := e.View(b, "p1")
	require.NoError(t, err)
	assert.Equal(t, 2, viewA.Turn)
	assert.Equal(t, 1, viewB.Turn)
}
