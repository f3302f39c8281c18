package game

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
	"github.com/ascentcg/ascent-server-go/internal/game/grid"
	"github.com/ascentcg/ascent-server-go/internal/game/modifier"
)

// anywhere is a targeting rule generous enough to reach across the
// whole test board.
var anywhere = catalog.TargetingRule{
	Shape:      grid.ShapeSingle,
	Range:      20,
	Origin:     catalog.OriginAny,
	RelativeTo: catalog.RelativeChosenCell,
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	enemyAnywhere := anywhere
	enemyAnywhere.Origin = catalog.OriginEnemy

	selfRule := catalog.TargetingRule{
		Shape:      grid.ShapeSingle,
		Origin:     catalog.OriginSelf,
		RelativeTo: catalog.RelativeCaster,
	}

	cards := []catalog.Card{
		{ID: "bolt", Name: "Bolt", Type: catalog.TypeSpell,
			Effects: []catalog.Effect{{Kind: catalog.EffectDamage, Magnitude: 1}},
			Target:  enemyAnywhere},
		{ID: "big-bolt", Name: "Big Bolt", Type: catalog.TypeSpell,
			Effects: []catalog.Effect{{Kind: catalog.EffectDamage, Magnitude: 30}},
			Target:  enemyAnywhere},
		{ID: "bolt-then-mend", Name: "Bolt Then Mend", Type: catalog.TypeSpell,
			Effects: []catalog.Effect{
				{Kind: catalog.EffectDamage, Magnitude: 3},
				{Kind: catalog.EffectHeal, Magnitude: 2},
			},
			Target: anywhere},
		{ID: "mend", Name: "Mend", Type: catalog.TypeSpell,
			Effects: []catalog.Effect{{Kind: catalog.EffectHeal, Magnitude: 5}},
			Target:  anywhere},
		{ID: "insight", Name: "Insight", Type: catalog.TypeSpell,
			Effects: []catalog.Effect{{Kind: catalog.EffectDraw, Magnitude: 2}},
			Target:  selfRule},
		{ID: "war-cry", Name: "War Cry", Type: catalog.TypeSpell,
			Effects: []catalog.Effect{{Kind: catalog.EffectBuff, Magnitude: 2,
				Stat: modifier.StatAttack, Duration: 3, Stacking: modifier.StackAdditive}},
			Target: selfRule},
		{ID: "stone-skin", Name: "Stone Skin", Type: catalog.TypeSpell,
			Effects: []catalog.Effect{{Kind: catalog.EffectBuff, Magnitude: 5,
				Stat: modifier.StatDefense, Duration: 3, Stacking: modifier.StackAdditive}},
			Target: anywhere},
		{ID: "expose", Name: "Expose", Type: catalog.TypeSpell,
			Effects: []catalog.Effect{{Kind: catalog.EffectDebuff, Magnitude: 2,
				Stat: modifier.StatDefense, Duration: 2, Stacking: modifier.StackIndependent}},
			Target: enemyAnywhere},
		{ID: "costly", Name: "Costly", Type: catalog.TypeSpell, Cost: 5,
			Effects: []catalog.Effect{{Kind: catalog.EffectDamage, Magnitude: 9}},
			Target:  enemyAnywhere},
		{ID: "ridge-guard", Name: "Ridge Guard", Type: catalog.TypeClimber, Power: 5,
			Target: catalog.TargetingRule{Shape: grid.ShapeSingle, Range: 2, RelativeTo: catalog.RelativeChosenCell}},
		{ID: "snare", Name: "Snare", Type: catalog.TypeTrap,
			Effects: []catalog.Effect{{Kind: catalog.EffectDamage, Magnitude: 2}},
			Target:  anywhere},
		{ID: "spikes", Name: "Spikes", Type: catalog.TypeTrap,
			Effects: []catalog.Effect{{Kind: catalog.EffectDamage, Magnitude: 1}},
			Target:  anywhere},
		{ID: "filler", Name: "Filler", Type: catalog.TypeSpell,
			Effects: []catalog.Effect{{Kind: catalog.EffectHeal, Magnitude: 1}},
			Target:  anywhere},
	}

	cat, err := catalog.New(cards)
	if err != nil {
		t.Fatalf("building test catalog: %v", err)
	}
	return cat
}

func testRules() Rules {
	return Rules{
		Levels:         2,
		BaseRadius:     4,
		StartingHealth: 20,
		OpeningHand:    0,
		ResourceCap:    10,
		TurnLimit:      0,
	}
}

// fillerDeck pads a deck with filler cards so draws never run dry
// mid-test.
func fillerDeck(lead ...catalog.CardID) []catalog.CardID {
	deck := append([]catalog.CardID{}, lead...)
	for len(deck) < 20 {
		deck = append(deck, "filler")
	}
	return deck
}

func newTestMatchID() uuid.UUID {
	return uuid.New()
}

func newTestMatch(t *testing.T, rules Rules, deck1, deck2 []catalog.CardID) *Match {
	t.Helper()
	m, _, err := NewMatch(uuid.New(), testCatalog(t), rules, PlayerSetup{ID: "p1", Deck: deck1}, PlayerSetup{ID: "p2", Deck: deck2}, nil)
	if err != nil {
		t.Fatalf("NewMatch: %v", err)
	}
	return m
}

func passTurn(t *testing.T, m *Match, player string) *StateDelta {
	t.Helper()
	delta, err := m.Submit(player, Action{Type: ActionEndPhase})
	if err != nil {
		t.Fatalf("EndPhase for %s: %v", player, err)
	}
	return delta
}

func playCard(t *testing.T, m *Match, player string, card catalog.CardID, spec TargetSpec) *StateDelta {
	t.Helper()
	delta, err := m.Submit(player, Action{Type: ActionPlayCard, Card: card, Target: spec})
	if err != nil {
		t.Fatalf("PlayCard(%s) for %s: %v", card, player, err)
	}
	return delta
}

func cellTarget(c grid.Coord) TargetSpec {
	return TargetSpec{Cell: &c}
}
