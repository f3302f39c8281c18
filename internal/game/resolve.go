package game

import (
	"fmt"

	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
	"github.com/ascentcg/ascent-server-go/internal/game/modifier"
)

// resolveEffects applies a card's ordered effect list to the target
// set. Effects resolve strictly in list order; within one effect the
// targets resolve in canonical cell order. A target defeated by an
// earlier effect is skipped and logged, never an error.
func (m *Match) resolveEffects(card catalog.Card, caster *Unit, targets []*Unit, delta *StateDelta) {
	for _, effect := range card.Effects {
		for _, target := range targets {
			if m.outcome != nil && effect.Kind == catalog.EffectDraw {
				// A deck-out already ended the match; stop drawing.
				continue
			}
			if target.Defeated {
				m.event(delta, Event{Kind: EventSkipped, Unit: target.ID,
					Detail: fmt.Sprintf("%s: target already defeated", effect.Kind)})
				continue
			}
			m.applyEffect(card, effect, caster, target, delta)
		}
	}
}

func (m *Match) applyEffect(card catalog.Card, effect catalog.Effect, caster, target *Unit, delta *StateDelta) {
	magnitude := m.scaledMagnitude(effect, caster)

	switch effect.Kind {
	case catalog.EffectDamage:
		m.applyDamage(effect, magnitude, caster, target, delta)
	case catalog.EffectHeal:
		m.applyHeal(effect, magnitude, target, delta)
	case catalog.EffectDraw:
		m.applyDraw(effect, magnitude, target, delta)
	case catalog.EffectBoost, catalog.EffectBuff:
		m.applyModifier(card, effect, magnitude, target, delta)
	case catalog.EffectDebuff:
		m.applyModifier(card, effect, -abs(magnitude), target, delta)
	}
}

// scaledMagnitude grows the base magnitude by the effect's scaling
// factor: the caster's level on the mountain, the owning player's hand
// size, cards played or resources spent this turn. A trap with no
// surviving caster resolves at base magnitude.
func (m *Match) scaledMagnitude(effect catalog.Effect, caster *Unit) int {
	base := effect.Magnitude
	if effect.Scaling.Kind == catalog.ScaleNone || caster == nil {
		return base
	}

	var count int
	switch effect.Scaling.Kind {
	case catalog.ScaleMountainLevel:
		count = caster.Coord.Level
	case catalog.ScaleCardsInHand:
		if p := m.player(caster.Owner); p != nil {
			count = len(p.zones.Hand)
		}
	case catalog.ScaleCardsPlayed:
		if p := m.player(caster.Owner); p != nil {
			count = p.cardsPlayed
		}
	case catalog.ScaleResourceSpent:
		if p := m.player(caster.Owner); p != nil {
			count = p.spentThisTurn
		}
	}
	return base + int(effect.Scaling.Factor*float64(count))
}

// applyDamage deals magnitude adjusted by the caster's attack modifiers
// and the target's defense modifiers. The net amount floors at zero:
// damage never becomes healing through negative stacking. A unit
// reaching zero health is defeated and leaves the occupancy index in
// the same step.
func (m *Match) applyDamage(effect catalog.Effect, magnitude int, caster, target *Unit, delta *StateDelta) {
	net := magnitude
	if caster != nil {
		net += caster.Modifiers.TotalFor(modifier.StatAttack)
	}
	if !effect.Penetrating {
		net -= target.Modifiers.TotalFor(modifier.StatDefense)
	}
	if net < 0 {
		net = 0
	}

	target.Health -= net
	if target.Health < 0 {
		target.Health = 0
	}
	m.event(delta, Event{Kind: EventDamage, Unit: target.ID, Player: target.Owner, Value: net})

	if target.Health == 0 {
		m.defeat(target, delta)
	}
}

func (m *Match) applyHeal(effect catalog.Effect, magnitude int, target *Unit, delta *StateDelta) {
	if magnitude < 0 {
		magnitude = 0
	}
	before := target.Health
	target.Health += magnitude
	if !effect.Overheal && target.Health > target.MaxHealth {
		target.Health = target.MaxHealth
	}
	m.event(delta, Event{Kind: EventHeal, Unit: target.ID, Player: target.Owner, Value: target.Health - before})
}

// applyDraw draws magnitude cards for the target unit's owner. A plain
// draw from an empty deck is the deck-out terminal condition; a
// filtered draw that finds no match is just a logged miss.
func (m *Match) applyDraw(effect catalog.Effect, magnitude int, target *Unit, delta *StateDelta) {
	p := m.player(target.Owner)
	if p == nil {
		return
	}
	for i := 0; i < magnitude; i++ {
		var card catalog.CardID
		var err error
		if effect.Filter != nil {
			// A filtered draw that finds nothing is a miss, never a
			// deck-out.
			card, err = p.zones.DrawMatching(m.filterFunc(*effect.Filter))
			if err != nil {
				m.event(delta, Event{Kind: EventSkipped, Player: p.id, Detail: "no deck card matches the draw filter"})
				return
			}
		} else {
			card, err = p.zones.Draw()
		}
		if err != nil {
			m.declareOutcome(delta, MatchOutcome{Result: ResultVictory, Winner: m.opponentOf(p.id).id},
				fmt.Sprintf("%s must draw from an empty deck", p.id))
			return
		}
		m.event(delta, Event{Kind: EventDraw, Player: p.id, Value: 1, Detail: string(card)})
	}
}

func (m *Match) filterFunc(filter catalog.DrawFilter) func(catalog.CardID) bool {
	return func(id catalog.CardID) bool {
		card, err := m.catalog.CardByID(id)
		if err != nil {
			return false
		}
		if filter.ByType != nil && card.Type != *filter.ByType {
			return false
		}
		if filter.ByRarity != nil && card.Rarity != *filter.ByRarity {
			return false
		}
		if filter.ByCost != nil {
			switch filter.ByCost.Op {
			case catalog.FilterEqual:
				if card.Cost != filter.ByCost.Cost {
					return false
				}
			case catalog.FilterLess:
				if card.Cost >= filter.ByCost.Cost {
					return false
				}
			case catalog.FilterGreater:
				if card.Cost <= filter.ByCost.Cost {
					return false
				}
			}
		}
		return true
	}
}

func (m *Match) applyModifier(card catalog.Card, effect catalog.Effect, magnitude int, target *Unit, delta *StateDelta) {
	target.Modifiers.Apply(modifier.Modifier{
		Source:    string(card.ID),
		Stat:      effect.Stat,
		Magnitude: magnitude,
		Remaining: effect.Duration,
		Stacking:  effect.Stacking,
	})
	m.event(delta, Event{Kind: EventModifier, Unit: target.ID, Player: target.Owner, Value: magnitude,
		Detail: fmt.Sprintf("%s %s for %d turns", card.ID, effect.Stat, effect.Duration)})
}

// defeat removes a unit from play: occupancy cleared, modifiers
// dropped, and a climber's card moved to its owner's discard so the
// card conservation law holds.
func (m *Match) defeat(unit *Unit, delta *StateDelta) {
	unit.Defeated = true
	m.mountain.Remove(unit.Coord)
	unit.Modifiers.Clear()
	if unit.Card != "" {
		if p := m.player(unit.Owner); p != nil {
			p.zones.ToDiscard(unit.Card)
		}
	}
	m.event(delta, Event{Kind: EventDefeat, Unit: unit.ID, Player: unit.Owner})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
