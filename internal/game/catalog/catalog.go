package catalog

import (
	"errors"
	"fmt"
)

// ErrUnknownCard reports a lookup of a card id absent from the catalog.
var ErrUnknownCard = errors.New("unknown card")

// Catalog is the read-only card definition lookup shared by every
// match. The engine never mutates entries; per-instance state lives on
// units and combatants.
type Catalog struct {
	cards map[CardID]Card
}

// New builds a catalog from card definitions. Duplicate ids and
// malformed definitions are rejected.
func New(cards []Card) (*Catalog, error) {
	byID := make(map[CardID]Card, len(cards))
	for _, c := range cards {
		if c.ID == "" {
			return nil, fmt.Errorf("card %q has empty id", c.Name)
		}
		if _, dup := byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %q", c.ID)
		}
		if c.Cost < 0 {
			return nil, fmt.Errorf("card %q has negative cost %d", c.ID, c.Cost)
		}
		if c.Type == TypeClimber && c.Power <= 0 {
			return nil, fmt.Errorf("climber %q needs positive power, got %d", c.ID, c.Power)
		}
		for i, e := range c.Effects {
			if err := validateEffect(e); err != nil {
				return nil, fmt.Errorf("card %q effect %d: %w", c.ID, i, err)
			}
		}
		byID[c.ID] = c
	}
	return &Catalog{cards: byID}, nil
}

func validateEffect(e Effect) error {
	switch e.Kind {
	case EffectDamage, EffectHeal, EffectDraw:
		if e.Magnitude < 0 {
			return fmt.Errorf("%s magnitude must be non-negative, got %d", e.Kind, e.Magnitude)
		}
	case EffectBoost, EffectBuff:
		if e.Duration <= 0 {
			return fmt.Errorf("%s needs positive duration, got %d", e.Kind, e.Duration)
		}
		if e.Magnitude < 0 {
			return fmt.Errorf("%s magnitude must be non-negative, got %d", e.Kind, e.Magnitude)
		}
	case EffectDebuff:
		if e.Duration <= 0 {
			return fmt.Errorf("%s needs positive duration, got %d", e.Kind, e.Duration)
		}
	default:
		return fmt.Errorf("unknown effect kind %d", int(e.Kind))
	}
	return nil
}

// CardByID returns the definition for id.
func (c *Catalog) CardByID(id CardID) (Card, error) {
	card, ok := c.cards[id]
	if !ok {
		return Card{}, fmt.Errorf("%w: %q", ErrUnknownCard, id)
	}
	return card, nil
}

// Size returns the number of card definitions.
func (c *Catalog) Size() int {
	return len(c.cards)
}
