package game

import (
	"errors"

	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
)

// ErrDeckEmpty reports a draw from an empty deck. It is a terminal
// condition trigger handled by the turn machine, not a hard error.
var ErrDeckEmpty = errors.New("deck empty")

// Zones holds one player's card zones. Cards move between deck, hand,
// discard and the board, but are never duplicated or lost: the multiset
// union stays fixed for the whole match.
type Zones struct {
	Deck    []catalog.CardID
	Hand    []catalog.CardID
	Discard []catalog.CardID
}

// NewZones creates zones with the given deck order. The order is the
// caller's responsibility; the engine never shuffles, so a match is
// replayable from its action sequence alone.
func NewZones(deck []catalog.CardID) *Zones {
	return &Zones{
		Deck:    append([]catalog.CardID(nil), deck...),
		Hand:    make([]catalog.CardID, 0, 8),
		Discard: make([]catalog.CardID, 0, 8),
	}
}

// Draw moves the top deck card into the hand.
func (z *Zones) Draw() (catalog.CardID, error) {
	if len(z.Deck) == 0 {
		return "", ErrDeckEmpty
	}
	card := z.Deck[0]
	z.Deck = z.Deck[1:]
	z.Hand = append(z.Hand, card)
	return card, nil
}

// DrawMatching moves the first deck card (from the top) accepted by
// match into the hand. Returns ErrDeckEmpty when no card matches, which
// deliberately does NOT trigger the deck-out terminal condition; the
// caller distinguishes a filtered miss from a true empty deck.
func (z *Zones) DrawMatching(match func(catalog.CardID) bool) (catalog.CardID, error) {
	for i, card := range z.Deck {
		if match(card) {
			z.Deck = append(z.Deck[:i], z.Deck[i+1:]...)
			z.Hand = append(z.Hand, card)
			return card, nil
		}
	}
	return "", ErrDeckEmpty
}

// RemoveFromHand takes one copy of card out of the hand, reporting
// whether it was present.
func (z *Zones) RemoveFromHand(card catalog.CardID) bool {
	for i, c := range z.Hand {
		if c == card {
			z.Hand = append(z.Hand[:i], z.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// ToDiscard appends card to the discard pile.
func (z *Zones) ToDiscard(card catalog.CardID) {
	z.Discard = append(z.Discard, card)
}

// Count returns the total cards across deck, hand and discard. Board
// cards are tracked by the match and added there when checking the
// conservation invariant.
func (z *Zones) Count() int {
	return len(z.Deck) + len(z.Hand) + len(z.Discard)
}

// HandContains reports whether the hand holds at least one copy of card.
func (z *Zones) HandContains(card catalog.CardID) bool {
	for _, c := range z.Hand {
		if c == card {
			return true
		}
	}
	return false
}
