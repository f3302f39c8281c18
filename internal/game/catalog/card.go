package catalog

import (
	"fmt"

	"github.com/ascentcg/ascent-server-go/internal/game/grid"
	"github.com/ascentcg/ascent-server-go/internal/game/modifier"
)

// CardID identifies a card definition. Definitions are immutable; the
// same id may be played any number of times, with all per-instance
// state living on units and combatants.
type CardID string

// Rarity grades a card definition.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityLegendary
)

var rarityNames = map[Rarity]string{
	RarityCommon:    "COMMON",
	RarityUncommon:  "UNCOMMON",
	RarityRare:      "RARE",
	RarityLegendary: "LEGENDARY",
}

func (r Rarity) String() string {
	if name, ok := rarityNames[r]; ok {
		return name
	}
	return fmt.Sprintf("RARITY_%d", int(r))
}

// CardType determines how a card reaches the board when played.
type CardType int

const (
	// TypeClimber summons a unit onto the chosen cell.
	TypeClimber CardType = iota
	// TypeSpell resolves its effects and goes to the discard.
	TypeSpell
	// TypeWeapon is a spell whose effects favor the caster's unit.
	TypeWeapon
	// TypeTrap arms face-down on the chosen cell and fires when a unit
	// moves through it.
	TypeTrap
	// TypeGear is a spell granting lasting modifiers.
	TypeGear
)

var cardTypeNames = map[CardType]string{
	TypeClimber: "CLIMBER",
	TypeSpell:   "SPELL",
	TypeWeapon:  "WEAPON",
	TypeTrap:    "TRAP",
	TypeGear:    "GEAR",
}

func (t CardType) String() string {
	if name, ok := cardTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("CARD_TYPE_%d", int(t))
}

// EffectKind tags the closed set of effect primitives. Resolution
// dispatches on the tag so ordering stays exhaustive and checkable.
type EffectKind int

const (
	EffectDamage EffectKind = iota
	EffectHeal
	EffectDraw
	EffectBoost
	EffectBuff
	EffectDebuff
)

var effectKindNames = map[EffectKind]string{
	EffectDamage: "DAMAGE",
	EffectHeal:   "HEAL",
	EffectDraw:   "DRAW",
	EffectBoost:  "BOOST",
	EffectBuff:   "BUFF",
	EffectDebuff: "DEBUFF",
}

func (k EffectKind) String() string {
	if name, ok := effectKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EFFECT_%d", int(k))
}

// ScalingKind selects what an effect's magnitude scales with on top of
// its base value.
type ScalingKind int

const (
	ScaleNone ScalingKind = iota
	ScaleMountainLevel
	ScaleCardsInHand
	ScaleCardsPlayed
	ScaleResourceSpent
)

// Scaling grows an effect's magnitude by Factor per counted unit.
type Scaling struct {
	Kind   ScalingKind
	Factor float64
}

// FilterOp compares a card attribute in a draw filter.
type FilterOp int

const (
	FilterEqual FilterOp = iota
	FilterLess
	FilterGreater
)

// DrawFilter restricts which deck card a Draw effect pulls. The first
// matching card from the top is drawn.
type DrawFilter struct {
	ByCost   *CostFilter
	ByType   *CardType
	ByRarity *Rarity
}

// CostFilter matches card cost against a threshold.
type CostFilter struct {
	Op   FilterOp
	Cost int
}

// Effect is one primitive in a card's ordered effect list.
type Effect struct {
	Kind      EffectKind
	Magnitude int
	Scaling   Scaling

	// Damage only: ignore the target's defense modifiers.
	Penetrating bool
	// Heal only: allow healing past max health.
	Overheal bool
	// Draw only.
	Filter *DrawFilter

	// Boost/Buff/Debuff only.
	Stat     modifier.Stat
	Duration int
	Stacking modifier.Stacking
}

// OriginFilter restricts which units a targeting rule may select.
type OriginFilter int

const (
	OriginAny OriginFilter = iota
	OriginSelf
	OriginAlly
	OriginEnemy
)

var originNames = map[OriginFilter]string{
	OriginAny:   "ANY",
	OriginSelf:  "SELF",
	OriginAlly:  "ALLY",
	OriginEnemy: "ENEMY",
}

func (o OriginFilter) String() string {
	if name, ok := originNames[o]; ok {
		return name
	}
	return fmt.Sprintf("ORIGIN_%d", int(o))
}

// RelativeTo anchors a targeting rule's origin cell.
type RelativeTo int

const (
	// RelativeCaster anchors the shape on the casting unit's cell.
	RelativeCaster RelativeTo = iota
	// RelativeChosenCell anchors the shape on a cell the player picks
	// within range of the caster.
	RelativeChosenCell
)

// TargetingRule describes how a card's target set is computed.
type TargetingRule struct {
	Shape      grid.ShapeKind
	Range      int
	Radius     int // area shape only
	Origin     OriginFilter
	RelativeTo RelativeTo
}

// Card is an immutable card definition.
type Card struct {
	ID      CardID
	Name    string
	Type    CardType
	Rarity  Rarity
	Cost    int
	Power   int // climber health when summoned
	Effects []Effect
	Target  TargetingRule
}
