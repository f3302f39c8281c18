package game

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
	"github.com/ascentcg/ascent-server-go/internal/game/grid"
)

// ActionType tags the closed set of player actions.
type ActionType int

const (
	ActionPlayCard ActionType = iota
	ActionMoveUnit
	ActionEndPhase
)

var actionNames = map[ActionType]string{
	ActionPlayCard: "PLAY_CARD",
	ActionMoveUnit: "MOVE_UNIT",
	ActionEndPhase: "END_PHASE",
}

func (t ActionType) String() string {
	if name, ok := actionNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ACTION_%d", int(t))
}

// TargetSpec is the player's chosen anchor for a card whose targeting
// rule needs one: a cell for chosen-cell anchors, a direction for line
// shapes.
type TargetSpec struct {
	Cell      *grid.Coord
	Direction *grid.Direction
}

// Action is one intended player action, kept as a flat tagged struct so
// accepted actions gob-encode directly into the replay log.
type Action struct {
	Type ActionType

	// ActionPlayCard
	Card   catalog.CardID
	Target TargetSpec

	// ActionMoveUnit
	Unit uuid.UUID
	Dest grid.Coord
}

func (a Action) String() string {
	switch a.Type {
	case ActionPlayCard:
		return fmt.Sprintf("%s(%s)", a.Type, a.Card)
	case ActionMoveUnit:
		return fmt.Sprintf("%s(%s -> %s)", a.Type, a.Unit, a.Dest)
	default:
		return a.Type.String()
	}
}

// EventKind classifies a single entry of a resolution log.
type EventKind int

const (
	EventDamage EventKind = iota
	EventHeal
	EventDraw
	EventModifier
	EventDefeat
	EventSummon
	EventTrapArmed
	EventTrapSprung
	EventMove
	EventSkipped
	EventPhase
	EventTerminal
)

var eventNames = map[EventKind]string{
	EventDamage:     "DAMAGE",
	EventHeal:       "HEAL",
	EventDraw:       "DRAW",
	EventModifier:   "MODIFIER",
	EventDefeat:     "DEFEAT",
	EventSummon:     "SUMMON",
	EventTrapArmed:  "TRAP_ARMED",
	EventTrapSprung: "TRAP_SPRUNG",
	EventMove:       "MOVE",
	EventSkipped:    "SKIPPED",
	EventPhase:      "PHASE",
	EventTerminal:   "TERMINAL",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EVENT_%d", int(k))
}

// Event is one discrete outcome produced while applying an action:
// an effect landing on a unit, a phase transition, a skip.
type Event struct {
	Kind   EventKind
	Unit   uuid.UUID // affected unit, if any
	Player string    // affected player, if any
	Value  int       // damage dealt, health restored, cards drawn, modifier magnitude
	Detail string
}

// StateDelta reports what one accepted action changed: the ordered
// event log plus where the match stands afterwards.
type StateDelta struct {
	Events       []Event
	Phase        Phase
	Turn         int
	ActivePlayer string
	Terminal     *MatchOutcome
}
