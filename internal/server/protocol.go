package server

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/ascentcg/ascent-server-go/internal/game"
	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
	"github.com/ascentcg/ascent-server-go/internal/game/grid"
)

// Client message types.
const (
	msgCreateMatch  = "create_match"
	msgJoinQueue    = "join_queue"
	msgLeaveQueue   = "leave_queue"
	msgSubmitAction = "submit_action"
	msgView         = "view"
	msgOutcome      = "outcome"
)

// Server message types.
const (
	msgMatchCreated = "match_created"
	msgQueued       = "queued"
	msgDelta        = "delta"
	msgViewState    = "view_state"
	msgOutcomeState = "outcome_state"
	msgError        = "error"
)

// clientMessage is one JSON frame from a client.
type clientMessage struct {
	Type     string      `json:"type"`
	MatchID  string      `json:"match_id,omitempty"`
	PlayerID string      `json:"player_id,omitempty"`
	Create   *createBody `json:"create,omitempty"`
	Deck     []string    `json:"deck,omitempty"`
	Action   *actionBody `json:"action,omitempty"`
}

type createBody struct {
	PlayerOne playerBody `json:"player_one"`
	PlayerTwo playerBody `json:"player_two"`
}

type playerBody struct {
	ID   string   `json:"id"`
	Deck []string `json:"deck"`
}

// actionBody is the wire form of a player action.
type actionBody struct {
	Type      string     `json:"type"`
	Card      string     `json:"card,omitempty"`
	Cell      *coordBody `json:"cell,omitempty"`
	Direction string     `json:"direction,omitempty"`
	Unit      string     `json:"unit,omitempty"`
	Dest      *coordBody `json:"dest,omitempty"`
}

type coordBody struct {
	Level int `json:"level"`
	Q     int `json:"q"`
	R     int `json:"r"`
}

// serverMessage is one JSON frame to a client.
type serverMessage struct {
	Type    string           `json:"type"`
	MatchID string           `json:"match_id,omitempty"`
	Error   string           `json:"error,omitempty"`
	Reason  string           `json:"reason,omitempty"`
	Delta   *deltaBody       `json:"delta,omitempty"`
	View    *game.PlayerView `json:"view,omitempty"`
	Outcome string           `json:"outcome,omitempty"`
}

type deltaBody struct {
	Events       []eventBody `json:"events"`
	Phase        string      `json:"phase"`
	Turn         int         `json:"turn"`
	ActivePlayer string      `json:"active_player"`
	Terminal     string      `json:"terminal,omitempty"`
}

type eventBody struct {
	Kind   string `json:"kind"`
	Unit   string `json:"unit,omitempty"`
	Player string `json:"player,omitempty"`
	Value  int    `json:"value,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func (b playerBody) setup() game.PlayerSetup {
	deck := make([]catalog.CardID, 0, len(b.Deck))
	for _, id := range b.Deck {
		deck = append(deck, catalog.CardID(id))
	}
	return game.PlayerSetup{ID: b.ID, Deck: deck}
}

var actionTypes = map[string]game.ActionType{
	"play_card": game.ActionPlayCard,
	"move_unit": game.ActionMoveUnit,
	"end_phase": game.ActionEndPhase,
}

var directions = map[string]grid.Direction{
	"east":       grid.DirEast,
	"north_east": grid.DirNorthEast,
	"north_west": grid.DirNorthWest,
	"west":       grid.DirWest,
	"south_west": grid.DirSouthWest,
	"south_east": grid.DirSouthEast,
}

func (b *actionBody) action() (game.Action, error) {
	kind, ok := actionTypes[b.Type]
	if !ok {
		return game.Action{}, fmt.Errorf("unknown action type %q", b.Type)
	}
	action := game.Action{Type: kind}

	switch kind {
	case game.ActionPlayCard:
		if b.Card == "" {
			return game.Action{}, fmt.Errorf("play_card needs a card id")
		}
		action.Card = catalog.CardID(b.Card)
		if b.Cell != nil {
			cell := b.Cell.coord()
			action.Target.Cell = &cell
		}
		if b.Direction != "" {
			dir, ok := directions[b.Direction]
			if !ok {
				return game.Action{}, fmt.Errorf("unknown direction %q", b.Direction)
			}
			action.Target.Direction = &dir
		}
	case game.ActionMoveUnit:
		unit, err := uuid.Parse(b.Unit)
		if err != nil {
			return game.Action{}, fmt.Errorf("invalid unit id %q: %w", b.Unit, err)
		}
		if b.Dest == nil {
			return game.Action{}, fmt.Errorf("move_unit needs a destination cell")
		}
		action.Unit = unit
		action.Dest = b.Dest.coord()
	}
	return action, nil
}

func (b *coordBody) coord() grid.Coord {
	return grid.Coord{Level: b.Level, Q: b.Q, R: b.R}
}

func encodeDelta(delta *game.StateDelta) *deltaBody {
	body := &deltaBody{
		Events:       make([]eventBody, 0, len(delta.Events)),
		Phase:        delta.Phase.String(),
		Turn:         delta.Turn,
		ActivePlayer: delta.ActivePlayer,
	}
	if delta.Terminal != nil {
		body.Terminal = delta.Terminal.String()
	}
	for _, e := range delta.Events {
		ev := eventBody{
			Kind:   e.Kind.String(),
			Player: e.Player,
			Value:  e.Value,
			Detail: e.Detail,
		}
		if e.Unit != uuid.Nil {
			ev.Unit = e.Unit.String()
		}
		body.Events = append(body.Events, ev)
	}
	return body
}

func errorMessage(err error) serverMessage {
	msg := serverMessage{Type: msgError, Error: err.Error()}
	var vErr *game.ValidationError
	if errors.As(err, &vErr) {
		msg.Reason = string(vErr.Reason)
	}
	return msg
}
