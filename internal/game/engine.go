// Package game implements the Ascent match engine: the mountain board,
// card effect resolution and the turn state machine. One Match value is
// one running match; the Engine multiplexes independent matches, each
// serialized behind its own lock.
package game

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
)

// Engine owns the running matches. The engine performs no I/O and
// never blocks: every call validates, applies and returns.
type Engine struct {
	logger  *zap.Logger
	catalog *catalog.Catalog
	rules   Rules

	mu      sync.RWMutex
	matches map[uuid.UUID]*Match
}

// NewEngine creates an engine serving matches from one shared,
// immutable catalog.
func NewEngine(cat *catalog.Catalog, rules Rules, logger *zap.Logger) *Engine {
	return &Engine{
		logger:  logger,
		catalog: cat,
		rules:   rules,
		matches: make(map[uuid.UUID]*Match),
	}
}

// CreateMatch starts a match between two players and returns its id
// together with the setup delta (opening phases of player one's first
// turn).
func (e *Engine) CreateMatch(p1, p2 PlayerSetup) (uuid.UUID, *StateDelta, error) {
	id := uuid.New()
	m, delta, err := NewMatch(id, e.catalog, e.rules, p1, p2, e.logger)
	if err != nil {
		return uuid.Nil, nil, err
	}

	e.mu.Lock()
	e.matches[id] = m
	e.mu.Unlock()

	if e.logger != nil {
		e.logger.Info("match created",
			zap.String("match_id", id.String()),
			zap.String("player_one", p1.ID),
			zap.String("player_two", p2.ID),
		)
	}
	return id, delta, nil
}

// match looks up a running match.
func (e *Engine) match(id uuid.UUID) (*Match, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	m, ok := e.matches[id]
	if !ok {
		return nil, fmt.Errorf("match %s not found", id)
	}
	return m, nil
}

// SubmitAction validates and applies one player action against a match.
func (e *Engine) SubmitAction(matchID uuid.UUID, playerID string, action Action) (*StateDelta, error) {
	m, err := e.match(matchID)
	if err != nil {
		return nil, err
	}
	return m.Submit(playerID, action)
}

// View returns the read-only player-visible snapshot of a match.
func (e *Engine) View(matchID uuid.UUID, playerID string) (*PlayerView, error) {
	m, err := e.match(matchID)
	if err != nil {
		return nil, err
	}
	return m.View(playerID)
}

// Outcome reports the terminal outcome of a match, if reached.
func (e *Engine) Outcome(matchID uuid.UUID) (MatchOutcome, bool, error) {
	m, err := e.match(matchID)
	if err != nil {
		return MatchOutcome{}, false, err
	}
	out, ok := m.Outcome()
	return out, ok, nil
}

// ReplayRecord snapshots a match's replayable history.
func (e *Engine) ReplayRecord(matchID uuid.UUID) (*Replay, error) {
	m, err := e.match(matchID)
	if err != nil {
		return nil, err
	}
	return m.ReplayRecord(), nil
}
