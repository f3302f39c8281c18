package game

import (
	"compress/gzip"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ascentcg/ascent-server-go/internal/game/catalog"
)

const replayVersion = 1

// RecordedAction is one accepted player action in a match's history.
type RecordedAction struct {
	Player string
	Action Action
}

// Replay is everything needed to rebuild a match deterministically:
// the rules, the players' deck orders and the accepted action sequence.
// The final checksum lets the rebuilt match prove it converged.
type Replay struct {
	Version       int
	MatchID       uuid.UUID
	Rules         Rules
	Players       [2]PlayerSetup
	Actions       []RecordedAction
	FinalChecksum string
}

// ReplayRecord snapshots the match's history so far.
func (m *Match) ReplayRecord() *Replay {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &Replay{
		Version:       replayVersion,
		MatchID:       m.id,
		Rules:         m.rules,
		Players:       m.setup,
		Actions:       append([]RecordedAction(nil), m.actions...),
		FinalChecksum: m.checksumLocked(),
	}
}

// Rebuild replays the recorded actions against a fresh match and
// verifies the final checksum. The catalog must be the one the match
// was played with.
func (r *Replay) Rebuild(cat *catalog.Catalog, logger *zap.Logger) (*Match, error) {
	if r.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", r.Version)
	}

	m, _, err := NewMatch(r.MatchID, cat, r.Rules, r.Players[0], r.Players[1], logger)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild match: %w", err)
	}
	for i, rec := range r.Actions {
		if _, err := m.Submit(rec.Player, rec.Action); err != nil {
			return nil, fmt.Errorf("replay diverged at action %d (%s): %w", i, rec.Action, err)
		}
	}
	if got := m.Checksum(); got != r.FinalChecksum {
		return nil, fmt.Errorf("checksum mismatch: recorded=%s, replayed=%s", r.FinalChecksum, got)
	}
	return m, nil
}

// SaveFile writes the replay gob-encoded and gzip-compressed.
func (r *Replay) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	zw := gzip.NewWriter(f)
	defer zw.Close()

	if err := gob.NewEncoder(zw).Encode(r); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}
	return nil
}

// LoadReplayFile reads a replay written by SaveFile.
func LoadReplayFile(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer zr.Close()

	var r Replay
	if err := gob.NewDecoder(zr).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if r.Version != replayVersion {
		return nil, fmt.Errorf("unsupported replay version: %d", r.Version)
	}
	return &r, nil
}
