package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchResult is the persisted record of a finished match.
type MatchResult struct {
	MatchID   uuid.UUID
	PlayerOne string
	PlayerTwo string
	Result    string
	Winner    string
	Turns     int
	Checksum  string
	EndedAt   time.Time
}

const matchResultsSchema = `
CREATE TABLE IF NOT EXISTS match_results (
    match_id   UUID PRIMARY KEY,
    player_one TEXT NOT NULL,
    player_two TEXT NOT NULL,
    result     TEXT NOT NULL,
    winner     TEXT NOT NULL DEFAULT '',
    turns      INTEGER NOT NULL,
    checksum   TEXT NOT NULL,
    ended_at   TIMESTAMPTZ NOT NULL
)`

// MatchStore writes finished match results.
type MatchStore struct {
	db     *DB
	logger *zap.Logger
}

// NewMatchStore creates the store and ensures its schema exists.
func NewMatchStore(ctx context.Context, db *DB, logger *zap.Logger) (*MatchStore, error) {
	if _, err := db.pool.Exec(ctx, matchResultsSchema); err != nil {
		return nil, fmt.Errorf("failed to create match_results table: %w", err)
	}
	return &MatchStore{db: db, logger: logger}, nil
}

// SaveResult inserts one finished match. Saving the same match twice is
// a no-op, which keeps retries after transient failures safe.
func (s *MatchStore) SaveResult(ctx context.Context, res MatchResult) error {
	const query = `
		INSERT INTO match_results (match_id, player_one, player_two, result, winner, turns, checksum, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (match_id) DO NOTHING`

	_, err := s.db.pool.Exec(ctx, query,
		res.MatchID, res.PlayerOne, res.PlayerTwo, res.Result, res.Winner, res.Turns, res.Checksum, res.EndedAt)
	if err != nil {
		return fmt.Errorf("failed to save match result: %w", err)
	}
	if s.logger != nil {
		s.logger.Debug("match result saved",
			zap.String("match_id", res.MatchID.String()),
			zap.String("result", res.Result),
		)
	}
	return nil
}

// ResultByMatch loads one finished match record.
func (s *MatchStore) ResultByMatch(ctx context.Context, matchID uuid.UUID) (*MatchResult, error) {
	const query = `
		SELECT match_id, player_one, player_two, result, winner, turns, checksum, ended_at
		FROM match_results WHERE match_id = $1`

	var res MatchResult
	row := s.db.pool.QueryRow(ctx, query, matchID)
	if err := row.Scan(&res.MatchID, &res.PlayerOne, &res.PlayerTwo, &res.Result,
		&res.Winner, &res.Turns, &res.Checksum, &res.EndedAt); err != nil {
		return nil, fmt.Errorf("failed to load match result: %w", err)
	}
	return &res, nil
}
