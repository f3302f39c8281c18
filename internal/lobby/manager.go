// Package lobby pairs queued players into matches. The queue is
// first-come first-served: the moment two players wait, they are
// paired.
package lobby

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ascentcg/ascent-server-go/internal/game"
)

// Entry is one queued player.
type Entry struct {
	Player game.PlayerSetup
	Since  time.Time
}

// Manager holds the matchmaking queue.
type Manager struct {
	mu      sync.Mutex
	waiting []Entry
	logger  *zap.Logger
}

// NewManager creates an empty queue.
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Join queues a player. When an opponent is already waiting, both
// entries are removed and returned as a pairing; otherwise the player
// waits and ok is false. A player cannot queue twice.
func (m *Manager) Join(setup game.PlayerSetup) (opponent Entry, ok bool, err error) {
	if setup.ID == "" {
		return Entry{}, false, fmt.Errorf("player id must not be empty")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range m.waiting {
		if e.Player.ID == setup.ID {
			return Entry{}, false, fmt.Errorf("player %s is already queued", setup.ID)
		}
	}

	if len(m.waiting) > 0 {
		opponent = m.waiting[0]
		m.waiting = m.waiting[1:]
		if m.logger != nil {
			m.logger.Info("players paired",
				zap.String("player_one", opponent.Player.ID),
				zap.String("player_two", setup.ID),
				zap.Duration("waited", time.Since(opponent.Since)),
			)
		}
		return opponent, true, nil
	}

	m.waiting = append(m.waiting, Entry{Player: setup, Since: time.Now()})
	if m.logger != nil {
		m.logger.Info("player queued", zap.String("player", setup.ID))
	}
	return Entry{}, false, nil
}

// Leave removes a queued player, reporting whether they were waiting.
func (m *Manager) Leave(playerID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, e := range m.waiting {
		if e.Player.ID == playerID {
			m.waiting = append(m.waiting[:i], m.waiting[i+1:]...)
			if m.logger != nil {
				m.logger.Info("player left queue", zap.String("player", playerID))
			}
			return true
		}
	}
	return false
}

// Waiting lists the queued player ids in queue order.
func (m *Manager) Waiting() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0, len(m.waiting))
	for _, e := range m.waiting {
		ids = append(ids, e.Player.ID)
	}
	return ids
}
