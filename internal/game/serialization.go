package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// Checksum computes a deterministic digest of the match state. Two
// matches built from the same catalog, rules, decks and action sequence
// produce identical checksums; replays and network peers use this to
// detect divergence.
func (m *Match) Checksum() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checksumLocked()
}

func (m *Match) checksumLocked() string {
	hash := sha256.Sum256([]byte(m.buildDeterministicRepresentation()))
	return hex.EncodeToString(hash[:])
}

// buildDeterministicRepresentation writes a canonical text form of the
// match state: maps walked in sorted order, units in canonical cell
// order, so the output never depends on iteration order.
func (m *Match) buildDeterministicRepresentation() string {
	var buf bytes.Buffer

	outcome := "-"
	if m.outcome != nil {
		outcome = m.outcome.String()
	}
	fmt.Fprintf(&buf, "MATCH:%s|%d|%s|%s|%s\n", m.id, m.turn, m.phase, m.active().id, outcome)

	for _, p := range m.players {
		fmt.Fprintf(&buf, "PLAYER:%s|%d|%d|%d\n", p.id, p.pool.Current(), p.pool.Max(), p.turnsTaken)
		fmt.Fprintf(&buf, "DECK:%v\nHAND:%v\nDISCARD:%v\n", p.zones.Deck, p.zones.Hand, p.zones.Discard)
	}

	units := make([]*Unit, 0, len(m.units))
	for _, u := range m.units {
		if !u.Defeated {
			units = append(units, u)
		}
	}
	sortUnits(units)
	for _, u := range units {
		fmt.Fprintf(&buf, "UNIT:%s|%s|%s|%s|%d/%d|%t\n", u.ID, u.Owner, u.Card, u.Coord, u.Health, u.MaxHealth, u.Avatar)
		for _, mod := range u.Modifiers.Active() {
			fmt.Fprintf(&buf, "MOD:%s|%s|%d|%d|%s\n", mod.Source, mod.Stat, mod.Magnitude, mod.Remaining, mod.Stacking)
		}
	}

	lines := make([]string, 0, len(m.traps))
	for cell, armed := range m.traps {
		for _, t := range armed {
			lines = append(lines, fmt.Sprintf("TRAP:%s|%s|%s", cell, t.owner, t.card))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(&buf, line)
	}

	return buf.String()
}
