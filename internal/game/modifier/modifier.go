// Package modifier holds the timed stat alterations (buffs and debuffs)
// attached to units, and the stacking rules that govern how repeated
// applications from the same source combine.
package modifier

import "fmt"

// Stat names the numeric stat a modifier alters.
type Stat int

const (
	StatAttack Stat = iota
	StatDefense
	StatResource
)

var statNames = map[Stat]string{
	StatAttack:   "ATTACK",
	StatDefense:  "DEFENSE",
	StatResource: "RESOURCE",
}

func (s Stat) String() string {
	if name, ok := statNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STAT_%d", int(s))
}

// Stacking selects how a new modifier combines with an existing one
// from the same source card affecting the same stat.
type Stacking int

const (
	// StackAdditive merges same-source modifiers into one instance
	// whose magnitude is the sum.
	StackAdditive Stacking = iota
	// StackReplaceIfStronger keeps only the instance with the larger
	// absolute magnitude.
	StackReplaceIfStronger
	// StackRefreshDuration resets the existing instance's timer
	// instead of adding a duplicate.
	StackRefreshDuration
	// StackIndependent allows simultaneous instances, each decaying on
	// its own schedule.
	StackIndependent
)

var stackingNames = map[Stacking]string{
	StackAdditive:          "ADDITIVE",
	StackReplaceIfStronger: "REPLACE_IF_STRONGER",
	StackRefreshDuration:   "REFRESH_DURATION",
	StackIndependent:       "INDEPENDENT",
}

func (s Stacking) String() string {
	if name, ok := stackingNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STACKING_%d", int(s))
}

// Modifier is a timed stat alteration. Magnitude is positive for buffs
// and negative for debuffs. Remaining counts owning-turn starts until
// expiry; it strictly decreases once per tick and the modifier is
// removed at zero.
type Modifier struct {
	Source    string // card id the modifier came from
	Stat      Stat
	Magnitude int
	Remaining int
	Stacking  Stacking
}

// Set holds a unit's active modifiers, keyed by application order.
type Set struct {
	active []Modifier
}

// NewSet creates an empty modifier set.
func NewSet() *Set {
	return &Set{}
}

// Apply attaches m following its stacking policy.
func (s *Set) Apply(m Modifier) {
	switch m.Stacking {
	case StackAdditive:
		for i := range s.active {
			if s.active[i].Source == m.Source && s.active[i].Stat == m.Stat && s.active[i].Stacking == StackAdditive {
				s.active[i].Magnitude += m.Magnitude
				if m.Remaining > s.active[i].Remaining {
					s.active[i].Remaining = m.Remaining
				}
				return
			}
		}
	case StackReplaceIfStronger:
		for i := range s.active {
			if s.active[i].Source == m.Source && s.active[i].Stat == m.Stat && s.active[i].Stacking == StackReplaceIfStronger {
				if abs(m.Magnitude) > abs(s.active[i].Magnitude) {
					s.active[i] = m
				}
				return
			}
		}
	case StackRefreshDuration:
		for i := range s.active {
			if s.active[i].Source == m.Source && s.active[i].Stat == m.Stat && s.active[i].Stacking == StackRefreshDuration {
				s.active[i].Remaining = m.Remaining
				return
			}
		}
	case StackIndependent:
		// Always a fresh instance.
	}
	s.active = append(s.active, m)
}

// Tick decrements every remaining duration by one and removes expired
// modifiers. Called exactly once at the start of the owning player's
// turn.
func (s *Set) Tick() {
	kept := s.active[:0]
	for _, m := range s.active {
		m.Remaining--
		if m.Remaining > 0 {
			kept = append(kept, m)
		}
	}
	s.active = kept
}

// TotalFor sums the magnitudes of active modifiers on a stat.
func (s *Set) TotalFor(stat Stat) int {
	total := 0
	for _, m := range s.active {
		if m.Stat == stat {
			total += m.Magnitude
		}
	}
	return total
}

// Active returns a copy of the active modifiers in application order.
func (s *Set) Active() []Modifier {
	return append([]Modifier(nil), s.active...)
}

// Len returns the number of active modifier instances.
func (s *Set) Len() int {
	return len(s.active)
}

// Clear drops every active modifier; used when a unit is defeated.
func (s *Set) Clear() {
	s.active = nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
