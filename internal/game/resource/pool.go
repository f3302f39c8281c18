// Package resource implements the per-turn spendable pool used to pay
// card costs.
package resource

import "fmt"

// Pool tracks a player's current and maximum resources. Current resets
// to the turn-dependent maximum at the start of each of the owner's
// turns, never exceeds the maximum, and never goes negative.
type Pool struct {
	current int
	max     int
	cap     int
}

// NewPool creates an empty pool whose per-turn maximum ramps with the
// turn number up to cap.
func NewPool(cap int) *Pool {
	if cap < 1 {
		cap = 1
	}
	return &Pool{cap: cap}
}

// Current returns the spendable amount.
func (p *Pool) Current() int {
	return p.current
}

// Max returns this turn's maximum.
func (p *Pool) Max() int {
	return p.max
}

// InsufficientError reports a spend beyond the current pool. The pool is
// untouched when it is returned.
type InsufficientError struct {
	Need int
	Have int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("insufficient resources: need %d, have %d", e.Need, e.Have)
}

// Spend removes amount from the pool, leaving it unchanged on failure.
func (p *Pool) Spend(amount int) error {
	if amount < 0 {
		return fmt.Errorf("cannot spend negative amount %d", amount)
	}
	if amount > p.current {
		return &InsufficientError{Need: amount, Have: p.current}
	}
	p.current -= amount
	return nil
}

// Gain adds amount to the pool, clamped at this turn's maximum.
func (p *Pool) Gain(amount int) {
	if amount <= 0 {
		return
	}
	p.current += amount
	if p.current > p.max {
		p.current = p.max
	}
}

// ResetForTurn sets the pool for the owner's turn: the maximum is the
// player's turn count plus bonus (resource-stat modifiers), clamped to
// the ramp cap, and the pool refills to it.
func (p *Pool) ResetForTurn(playerTurn, bonus int) {
	max := playerTurn + bonus
	if max > p.cap+bonus {
		max = p.cap + bonus
	}
	if max < 0 {
		max = 0
	}
	p.max = max
	p.current = max
}
