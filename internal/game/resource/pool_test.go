package resource

import (
	"errors"
	"testing"
)

func TestSpend(t *testing.T) {
	pool := NewPool(10)
	pool.ResetForTurn(3, 0)

	if pool.Current() != 3 {
		t.Fatalf("expected 3 resources after turn 3 reset, got %d", pool.Current())
	}
	if err := pool.Spend(2); err != nil {
		t.Fatalf("Spend(2): %v", err)
	}
	if pool.Current() != 1 {
		t.Errorf("expected 1 remaining, got %d", pool.Current())
	}
}

func TestSpendInsufficientLeavesPoolUnchanged(t *testing.T) {
	pool := NewPool(10)
	pool.ResetForTurn(3, 0)

	err := pool.Spend(5)
	if err == nil {
		t.Fatal("expected error spending 5 with pool of 3")
	}
	var insufficient *InsufficientError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected InsufficientError, got %T: %v", err, err)
	}
	if insufficient.Need != 5 || insufficient.Have != 3 {
		t.Errorf("error detail = need %d have %d, want need 5 have 3", insufficient.Need, insufficient.Have)
	}
	if pool.Current() != 3 {
		t.Errorf("pool changed on failed spend: %d, want 3", pool.Current())
	}
}

func TestSpendNegative(t *testing.T) {
	pool := NewPool(10)
	pool.ResetForTurn(1, 0)
	if err := pool.Spend(-1); err == nil {
		t.Error("expected error spending negative amount")
	}
}

func TestResetForTurnRamp(t *testing.T) {
	pool := NewPool(5)

	tests := []struct {
		turn, bonus, wantMax int
	}{
		{1, 0, 1},
		{4, 0, 4},
		{5, 0, 5},
		{9, 0, 5},  // capped
		{9, 2, 7},  // resource modifiers raise the cap
		{2, -3, 0}, // debuffs cannot push below zero
	}
	for _, tt := range tests {
		pool.ResetForTurn(tt.turn, tt.bonus)
		if pool.Max() != tt.wantMax {
			t.Errorf("ResetForTurn(%d, %d): max = %d, want %d", tt.turn, tt.bonus, pool.Max(), tt.wantMax)
		}
		if pool.Current() != tt.wantMax {
			t.Errorf("ResetForTurn(%d, %d): current = %d, want %d", tt.turn, tt.bonus, pool.Current(), tt.wantMax)
		}
	}
}

func TestGainClampsAtMax(t *testing.T) {
	pool := NewPool(10)
	pool.ResetForTurn(3, 0)
	pool.Spend(2)

	pool.Gain(5)
	if pool.Current() != 3 {
		t.Errorf("gain should clamp at max 3, got %d", pool.Current())
	}
}
