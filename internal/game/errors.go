package game

import (
	"fmt"
)

// Reason is a machine-readable rejection code attached to validation
// failures so callers can explain them.
type Reason string

const (
	ReasonMatchOver             Reason = "MATCH_OVER"
	ReasonNotActivePlayer       Reason = "NOT_ACTIVE_PLAYER"
	ReasonWrongPhase            Reason = "WRONG_PHASE"
	ReasonInsufficientResources Reason = "INSUFFICIENT_RESOURCES"
	ReasonCardNotInHand         Reason = "CARD_NOT_IN_HAND"
	ReasonBadTargetSpec         Reason = "BAD_TARGET_SPEC"
	ReasonOutOfRange            Reason = "OUT_OF_RANGE"
	ReasonNoTarget              Reason = "NO_TARGET"
	ReasonCellOccupied          Reason = "CELL_OCCUPIED"
	ReasonCellArmed             Reason = "CELL_ARMED"
	ReasonNotAdjacent           Reason = "NOT_ADJACENT"
	ReasonUnknownUnit           Reason = "UNKNOWN_UNIT"
	ReasonNotOwner              Reason = "NOT_OWNER"
	ReasonUnknownAction         Reason = "UNKNOWN_ACTION"
)

// ValidationError rejects an illegal player action. It is always
// recoverable: the submitting caller gets the reason and no state
// changed.
type ValidationError struct {
	Reason  Reason
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid action (%s): %s", e.Reason, e.Message)
}

func validationf(reason Reason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// InvariantViolation is a fatal engine fault: internal records disagree
// with each other. The match is aborted, not patched.
type InvariantViolation struct {
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("internal invariant violation: %s", e.Detail)
}
