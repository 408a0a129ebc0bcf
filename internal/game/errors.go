package game

import (
	"errors"
	"fmt"
)

// Reason classifies why a command was rejected. Every rule violation is
// reported through a RuleError carrying one of these codes; the state is
// left untouched and nothing panics.
type Reason string

const (
	ReasonInvalidPlacement Reason = "invalid_placement"
	ReasonInvalidMove      Reason = "invalid_move"
	ReasonInvalidAttack    Reason = "invalid_attack"
	ReasonOutOfRange       Reason = "out_of_range"
	ReasonNotWorker        Reason = "not_worker"
	ReasonWrongPhase       Reason = "wrong_phase"
	ReasonOnCooldown       Reason = "on_cooldown"
	ReasonNoNodeInRange    Reason = "no_node_in_range"
	ReasonNodeEmpty        Reason = "node_empty"
	ReasonNoActions        Reason = "no_actions"
	ReasonUnknownUnit      Reason = "unknown_unit"
	ReasonGameEnded        Reason = "game_ended"
)

// RuleError is the typed failure returned by every command when a rule
// forbids it. The message is safe to show to the player.
type RuleError struct {
	Reason  Reason
	Message string
}

// Error implements the error interface.
func (e *RuleError) Error() string {
	return fmt.Sprintf("%s: %s", e.Reason, e.Message)
}

// ruleErr builds a RuleError with a formatted message.
func ruleErr(reason Reason, format string, args ...any) *RuleError {
	return &RuleError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// ReasonOf extracts the reason code from an error, or empty if the error is
// not a rule violation.
func ReasonOf(err error) Reason {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Reason
	}
	return ""
}
