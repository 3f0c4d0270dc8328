package models

import (
	"coverflow/pkg/domainerrors"
)

// Status is the submission lifecycle state. Transitions are driven by the
// allowedTransitions table, never by ad hoc string checks.
type Status string

const (
	// StatusPending: created, nothing sent to the insurer yet.
	StatusPending Status = "pending"
	// StatusCalculating: an offer calculation succeeded; offer id is stored.
	StatusCalculating Status = "calculating"
	// StatusRegistered: offer details registered with the insurer.
	StatusRegistered Status = "registered"
	// StatusSent: issuance was requested; awaiting insurer confirmation.
	StatusSent Status = "sent"
	// StatusIssued: insurer confirmed the policy exists.
	StatusIssued Status = "issued"
	// StatusAccepted: insurer reports the policy active.
	StatusAccepted Status = "accepted"
	// StatusError: the last external call failed; retryable.
	StatusError Status = "error"
	// StatusCancelled: terminal, local cancellation.
	StatusCancelled Status = "cancelled"
	// StatusManualCheckRequired: terminal escape hatch after repeated sync
	// failures; background reconciliation stops here.
	StatusManualCheckRequired Status = "manual_check_required"
)

var allowedTransitions = map[Status][]Status{
	StatusPending:     {StatusCalculating, StatusError},
	StatusCalculating: {StatusRegistered, StatusError},
	StatusRegistered:  {StatusSent, StatusCancelled, StatusError},
	StatusSent:        {StatusIssued, StatusAccepted, StatusCancelled, StatusError, StatusManualCheckRequired},
	StatusIssued:      {StatusAccepted, StatusCancelled, StatusManualCheckRequired},
	StatusAccepted:    {StatusCancelled, StatusManualCheckRequired},
	StatusError:       {StatusCalculating, StatusManualCheckRequired},
	// Terminal states.
	StatusCancelled:           {},
	StatusManualCheckRequired: {},
}

// CanTransition reports whether from -> to is a legal lifecycle move.
func CanTransition(from, to Status) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions exist from s.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions[s]) == 0
}

// Cancellable statuses: a local cancel is only permitted once the insurer has
// something registered and before the policy reaches a terminal state.
func (s Status) Cancellable() bool {
	switch s {
	case StatusSent, StatusRegistered, StatusIssued:
		return true
	}
	return false
}

// Transition validates and applies a status change.
func (sub *Submission) Transition(to Status) error {
	if !CanTransition(sub.Status, to) {
		return domainerrors.Newf(domainerrors.CodeInvalidState,
			"illegal transition from %q to %q", sub.Status, to)
	}
	sub.Status = to
	return nil
}

// ForceStatus bypasses the transition table. Reserved for branches reachable
// from any non-terminal status: the error side branch and the sync escape
// hatch that parks a submission in manual_check_required.
func (sub *Submission) ForceStatus(to Status) {
	sub.Status = to
}
