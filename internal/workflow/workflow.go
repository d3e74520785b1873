// Package workflow enforces the status-transition rule of the board.
//
// The rule is a single forbidden edge: an issue may never move directly
// from open to done. Every other transition, including a no-op to the same
// status, is allowed. The guard is a pure function of the two statuses.
package workflow

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/telemetry"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

// ErrTransitionRejected is returned by Transition when the guard denies the
// requested status change. The store is left untouched.
var ErrTransitionRejected = errors.New("an issue cannot move directly from Open to Done")

// CanTransition reports whether an issue may move from current to requested.
func CanTransition(current, requested types.Status) bool {
	return !(current == types.StatusOpen && requested == types.StatusDone)
}

// Transition applies a guarded status change through the store. Exactly one
// field (status) is written; on rejection no write is issued and
// ErrTransitionRejected is returned for the caller to surface.
func Transition(ctx context.Context, s store.Store, id string, current, requested types.Status) error {
	if !CanTransition(current, requested) {
		telemetry.CountTransitionRejected(ctx)
		return ErrTransitionRejected
	}
	if err := s.UpdateIssueField(ctx, id, "status", string(requested)); err != nil {
		return fmt.Errorf("updating status of %s: %w", id, err)
	}
	return nil
}
