// Package sib provides a minimal public API for embedding the issue board
// in other Go programs.
//
// It exports only the essential types and functions: the issue model, the
// board filter, duplicate matching, the status workflow, live snapshots,
// and the JSONL storage layer. Everything else lives under internal/.
package sib

import (
	"context"

	"github.com/Dworak0/Smart-Issue-Board/internal/filter"
	"github.com/Dworak0/Smart-Issue-Board/internal/livesync"
	"github.com/Dworak0/Smart-Issue-Board/internal/match"
	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/store/jsonl"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
	"github.com/Dworak0/Smart-Issue-Board/internal/workflow"
)

// Core types for working with issues
type (
	Issue    = types.Issue
	Status   = types.Status
	Priority = types.Priority
)

// Status constants
const (
	StatusOpen       = types.StatusOpen
	StatusInProgress = types.StatusInProgress
	StatusDone       = types.StatusDone
)

// Priority constants
const (
	PriorityLow    = types.PriorityLow
	PriorityMedium = types.PriorityMedium
	PriorityHigh   = types.PriorityHigh
)

// FilterState selects the visible subset of the board.
type FilterState = filter.State

// Filter returns the issues visible under the given state, preserving order.
func Filter(issues []*Issue, state FilterState) []*Issue {
	return filter.Apply(issues, state)
}

// FindSimilar returns recent issues whose titles look like duplicates of the
// draft title, in their original order.
func FindSimilar(draftTitle string, candidates []*Issue) []*Issue {
	return match.FindSimilar(draftTitle, candidates)
}

// CanTransition reports whether an issue may move between two statuses.
// The only forbidden move is Open directly to Done.
func CanTransition(current, requested Status) bool {
	return workflow.CanTransition(current, requested)
}

// Storage is the issue store interface used by the CLI and by Subscribe.
type Storage = store.Store

// QueryOptions bounds a store query.
type QueryOptions = store.QueryOptions

// OpenJSONLStorage opens the JSONL issue store inside an initialized
// workspace directory.
func OpenJSONLStorage(dir string) (Storage, error) {
	s, err := jsonl.Open(dir)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot is a full ordered copy of the board delivered to subscribers.
type Snapshot = livesync.Snapshot

// Subscription is a live watch on the board; Cancel stops it.
type Subscription = livesync.Subscription

// Subscribe delivers the current board immediately and a fresh full snapshot
// after every change until ctx ends or Cancel is called.
func Subscribe(ctx context.Context, src Storage, onUpdate func(Snapshot)) (*Subscription, error) {
	return livesync.Subscribe(ctx, src, livesync.Options{}, onUpdate)
}
