// Package store defines the interface for issue board storage backends.
//
// The board treats the store as an external collaborator: an ordered
// document collection with one-shot queries, single-field updates, and a
// change-notification stream. The concrete implementation lives in the
// jsonl sub-package.
package store

import (
	"context"
	"errors"

	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

// ErrNotFound is returned when a requested issue does not exist in the store.
var ErrNotFound = errors.New("not found")

// ErrUnknownField is returned by UpdateIssueField for a field the store does
// not allow to be updated in place.
var ErrUnknownField = errors.New("unknown field")

// QueryOptions bounds a one-shot issue query. Results are always ordered by
// creation time descending (newest first).
type QueryOptions struct {
	// Limit caps the number of returned issues; 0 means no limit.
	Limit int
}

// Store is the interface satisfied by *jsonl.Store. Consumers depend on this
// interface rather than on the concrete type so that alternative
// implementations (mocks, remote stores) can be substituted.
type Store interface {
	// CreateIssue persists a new issue and returns its store-assigned ID.
	// The issue's ID field is also filled in.
	CreateIssue(ctx context.Context, issue *types.Issue) (string, error)

	// GetIssue returns the issue with the given ID, or ErrNotFound.
	GetIssue(ctx context.Context, id string) (*types.Issue, error)

	// QueryIssues returns issues ordered createdAt-descending.
	QueryIssues(ctx context.Context, opts QueryOptions) ([]*types.Issue, error)

	// UpdateIssueField updates a single mutable field ("status" or
	// "assigned_to") of an existing issue.
	UpdateIssueField(ctx context.Context, id, field string, value string) error

	// Changes returns a channel that receives a signal whenever the
	// collection changes, by any writer. The channel is closed when the
	// context is cancelled or the store is closed.
	Changes(ctx context.Context) (<-chan struct{}, error)

	// Close releases the store's resources.
	Close() error
}
