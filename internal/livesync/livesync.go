// Package livesync maintains an always-current local copy of the issue
// collection, ordered newest first.
//
// The model is subscribe-and-replace: every change notification from the
// store triggers a full re-query, and the delivered snapshot replaces the
// previous one in its entirety. Consumers never see an incremental diff and
// never merge snapshots, which keeps the local copy free of torn reads
// across asynchronous delivery. A locally-issued write is only reflected
// once its change notification round-trips through the same subscription.
package livesync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/telemetry"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

// Snapshot is a complete ordered copy of the collection at a point in time.
type Snapshot []*types.Issue

// Source is the slice of the store a subscription needs: one-shot ordered
// queries plus a change-notification stream. *jsonl.Store satisfies it.
type Source interface {
	QueryIssues(ctx context.Context, opts store.QueryOptions) ([]*types.Issue, error)
	Changes(ctx context.Context) (<-chan struct{}, error)
}

// Options configures a subscription.
type Options struct {
	// Limit bounds each snapshot; 0 means the full board. The recent-issues
	// feed consumed by the duplicate matcher uses RecentFeedLimit.
	Limit int
}

// RecentFeedLimit is the snapshot bound used for the create-issue
// duplicate check. Matching against the last 100 issues client-side is
// enough at this scale; anything bigger belongs in a search backend.
const RecentFeedLimit = 100

// Subscription is a live watch on the collection. Cancel is idempotent and
// safe to call while a delivery is in flight (that snapshot is dropped).
type Subscription struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Cancel stops snapshot delivery and waits for the delivery goroutine to
// drain. Safe to call any number of times.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
	<-s.done
}

// Subscribe establishes the watch and delivers the initial snapshot
// synchronously before returning. Afterwards onUpdate is called from a
// single goroutine with a fresh full snapshot for every store change; no
// call ever carries a partial or merged collection. The subscription ends
// when Cancel is called or the context is cancelled.
func Subscribe(ctx context.Context, src Source, opts Options, onUpdate func(Snapshot)) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)

	// The watch must be open before the initial query runs. Opening it
	// afterwards would leave a window where a write lands unobserved and the
	// snapshot stays stale until the next unrelated change.
	ch, err := src.Changes(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("opening watch: %w", err)
	}

	// Initial snapshot: fail fast if the source is unreadable.
	if err := deliver(ctx, src, opts, onUpdate); err != nil {
		cancel()
		return nil, fmt.Errorf("initial snapshot: %w", err)
	}

	sub := &Subscription{cancel: cancel, done: make(chan struct{})}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return run(gctx, src, opts, ch, onUpdate)
	})
	go func() {
		defer close(sub.done)
		_ = g.Wait()
	}()

	return sub, nil
}

// run re-queries on every signal from the already-open watch channel. If
// the channel dies it is re-established with exponential backoff; the
// snapshot is simply stale in between.
func run(ctx context.Context, src Source, opts Options, ch <-chan struct{}, onUpdate func(Snapshot)) error {
	for {
		for range ch {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A failed re-query leaves the previous snapshot in place; the
			// next change signal retries it.
			_ = deliver(ctx, src, opts, onUpdate)
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		// Watch channel closed without cancellation: re-establish it. Only a
		// cancelled context stops the retry loop.
		var err error
		ch, err = openWatch(ctx, src)
		if err != nil {
			return err
		}
		// Changes may have landed while the watch was down.
		_ = deliver(ctx, src, opts, onUpdate)
	}
}

// openWatch retries Changes with exponential backoff until it succeeds or
// the context is cancelled.
func openWatch(ctx context.Context, src Source) (<-chan struct{}, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxInterval = 30 * time.Second
	bo.MaxElapsedTime = 0 // retry until cancelled

	var ch <-chan struct{}
	err := backoff.Retry(func() error {
		var werr error
		ch, werr = src.Changes(ctx)
		return werr
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, err
	}
	return ch, nil
}

// deliver queries a fresh snapshot and hands it to the consumer, dropping
// it if the subscription was cancelled in the meantime.
func deliver(ctx context.Context, src Source, opts Options, onUpdate func(Snapshot)) error {
	issues, err := src.QueryIssues(ctx, store.QueryOptions{Limit: opts.Limit})
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	onUpdate(issues)
	telemetry.CountSnapshotDelivered(ctx)
	return nil
}
