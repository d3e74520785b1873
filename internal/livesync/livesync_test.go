package livesync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

// fakeSource lets tests feed snapshots synthetically, without a real store.
type fakeSource struct {
	mu       sync.Mutex
	issues   []*types.Issue
	queryErr error
	changes  chan struct{}
}

func newFakeSource(issues ...*types.Issue) *fakeSource {
	return &fakeSource{issues: issues, changes: make(chan struct{}, 8)}
}

func (f *fakeSource) QueryIssues(ctx context.Context, opts store.QueryOptions) ([]*types.Issue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	issues := make([]*types.Issue, len(f.issues))
	copy(issues, f.issues)
	if opts.Limit > 0 && len(issues) > opts.Limit {
		issues = issues[:opts.Limit]
	}
	return issues, nil
}

func (f *fakeSource) Changes(ctx context.Context) (<-chan struct{}, error) {
	out := make(chan struct{})
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-f.changes:
				if !ok {
					return
				}
				select {
				case out <- sig:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (f *fakeSource) set(issues ...*types.Issue) {
	f.mu.Lock()
	f.issues = issues
	f.mu.Unlock()
}

func (f *fakeSource) notify() {
	f.changes <- struct{}{}
}

func issue(id string) *types.Issue {
	return &types.Issue{ID: id, Title: id}
}

func ids(snap Snapshot) []string {
	out := make([]string, len(snap))
	for i, is := range snap {
		out[i] = is.ID
	}
	return out
}

func collectSnapshots() (func(Snapshot), <-chan Snapshot) {
	ch := make(chan Snapshot, 16)
	return func(s Snapshot) { ch <- s }, ch
}

func waitSnapshot(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case s := <-ch:
		return s
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

// orderedSource records the order of QueryIssues and Changes calls.
type orderedSource struct {
	*fakeSource
	callMu sync.Mutex
	calls  []string
}

func (o *orderedSource) QueryIssues(ctx context.Context, opts store.QueryOptions) ([]*types.Issue, error) {
	o.callMu.Lock()
	o.calls = append(o.calls, "query")
	o.callMu.Unlock()
	return o.fakeSource.QueryIssues(ctx, opts)
}

func (o *orderedSource) Changes(ctx context.Context) (<-chan struct{}, error) {
	o.callMu.Lock()
	o.calls = append(o.calls, "changes")
	o.callMu.Unlock()
	return o.fakeSource.Changes(ctx)
}

// A write landing between the initial query and watch registration would
// never be observed, leaving the snapshot stale until some later unrelated
// change. The watch must therefore already be open when the initial query
// runs.
func TestWatchOpensBeforeInitialQuery(t *testing.T) {
	src := &orderedSource{fakeSource: newFakeSource(issue("sib-1"))}
	onUpdate, snaps := collectSnapshots()

	sub, err := Subscribe(context.Background(), src, Options{}, onUpdate)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Cancel()
	waitSnapshot(t, snaps)

	src.callMu.Lock()
	calls := append([]string(nil), src.calls...)
	src.callMu.Unlock()
	if len(calls) < 2 || calls[0] != "changes" || calls[1] != "query" {
		t.Errorf("call order = %v, want watch opened before initial query", calls)
	}

	// A change right after Subscribe returns must surface.
	src.set(issue("sib-1"), issue("sib-2"))
	src.notify()
	got := waitSnapshot(t, snaps)
	if len(got) != 2 {
		t.Errorf("post-subscribe change not delivered, snapshot = %v", ids(got))
	}
}

func TestSubscribeWatchOpenError(t *testing.T) {
	src := &failingWatchSource{fakeSource: newFakeSource(issue("sib-1"))}

	_, err := Subscribe(context.Background(), src, Options{}, func(Snapshot) {})
	if err == nil {
		t.Fatal("Subscribe should fail when the watch cannot be opened")
	}
}

type failingWatchSource struct {
	*fakeSource
}

func (f *failingWatchSource) Changes(ctx context.Context) (<-chan struct{}, error) {
	return nil, errors.New("watch unavailable")
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	src := newFakeSource(issue("sib-1"), issue("sib-2"))
	onUpdate, snaps := collectSnapshots()

	sub, err := Subscribe(context.Background(), src, Options{}, onUpdate)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Cancel()

	got := waitSnapshot(t, snaps)
	if len(got) != 2 || got[0].ID != "sib-1" {
		t.Errorf("initial snapshot = %v", ids(got))
	}
}

func TestSnapshotReplacesNotMerges(t *testing.T) {
	src := newFakeSource(issue("sib-1"), issue("sib-2"))
	onUpdate, snaps := collectSnapshots()

	sub, err := Subscribe(context.Background(), src, Options{}, onUpdate)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Cancel()
	waitSnapshot(t, snaps) // initial

	// Remote collection shrinks to a single unrelated issue. The local copy
	// must end up exactly equal to it, never a union with the old snapshot.
	src.set(issue("sib-9"))
	src.notify()

	got := waitSnapshot(t, snaps)
	if len(got) != 1 || got[0].ID != "sib-9" {
		t.Errorf("after replacement, snapshot = %v, want [sib-9]", ids(got))
	}
}

func TestSnapshotSequence(t *testing.T) {
	src := newFakeSource()
	onUpdate, snaps := collectSnapshots()

	sub, err := Subscribe(context.Background(), src, Options{}, onUpdate)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Cancel()
	waitSnapshot(t, snaps)

	for i, want := range [][]*types.Issue{
		{issue("sib-a")},
		{issue("sib-a"), issue("sib-b")},
		{issue("sib-b")},
	} {
		src.set(want...)
		src.notify()
		got := waitSnapshot(t, snaps)
		if len(got) != len(want) {
			t.Fatalf("step %d: snapshot %v, want %d issues", i, ids(got), len(want))
		}
		for j := range want {
			if got[j].ID != want[j].ID {
				t.Errorf("step %d: snapshot[%d] = %s, want %s", i, j, got[j].ID, want[j].ID)
			}
		}
	}
}

func TestSubscribeLimit(t *testing.T) {
	src := newFakeSource(issue("sib-1"), issue("sib-2"), issue("sib-3"))
	onUpdate, snaps := collectSnapshots()

	sub, err := Subscribe(context.Background(), src, Options{Limit: 2}, onUpdate)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Cancel()

	got := waitSnapshot(t, snaps)
	if len(got) != 2 {
		t.Errorf("limited snapshot has %d issues, want 2", len(got))
	}
}

func TestSubscribeInitialQueryError(t *testing.T) {
	src := newFakeSource()
	src.queryErr = errors.New("store down")

	_, err := Subscribe(context.Background(), src, Options{}, func(Snapshot) {})
	if err == nil {
		t.Fatal("Subscribe should fail when the initial query fails")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	src := newFakeSource(issue("sib-1"))
	onUpdate, snaps := collectSnapshots()

	sub, err := Subscribe(context.Background(), src, Options{}, onUpdate)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	waitSnapshot(t, snaps)

	sub.Cancel()
	sub.Cancel() // idempotent

	src.notify()
	select {
	case s := <-snaps:
		t.Errorf("snapshot delivered after cancel: %v", ids(s))
	case <-time.After(200 * time.Millisecond):
	}
}

func TestQueryErrorKeepsSubscriptionAlive(t *testing.T) {
	src := newFakeSource(issue("sib-1"))
	onUpdate, snaps := collectSnapshots()

	sub, err := Subscribe(context.Background(), src, Options{}, onUpdate)
	if err != nil {
		t.Fatalf("Subscribe: %v", err)
	}
	defer sub.Cancel()
	waitSnapshot(t, snaps)

	// A transient query failure drops that delivery but not the watch.
	src.mu.Lock()
	src.queryErr = errors.New("transient")
	src.mu.Unlock()
	src.notify()

	select {
	case s := <-snaps:
		t.Fatalf("unexpected snapshot during failure: %v", ids(s))
	case <-time.After(200 * time.Millisecond):
	}

	src.mu.Lock()
	src.queryErr = nil
	src.mu.Unlock()
	src.notify()

	got := waitSnapshot(t, snaps)
	if len(got) != 1 || got[0].ID != "sib-1" {
		t.Errorf("recovered snapshot = %v", ids(got))
	}
}
