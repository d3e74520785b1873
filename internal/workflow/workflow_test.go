package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

func TestCanTransition(t *testing.T) {
	statuses := []types.Status{types.StatusOpen, types.StatusInProgress, types.StatusDone}

	for _, current := range statuses {
		for _, requested := range statuses {
			got := CanTransition(current, requested)
			want := !(current == types.StatusOpen && requested == types.StatusDone)
			if got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", current, requested, got, want)
			}
		}
	}
}

// recordingStore counts field updates so tests can assert the guard never
// writes on rejection.
type recordingStore struct {
	store.Store
	updates int
	lastID  string
	lastVal string
	err     error
}

func (r *recordingStore) UpdateIssueField(ctx context.Context, id, field, value string) error {
	if r.err != nil {
		return r.err
	}
	r.updates++
	r.lastID = id
	r.lastVal = value
	return nil
}

func TestTransitionRejectedLeavesStoreUntouched(t *testing.T) {
	rec := &recordingStore{}
	err := Transition(context.Background(), rec, "sib-1", types.StatusOpen, types.StatusDone)
	if !errors.Is(err, ErrTransitionRejected) {
		t.Fatalf("Transition = %v, want ErrTransitionRejected", err)
	}
	if rec.updates != 0 {
		t.Errorf("store written %d times on rejected transition", rec.updates)
	}
}

func TestTransitionAcceptedWritesSingleField(t *testing.T) {
	rec := &recordingStore{}
	err := Transition(context.Background(), rec, "sib-1", types.StatusInProgress, types.StatusDone)
	if err != nil {
		t.Fatalf("Transition: %v", err)
	}
	if rec.updates != 1 || rec.lastID != "sib-1" || rec.lastVal != "done" {
		t.Errorf("unexpected update: %+v", rec)
	}
}

func TestTransitionWrapsWriteFailure(t *testing.T) {
	rec := &recordingStore{err: store.ErrNotFound}
	err := Transition(context.Background(), rec, "sib-x", types.StatusDone, types.StatusOpen)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Transition = %v, want wrapped ErrNotFound", err)
	}
}
