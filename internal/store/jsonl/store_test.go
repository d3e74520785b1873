package jsonl

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return s
}

func createTestIssue(t *testing.T, s *Store, title string, at time.Time) *types.Issue {
	t.Helper()
	issue := &types.Issue{
		Title:       title,
		Description: "test description",
		CreatedAt:   at,
		CreatedBy:   "ana@example.com",
	}
	if _, err := s.CreateIssue(context.Background(), issue); err != nil {
		t.Fatalf("CreateIssue(%q): %v", title, err)
	}
	return issue
}

func TestOpenMissingDir(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("Open of missing dir should fail")
	}
}

func TestCreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	issue := createTestIssue(t, s, "Fix login bug", time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC))
	if issue.ID == "" {
		t.Fatal("CreateIssue did not assign an ID")
	}
	if issue.Status != types.StatusOpen || issue.Priority != types.PriorityMedium {
		t.Errorf("defaults not applied: %+v", issue)
	}

	got, err := s.GetIssue(ctx, issue.ID)
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if got.Title != "Fix login bug" || got.CreatedBy != "ana@example.com" {
		t.Errorf("round-trip mismatch: %+v", got)
	}
}

func TestGetIssueNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetIssue(context.Background(), "sib-zzzzzz")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("GetIssue = %v, want ErrNotFound", err)
	}
}

func TestCreateRejectsInvalid(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.CreateIssue(context.Background(), &types.Issue{Title: "no description"})
	if err == nil {
		t.Fatal("CreateIssue accepted an invalid issue")
	}
}

func TestQueryIssuesOrderAndLimit(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	createTestIssue(t, s, "oldest", base)
	createTestIssue(t, s, "newest", base.Add(2*time.Hour))
	createTestIssue(t, s, "middle", base.Add(time.Hour))

	issues, err := s.QueryIssues(ctx, store.QueryOptions{})
	if err != nil {
		t.Fatalf("QueryIssues: %v", err)
	}
	want := []string{"newest", "middle", "oldest"}
	if len(issues) != len(want) {
		t.Fatalf("got %d issues, want %d", len(issues), len(want))
	}
	for i, title := range want {
		if issues[i].Title != title {
			t.Errorf("issues[%d] = %q, want %q", i, issues[i].Title, title)
		}
	}

	limited, err := s.QueryIssues(ctx, store.QueryOptions{Limit: 2})
	if err != nil {
		t.Fatalf("QueryIssues limited: %v", err)
	}
	if len(limited) != 2 || limited[0].Title != "newest" {
		t.Errorf("limited query wrong: %v", limited)
	}
}

func TestQueryIssuesEmpty(t *testing.T) {
	s := setupTestStore(t)
	issues, err := s.QueryIssues(context.Background(), store.QueryOptions{})
	if err != nil {
		t.Fatalf("QueryIssues: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("empty store returned %d issues", len(issues))
	}
}

func TestUpdateIssueField(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	issue := createTestIssue(t, s, "Fix login bug", time.Now().UTC())

	if err := s.UpdateIssueField(ctx, issue.ID, "status", "in_progress"); err != nil {
		t.Fatalf("UpdateIssueField: %v", err)
	}
	got, err := s.GetIssue(ctx, issue.ID)
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if got.Status != types.StatusInProgress {
		t.Errorf("Status = %s, want in_progress", got.Status)
	}
	// Other fields untouched.
	if got.Title != "Fix login bug" || got.CreatedBy != "ana@example.com" {
		t.Errorf("update touched other fields: %+v", got)
	}

	if err := s.UpdateIssueField(ctx, issue.ID, "assigned_to", "ben@example.com"); err != nil {
		t.Fatalf("UpdateIssueField assigned_to: %v", err)
	}
	got, _ = s.GetIssue(ctx, issue.ID)
	if got.AssignedTo != "ben@example.com" {
		t.Errorf("AssignedTo = %q", got.AssignedTo)
	}
}

func TestUpdateIssueFieldErrors(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	issue := createTestIssue(t, s, "Fix login bug", time.Now().UTC())

	if err := s.UpdateIssueField(ctx, "sib-zzzzzz", "status", "done"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing id: err = %v, want ErrNotFound", err)
	}
	if err := s.UpdateIssueField(ctx, issue.ID, "title", "new"); !errors.Is(err, store.ErrUnknownField) {
		t.Errorf("immutable field: err = %v, want ErrUnknownField", err)
	}
	if err := s.UpdateIssueField(ctx, issue.ID, "status", "bogus"); err == nil {
		t.Error("invalid status value accepted")
	}
}

func TestIDsUnique(t *testing.T) {
	s := setupTestStore(t)
	at := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)

	// Identical content and timestamp would collide without the nonce.
	a := createTestIssue(t, s, "same title", at)
	b := createTestIssue(t, s, "same title", at)
	if a.ID == b.ID {
		t.Errorf("duplicate IDs assigned: %s", a.ID)
	}
}

func TestChangesSignalsOnWrite(t *testing.T) {
	s := setupTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Changes(ctx)
	if err != nil {
		t.Fatalf("Changes: %v", err)
	}

	createTestIssue(t, s, "trigger", time.Now().UTC())

	select {
	case _, ok := <-ch:
		if !ok {
			t.Fatal("change channel closed unexpectedly")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change signal after write")
	}

	cancel()
	select {
	case _, ok := <-ch:
		if ok {
			// A buffered signal may still be in flight; the close follows.
			_, ok = <-ch
			if ok {
				t.Fatal("channel not closed after cancel")
			}
		}
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestReadSkipsBlankLines(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	content := `{"id":"sib-aaaaaa","title":"One","description":"d","status":"open","priority":"low","created_at":"2025-04-01T10:00:00Z"}` + "\n\n" +
		`{"id":"sib-bbbbbb","title":"Two","description":"d","status":"done","priority":"high","created_at":"2025-04-01T11:00:00Z"}` + "\n"
	if err := os.WriteFile(filepath.Join(dir, IssuesFileName), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	issues, err := s.QueryIssues(context.Background(), store.QueryOptions{})
	if err != nil {
		t.Fatalf("QueryIssues: %v", err)
	}
	if len(issues) != 2 {
		t.Fatalf("got %d issues, want 2", len(issues))
	}
	if issues[0].ID != "sib-bbbbbb" {
		t.Errorf("order wrong: %s first", issues[0].ID)
	}
}
