// Package jsonl implements the issue store as a JSONL file, one issue per
// line, inside the .sib workspace directory.
//
// Writes are atomic (temp file + rename) so concurrent readers and the
// change watcher never observe a torn file. The store assigns hash-based
// IDs at creation, retrying with a nonce on the rare short-hash collision.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Dworak0/Smart-Issue-Board/internal/idgen"
	"github.com/Dworak0/Smart-Issue-Board/internal/store"
	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

// IssuesFileName is the canonical collection file inside the workspace dir.
const IssuesFileName = "issues.jsonl"

// maxLineBytes bounds a single issue line (1 MB is far beyond any valid issue).
const maxLineBytes = 1 << 20

// Store is a JSONL-file-backed issue store.
type Store struct {
	dir  string
	path string
}

// Open returns a store rooted at the given workspace directory. The
// directory must already exist (created by `sib init`); the issues file is
// created lazily on first write.
func Open(dir string) (*Store, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening workspace %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace path %s is not a directory", dir)
	}
	return &Store{dir: dir, path: filepath.Join(dir, IssuesFileName)}, nil
}

// CreateIssue persists a new issue and returns its assigned ID.
func (s *Store) CreateIssue(ctx context.Context, issue *types.Issue) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	issue.SetDefaults()
	if err := issue.Validate(); err != nil {
		return "", fmt.Errorf("invalid issue: %w", err)
	}

	issues, err := s.readAll()
	if err != nil {
		return "", err
	}

	existing := make(map[string]bool, len(issues))
	for _, is := range issues {
		existing[is.ID] = true
	}

	// Nonce retry handles short-hash collisions.
	var id string
	for nonce := 0; ; nonce++ {
		id = idgen.New(issue.Title, issue.CreatedBy, issue.CreatedAt, nonce)
		if !existing[id] {
			break
		}
	}
	issue.ID = id

	issues = append(issues, issue)
	if err := s.writeAll(issues); err != nil {
		return "", fmt.Errorf("creating issue: %w", err)
	}
	return id, nil
}

// GetIssue returns the issue with the given ID.
func (s *Store) GetIssue(ctx context.Context, id string) (*types.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	issues, err := s.readAll()
	if err != nil {
		return nil, err
	}
	for _, issue := range issues {
		if issue.ID == id {
			return issue, nil
		}
	}
	return nil, fmt.Errorf("issue %s: %w", id, store.ErrNotFound)
}

// QueryIssues returns issues newest first, optionally limited.
func (s *Store) QueryIssues(ctx context.Context, opts store.QueryOptions) ([]*types.Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	issues, err := s.readAll()
	if err != nil {
		return nil, err
	}
	types.SortByCreatedDesc(issues)
	if opts.Limit > 0 && len(issues) > opts.Limit {
		issues = issues[:opts.Limit]
	}
	return issues, nil
}

// UpdateIssueField updates a single mutable field of an existing issue.
func (s *Store) UpdateIssueField(ctx context.Context, id, field, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	issues, err := s.readAll()
	if err != nil {
		return err
	}

	found := false
	for _, issue := range issues {
		if issue.ID != id {
			continue
		}
		found = true
		switch field {
		case "status":
			status, err := types.ParseStatus(value)
			if err != nil {
				return err
			}
			issue.Status = status
		case "assigned_to":
			issue.AssignedTo = value
		default:
			return fmt.Errorf("field %q: %w", field, store.ErrUnknownField)
		}
		break
	}
	if !found {
		return fmt.Errorf("issue %s: %w", id, store.ErrNotFound)
	}

	if err := s.writeAll(issues); err != nil {
		return fmt.Errorf("updating issue %s: %w", id, err)
	}
	return nil
}

// Close releases the store. The JSONL store holds no open handles between
// operations, so this is a no-op kept for the Store interface.
func (s *Store) Close() error {
	return nil
}

// readAll loads every issue from the collection file. A missing file is an
// empty collection, not an error.
func (s *Store) readAll() ([]*types.Issue, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }()

	var issues []*types.Issue
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var issue types.Issue
		if err := json.Unmarshal(raw, &issue); err != nil {
			return nil, fmt.Errorf("parsing %s line %d: %w", s.path, line, err)
		}
		issues = append(issues, &issue)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", s.path, err)
	}
	return issues, nil
}

// writeAll replaces the collection file atomically.
func (s *Store) writeAll(issues []*types.Issue) error {
	tmp, err := os.CreateTemp(s.dir, IssuesFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }() // no-op after successful rename

	w := bufio.NewWriter(tmp)
	enc := json.NewEncoder(w)
	for _, issue := range issues {
		if err := enc.Encode(issue); err != nil {
			_ = tmp.Close()
			return fmt.Errorf("encoding issue %s: %w", issue.ID, err)
		}
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("flushing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
