// Package types defines core data structures for the sib issue board.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Issue represents a single item on the board.
type Issue struct {
	ID          string    `json:"id,omitempty"` // assigned by the store on creation, immutable
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    Priority  `json:"priority,omitempty"`
	Status      Status    `json:"status,omitempty"`
	AssignedTo  string    `json:"assigned_to,omitempty"` // email, empty means unassigned
	CreatedAt   time.Time `json:"created_at"`
	CreatedBy   string    `json:"created_by,omitempty"`
}

// Validate checks the field invariants of the issue.
func (i *Issue) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(i.Title) > 500 {
		return fmt.Errorf("title must be 500 characters or less")
	}
	if strings.TrimSpace(i.Description) == "" {
		return fmt.Errorf("description is required")
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", i.Status)
	}
	if !i.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", i.Priority)
	}
	return nil
}

// SetDefaults fills in default values for optional fields:
//   - Status: defaults to StatusOpen if empty
//   - Priority: defaults to PriorityMedium if empty
//   - CreatedAt: defaults to now (UTC) if zero
func (i *Issue) SetDefaults() {
	if i.Status == "" {
		i.Status = StatusOpen
	}
	if i.Priority == "" {
		i.Priority = PriorityMedium
	}
	if i.CreatedAt.IsZero() {
		i.CreatedAt = time.Now().UTC()
	}
}

// Status represents the current workflow state of an issue
type Status string

// Valid status values
const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// IsValid returns true if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Display returns the human-facing label for the status.
func (s Status) Display() string {
	switch s {
	case StatusOpen:
		return "Open"
	case StatusInProgress:
		return "In Progress"
	case StatusDone:
		return "Done"
	}
	return string(s)
}

// ParseStatus normalizes user input into a Status. Accepts friendly forms
// ("In Progress", "IN-PROGRESS", "done") case-insensitively.
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.ReplaceAll(norm, " ", "_")
	norm = strings.ReplaceAll(norm, "-", "_")
	switch Status(norm) {
	case StatusOpen:
		return StatusOpen, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusDone:
		return StatusDone, nil
	}
	return "", fmt.Errorf("invalid status %q (must be open, in_progress, or done)", s)
}

// Priority represents the urgency of an issue
type Priority string

// Valid priority values
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// IsValid returns true if the priority is a known value
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Display returns the human-facing label for the priority.
func (p Priority) Display() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	}
	return string(p)
}

// ParsePriority normalizes user input into a Priority, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityHigh:
		return PriorityHigh, nil
	}
	return "", fmt.Errorf("invalid priority %q (must be low, medium, or high)", s)
}
