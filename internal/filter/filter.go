// Package filter computes the visible subset of the board for a given
// filter state.
//
// The pipeline is an ordered predicate chain: status, priority, and
// only-mine run as early rejects. When search text is present, the
// title/description substring check alone decides the fate of every
// issue that survived the first three. That final override mirrors the
// behavior the board has always had; it is deliberate, not a combination
// bug. Issues are returned in their incoming order.
package filter

import (
	"strings"

	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

// All is the neutral value for the status and priority selectors. An empty
// string is treated the same way.
const All = "All"

// State holds the currently selected board filters.
type State struct {
	Status           string // "All" or a status value
	Priority         string // "All" or a priority value
	OnlyMine         bool
	CurrentUserEmail string // empty when unauthenticated; disables OnlyMine
	SearchText       string
}

// Neutral reports whether the state filters nothing out.
func (s State) Neutral() bool {
	return isAll(s.Status) && isAll(s.Priority) && !s.OnlyMine && s.SearchText == ""
}

// Apply returns the issues visible under the given filter state, in the
// same relative order as the input.
func Apply(issues []*types.Issue, s State) []*types.Issue {
	var visible []*types.Issue
	for _, issue := range issues {
		if keep(issue, s) {
			visible = append(visible, issue)
		}
	}
	return visible
}

// keep evaluates the predicate chain for one issue.
func keep(issue *types.Issue, s State) bool {
	if !isAll(s.Status) && string(issue.Status) != s.Status {
		return false
	}
	if !isAll(s.Priority) && string(issue.Priority) != s.Priority {
		return false
	}
	if s.OnlyMine && s.CurrentUserEmail != "" && issue.AssignedTo != s.CurrentUserEmail {
		return false
	}
	if s.SearchText != "" {
		q := strings.ToLower(s.SearchText)
		return strings.Contains(strings.ToLower(issue.Title), q) ||
			strings.Contains(strings.ToLower(issue.Description), q)
	}
	return true
}

func isAll(v string) bool {
	return v == "" || v == All
}
