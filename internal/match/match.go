// Package match implements the duplicate-candidate heuristic used while a
// new issue is being drafted.
//
// The heuristic is intentionally simple: substring containment in either
// direction, plus a significant-word overlap rule. False positives and false
// negatives are accepted; this is a drafting aid, not a search engine.
package match

import (
	"strings"

	"github.com/Dworak0/Smart-Issue-Board/internal/types"
)

// minTitleLen is the shortest draft title worth matching against. Anything
// shorter produces too many noisy hits.
const minTitleLen = 3

// minCommonWords is how many significant words of the draft must overlap a
// candidate title for the word-overlap rule to fire.
const minCommonWords = 2

// FindSimilar returns the candidates whose titles look like duplicates of
// the draft title. Matching is case-insensitive. A candidate matches if:
//
//   - its title contains the full draft title, or
//   - the draft title contains the full candidate title, or
//   - at least two significant words of the draft (tokens longer than two
//     characters) each appear as a substring of some candidate token.
//
// Candidate order is preserved; no re-ranking by match strength.
func FindSimilar(draftTitle string, candidates []*types.Issue) []*types.Issue {
	if len(draftTitle) < minTitleLen {
		return nil
	}

	draft := strings.ToLower(draftTitle)
	words := significantWords(draft)

	var matches []*types.Issue
	for _, issue := range candidates {
		title := strings.ToLower(issue.Title)
		if strings.Contains(title, draft) || strings.Contains(draft, title) {
			matches = append(matches, issue)
			continue
		}
		if commonWordCount(words, strings.Split(title, " ")) >= minCommonWords {
			matches = append(matches, issue)
		}
	}
	return matches
}

// significantWords splits a lower-cased title on single spaces and keeps
// tokens longer than two characters.
func significantWords(title string) []string {
	var words []string
	for _, w := range strings.Split(title, " ") {
		if len(w) > 2 {
			words = append(words, w)
		}
	}
	return words
}

// commonWordCount counts draft words that appear as a substring of at least
// one candidate token.
func commonWordCount(words, tokens []string) int {
	count := 0
	for _, w := range words {
		for _, tok := range tokens {
			if strings.Contains(tok, w) {
				count++
				break
			}
		}
	}
	return count
}
