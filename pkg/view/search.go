package view

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/matzehuels/jsontree/pkg/observability"
)

// Mode selects how a search query is matched.
type Mode string

const (
	// ModeLiteral matches the query as a case-insensitive substring.
	ModeLiteral Mode = "literal"

	// ModePattern compiles the query into a case-insensitive pattern.
	// Metacharacters are escaped first, so it finds exactly what
	// ModeLiteral finds.
	ModePattern Mode = "pattern"
)

// ParseMode converts a user-supplied mode name. The empty string means
// literal; "regex" is accepted as an alias for pattern.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "literal":
		return ModeLiteral, nil
	case "pattern", "regex":
		return ModePattern, nil
	default:
		return "", fmt.Errorf("unknown search mode %q (want literal or pattern)", s)
	}
}

// Outcome classifies a search result.
type Outcome string

const (
	OutcomeNone           Outcome = "none"
	OutcomeMatches        Outcome = "matches"
	OutcomeNoMatches      Outcome = "no_matches"
	OutcomeInvalidPattern Outcome = "invalid_pattern"
)

// SearchResult is the outcome of the last search.
type SearchResult struct {
	Outcome Outcome  `json:"outcome"`
	Count   int      `json:"count"`
	Matches []string `json:"matches"`
}

// Message returns the status line text for the result. OutcomeNone has
// no message.
func (r SearchResult) Message() string {
	switch r.Outcome {
	case OutcomeMatches:
		if r.Count == 1 {
			return "Found 1 match"
		}
		return fmt.Sprintf("Found %d matches", r.Count)
	case OutcomeNoMatches:
		return "No matches found"
	case OutcomeInvalidPattern:
		return "Invalid regex pattern"
	default:
		return ""
	}
}

// compilePattern is swapped out in tests to reach the invalid-pattern branch,
// which escaped input never triggers.
var compilePattern = regexp.Compile

// Search replaces the highlight set with the nodes whose path, label or
// value string contains query. A blank query clears the highlights.
func (s *State) Search(query string, mode Mode) SearchResult {
	start := time.Now()
	s.query, s.mode = query, mode
	s.result = s.search(query, mode)
	observability.View().OnSearch(string(mode), string(s.result.Outcome), s.result.Count, time.Since(start))
	return s.result
}

// ClearSearch drops the query and highlights.
func (s *State) ClearSearch() {
	s.query = ""
	s.result = SearchResult{Outcome: OutcomeNone}
	clear(s.highlighted)
}

// Query returns the last search query and mode.
func (s *State) Query() (string, Mode) { return s.query, s.mode }

// Result returns the last search result.
func (s *State) Result() SearchResult { return s.result }

func (s *State) search(query string, mode Mode) SearchResult {
	clear(s.highlighted)
	if strings.TrimSpace(query) == "" {
		return SearchResult{Outcome: OutcomeNone}
	}

	match, err := matcher(query, mode)
	if err != nil {
		return SearchResult{Outcome: OutcomeInvalidPattern}
	}

	res := SearchResult{Matches: []string{}}
	for i := range s.tree.Nodes {
		n := &s.tree.Nodes[i]
		if match(n.Path) || match(n.Label) || match(n.ValueString()) {
			s.highlighted[n.ID] = true
			res.Matches = append(res.Matches, n.ID)
		}
	}
	res.Count = len(res.Matches)
	if res.Count == 0 {
		res.Outcome = OutcomeNoMatches
	} else {
		res.Outcome = OutcomeMatches
	}
	return res
}

// matcher returns the field predicate for a query.
func matcher(query string, mode Mode) (func(string) bool, error) {
	if mode == ModePattern {
		re, err := compilePattern("(?i)" + regexp.QuoteMeta(query))
		if err != nil {
			return nil, err
		}
		return re.MatchString, nil
	}
	needle := strings.ToLower(query)
	return func(field string) bool {
		return strings.Contains(strings.ToLower(field), needle)
	}, nil
}
