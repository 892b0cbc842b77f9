package view

import "strings"

// MaxSuggestions caps the number of paths Suggest returns.
const MaxSuggestions = 5

// Suggest returns up to MaxSuggestions node paths containing query,
// case-insensitively. Paths are taken from the full sorted path list, so the
// result is the lexicographically first matches. A blank query yields none.
func (s *State) Suggest(query string) []string {
	if strings.TrimSpace(query) == "" {
		return nil
	}
	needle := strings.ToLower(query)

	var out []string
	for _, p := range s.tree.Paths() {
		if strings.Contains(strings.ToLower(p), needle) {
			out = append(out, p)
			if len(out) == MaxSuggestions {
				break
			}
		}
	}
	return out
}
