package authz

import (
	"sort"
	"strings"
)

// Route identifies an admin page or endpoint by its path.
type Route string

// Segments splits the route path into non-empty segments.
func (r Route) Segments() []string {
	parts := strings.Split(string(r), "/")
	segments := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			segments = append(segments, part)
		}
	}
	return segments
}

// MenuEntry is one item of the static admin menu. Label is a message
// key resolved by the caller's renderer; entries are immutable.
type MenuEntry struct {
	Label string
	Route Route
	Icon  string
}

// RuleTable maps a route+method pair to its access requirement. The
// embedding application supplies the table; implementations must return
// Forbidden for any pair they do not classify.
type RuleTable interface {
	Requirement(route Route, method string) Allow
}

// RuleMap is a RuleTable backed by a nested map. Methods are
// case-sensitive HTTP verbs plus application action tags. Lookups that
// miss either level return the zero Allow, which is Forbidden.
type RuleMap map[Route]map[string]Allow

// Requirement implements RuleTable.
func (m RuleMap) Requirement(route Route, method string) Allow {
	return m[route][method]
}

// BestMatch picks the candidate whose path segments most specifically
// prefix the current route. Longer prefixes win; ties keep the earlier
// candidate. Used to highlight the active menu item.
func BestMatch(current Route, candidates []Route) (Route, bool) {
	currentSegs := current.Segments()
	if len(currentSegs) == 0 {
		return "", false
	}
	ordered := make([]Route, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Segments()) > len(ordered[j].Segments())
	})
	for _, candidate := range ordered {
		if isSegmentPrefix(candidate.Segments(), currentSegs) {
			return candidate, true
		}
	}
	return "", false
}

func isSegmentPrefix(prefix, full []string) bool {
	if len(prefix) == 0 || len(prefix) > len(full) {
		return false
	}
	for i, seg := range prefix {
		if full[i] != seg {
			return false
		}
	}
	return true
}
