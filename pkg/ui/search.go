package ui

import "github.com/sahilm/fuzzy"

// applySearch recomputes the fuzzy match set against the current entry
// list. Matching is by entry name, not full path, so a query keeps
// working after a focus change.
func (m *Model) applySearch() {
	if m.searchQuery == "" {
		m.searchMatches = nil
		m.searchMatchIdx = 0
		return
	}
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Node.Name()
	}
	results := fuzzy.Find(m.searchQuery, names)
	m.searchMatches = m.searchMatches[:0]
	for _, r := range results {
		m.searchMatches = append(m.searchMatches, r.Index)
	}
	if m.searchMatchIdx >= len(m.searchMatches) {
		m.searchMatchIdx = 0
	}
}

// jumpToMatch moves the cursor to the i-th match, wrapping in both
// directions.
func (m *Model) jumpToMatch(i int) {
	if len(m.searchMatches) == 0 {
		return
	}
	i %= len(m.searchMatches)
	if i < 0 {
		i += len(m.searchMatches)
	}
	m.searchMatchIdx = i
	m.cursor = m.searchMatches[i]
	m.clampScroll()
}

func (m Model) isMatch(i int) bool {
	for _, idx := range m.searchMatches {
		if idx == i {
			return true
		}
	}
	return false
}

func (m Model) isCurrentMatch(i int) bool {
	return len(m.searchMatches) > 0 && m.searchMatches[m.searchMatchIdx] == i
}
