package fstree

import "sort"

// SortField selects the attribute sibling lists are ordered by.
type SortField int

const (
	SortByName SortField = iota
	SortBySize
	SortByModTime

	// NumSortFields is the number of sort fields, used for cycling.
	NumSortFields
)

// String returns a short label for status bars and flags.
func (f SortField) String() string {
	switch f {
	case SortByName:
		return "name"
	case SortBySize:
		return "size"
	case SortByModTime:
		return "mtime"
	default:
		return "unknown"
	}
}

// ParseSortField maps a flag value to a SortField.
func ParseSortField(s string) (SortField, bool) {
	switch s {
	case "name":
		return SortByName, true
	case "size":
		return SortBySize, true
	case "mtime", "modtime":
		return SortByModTime, true
	default:
		return SortByName, false
	}
}

// SortDirection is ascending or descending.
type SortDirection int

const (
	SortAscending SortDirection = iota
	SortDescending
)

func (d SortDirection) String() string {
	if d == SortDescending {
		return "desc"
	}
	return "asc"
}

// sortSpec is the order a Node keeps its children in. Freshly loaded
// listings inherit it from their parent so the sorted-children invariant
// holds without a follow-up pass.
type sortSpec struct {
	field SortField
	dir   SortDirection
}

var defaultSort = sortSpec{field: SortByName, dir: SortAscending}

// sortNodes sorts a sibling slice in place. Ties always break on name so
// the order is deterministic for equal sizes or timestamps.
func sortNodes(nodes []*Node, spec sortSpec) {
	if len(nodes) <= 1 {
		return
	}
	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if spec.dir == SortDescending {
			a, b = b, a
		}
		return lessByField(a, b, spec.field)
	})
}

// lessByField reports whether a sorts before b in ascending order.
func lessByField(a, b *Node, field SortField) bool {
	switch field {
	case SortBySize:
		if a.size != b.size {
			return a.size < b.size
		}
	case SortByModTime:
		if !a.modTime.Equal(b.modTime) {
			return a.modTime.Before(b.modTime)
		}
	}
	return a.name < b.name
}
