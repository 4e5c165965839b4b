package catalog

import (
	"fmt"
	"sort"
)

// MaxDepth bounds section nesting. Real benchmarks stay well under it; a
// deeper tree means the seed data is wrong.
const MaxDepth = 16

// Tree is the section hierarchy of one benchmark held as an arena: nodes
// live in one slice and refer to each other by index.
type Tree struct {
	nodes []treeNode
	index map[int64]int
	roots []int
	// checkSection maps a check id to its section's node index
	checkSection map[int64]int
}

type treeNode struct {
	section  *Section
	parent   int
	depth    int
	children []int
	checks   []*Check
}

// NewTree builds a tree from every section and check of a benchmark.
// Sections whose parent is missing become roots; checks whose section is
// missing are ignored. Children and checks are ordered by sort order, then id.
func NewTree(sections []*Section, checks []*Check) (*Tree, error) {
	t := &Tree{
		nodes:        make([]treeNode, len(sections)),
		index:        make(map[int64]int, len(sections)),
		checkSection: make(map[int64]int, len(checks)),
	}

	for i, s := range sections {
		t.nodes[i] = treeNode{section: s, parent: -1, depth: -1}
		t.index[s.ID] = i
	}

	for i, s := range sections {
		if s.ParentID != nil {
			if p, ok := t.index[*s.ParentID]; ok && p != i {
				t.nodes[i].parent = p
				t.nodes[p].children = append(t.nodes[p].children, i)
				continue
			}
		}
		t.roots = append(t.roots, i)
	}

	for _, c := range checks {
		i, ok := t.index[c.SectionID]
		if !ok {
			continue
		}
		t.nodes[i].checks = append(t.nodes[i].checks, c)
		t.checkSection[c.ID] = i
	}

	t.sortNodes(t.roots)
	for i := range t.nodes {
		t.sortNodes(t.nodes[i].children)
		cs := t.nodes[i].checks
		sort.SliceStable(cs, func(a, b int) bool {
			if cs[a].SortOrder != cs[b].SortOrder {
				return cs[a].SortOrder < cs[b].SortOrder
			}
			return cs[a].ID < cs[b].ID
		})
	}

	if err := t.assignDepths(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) sortNodes(idx []int) {
	sort.SliceStable(idx, func(a, b int) bool {
		sa, sb := t.nodes[idx[a]].section, t.nodes[idx[b]].section
		if sa.SortOrder != sb.SortOrder {
			return sa.SortOrder < sb.SortOrder
		}
		return sa.ID < sb.ID
	})
}

// assignDepths walks down from the roots. Any node left without a depth is
// part of a parent cycle.
func (t *Tree) assignDepths() error {
	var walk func(i, depth int) error
	walk = func(i, depth int) error {
		if depth >= MaxDepth {
			return fmt.Errorf("section %s nests deeper than %d levels", t.nodes[i].section.Number, MaxDepth)
		}
		t.nodes[i].depth = depth
		for _, c := range t.nodes[i].children {
			if err := walk(c, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range t.roots {
		if err := walk(r, 0); err != nil {
			return err
		}
	}
	for _, n := range t.nodes {
		if n.depth < 0 {
			return fmt.Errorf("section %s is part of a parent cycle", n.section.Number)
		}
	}
	return nil
}

// Len is the number of sections in the tree
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Section returns the section with the given id, or nil
func (t *Tree) Section(id int64) *Section {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	return t.nodes[i].section
}

// Roots returns the top-level sections in order
func (t *Tree) Roots() []*Section {
	return t.sections(t.roots)
}

// Children returns the direct children of a section in order
func (t *Tree) Children(id int64) []*Section {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	return t.sections(t.nodes[i].children)
}

func (t *Tree) sections(idx []int) []*Section {
	out := make([]*Section, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.nodes[i].section)
	}
	return out
}

// DescendantChecks returns the section's own checks followed by the checks
// of each child section, recursively, in pre-order.
func (t *Tree) DescendantChecks(id int64) []*Check {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	var out []*Check
	t.collect(i, &out)
	return out
}

// AllChecks returns every check of the benchmark in pre-order across roots
func (t *Tree) AllChecks() []*Check {
	var out []*Check
	for _, r := range t.roots {
		t.collect(r, &out)
	}
	return out
}

func (t *Tree) collect(i int, out *[]*Check) {
	n := &t.nodes[i]
	*out = append(*out, n.checks...)
	for _, c := range n.children {
		t.collect(c, out)
	}
}

// TotalChecks counts the checks under a section including its descendants
func (t *Tree) TotalChecks(id int64) int {
	i, ok := t.index[id]
	if !ok {
		return 0
	}
	return t.count(i)
}

func (t *Tree) count(i int) int {
	n := len(t.nodes[i].checks)
	for _, c := range t.nodes[i].children {
		n += t.count(c)
	}
	return n
}

// Breadcrumb returns the chain of sections from the root down to id, inclusive.
func (t *Tree) Breadcrumb(id int64) []*Section {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	chain := make([]*Section, t.nodes[i].depth+1)
	for k := len(chain) - 1; k >= 0; k-- {
		chain[k] = t.nodes[i].section
		i = t.nodes[i].parent
	}
	return chain
}

// TopLevel returns the root ancestor of a section (the section itself when
// it is a root), or nil if the id is unknown.
func (t *Tree) TopLevel(id int64) *Section {
	i, ok := t.index[id]
	if !ok {
		return nil
	}
	for t.nodes[i].parent >= 0 {
		i = t.nodes[i].parent
	}
	return t.nodes[i].section
}

// SectionOfCheck returns the section a check belongs to, or nil
func (t *Tree) SectionOfCheck(checkID int64) *Section {
	i, ok := t.checkSection[checkID]
	if !ok {
		return nil
	}
	return t.nodes[i].section
}

// FilterChecks returns the checks matching f, keeping their order
func FilterChecks(checks []*Check, f CheckFilter) []*Check {
	out := make([]*Check, 0, len(checks))
	for _, c := range checks {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// SortByNumber orders checks by check number using plain string comparison,
// so "1.10" sorts before "1.2".
func SortByNumber(checks []*Check) {
	sort.SliceStable(checks, func(a, b int) bool {
		return checks[a].CheckNumber < checks[b].CheckNumber
	})
}
