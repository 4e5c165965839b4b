package catalog

import (
	"strings"
	"testing"
)

func ptr(v int64) *int64 { return &v }

func checkNumbers(checks []*Check) []string {
	out := make([]string, len(checks))
	for i, c := range checks {
		out[i] = c.CheckNumber
	}
	return out
}

func sectionNumbers(sections []*Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = s.Number
	}
	return out
}

// sampleTree is:
//
//	1 (p0)
//	  1.1 (a)
//	  1.2 (b)
//	    1.2.1 (deep)
//	2 (z)
func sampleTree(t *testing.T) *Tree {
	t.Helper()
	sections := []*Section{
		{ID: 10, Number: "2", Title: "Services", SortOrder: 1},
		{ID: 1, Number: "1", Title: "Initial Setup", SortOrder: 0},
		{ID: 3, Number: "1.2", Title: "Updates", ParentID: ptr(1), SortOrder: 1},
		{ID: 2, Number: "1.1", Title: "Filesystem", ParentID: ptr(1), SortOrder: 0},
		{ID: 4, Number: "1.2.1", Title: "Repos", ParentID: ptr(3), SortOrder: 0},
	}
	checks := []*Check{
		{ID: 101, SectionID: 2, CheckNumber: "a", Level: 1, Scored: true},
		{ID: 100, SectionID: 1, CheckNumber: "p0", Level: 1, Scored: true},
		{ID: 102, SectionID: 3, CheckNumber: "b", Level: 2, Scored: false},
		{ID: 103, SectionID: 4, CheckNumber: "deep", Level: 2, Scored: true},
		{ID: 104, SectionID: 10, CheckNumber: "z", Level: 1, Scored: false},
		{ID: 105, SectionID: 99, CheckNumber: "orphan"},
	}
	tree, err := NewTree(sections, checks)
	if err != nil {
		t.Fatalf("NewTree() error = %v", err)
	}
	return tree
}

func TestTree_DescendantChecksPreOrder(t *testing.T) {
	sections := []*Section{
		{ID: 1, Number: "1"},
		{ID: 2, Number: "1.1", ParentID: ptr(1), SortOrder: 0},
		{ID: 3, Number: "1.2", ParentID: ptr(1), SortOrder: 1},
	}
	checks := []*Check{
		{ID: 12, SectionID: 3, CheckNumber: "b"},
		{ID: 11, SectionID: 2, CheckNumber: "a"},
		{ID: 10, SectionID: 1, CheckNumber: "p0"},
	}
	tree, err := NewTree(sections, checks)
	if err != nil {
		t.Fatal(err)
	}

	got := strings.Join(checkNumbers(tree.DescendantChecks(1)), ",")
	if got != "p0,a,b" {
		t.Errorf("DescendantChecks(1) = %s, want p0,a,b", got)
	}
}

func TestTree_Traversal(t *testing.T) {
	tree := sampleTree(t)

	tests := []struct {
		name string
		got  []string
		want string
	}{
		{"roots", sectionNumbers(tree.Roots()), "1,2"},
		{"children of 1", sectionNumbers(tree.Children(1)), "1.1,1.2"},
		{"descendants of 1", checkNumbers(tree.DescendantChecks(1)), "p0,a,b,deep"},
		{"descendants of leaf", checkNumbers(tree.DescendantChecks(4)), "deep"},
		{"all checks", checkNumbers(tree.AllChecks()), "p0,a,b,deep,z"},
		{"breadcrumb of deepest", sectionNumbers(tree.Breadcrumb(4)), "1,1.2,1.2.1"},
		{"breadcrumb of root", sectionNumbers(tree.Breadcrumb(10)), "2"},
		{"unknown section", checkNumbers(tree.DescendantChecks(999)), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strings.Join(tt.got, ","); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestTree_TopLevelAndTotals(t *testing.T) {
	tree := sampleTree(t)

	if top := tree.TopLevel(4); top == nil || top.ID != 1 {
		t.Errorf("TopLevel(4) = %+v, want section 1", top)
	}
	if top := tree.TopLevel(10); top == nil || top.ID != 10 {
		t.Errorf("TopLevel(10) = %+v, want itself", top)
	}
	if tree.TopLevel(999) != nil {
		t.Error("TopLevel(999) should be nil")
	}
	if n := tree.TotalChecks(1); n != 4 {
		t.Errorf("TotalChecks(1) = %d, want 4", n)
	}
	if s := tree.SectionOfCheck(103); s == nil || s.ID != 4 {
		t.Errorf("SectionOfCheck(103) = %+v", s)
	}
	if tree.SectionOfCheck(105) != nil {
		t.Error("orphan check should not be placed in the tree")
	}
	if tree.Len() != 5 {
		t.Errorf("Len() = %d", tree.Len())
	}
}

func TestNewTree_RejectsBadHierarchies(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		sections := []*Section{
			{ID: 1, Number: "1"},
			{ID: 2, Number: "2", ParentID: ptr(3)},
			{ID: 3, Number: "3", ParentID: ptr(2)},
		}
		if _, err := NewTree(sections, nil); err == nil {
			t.Error("expected cycle error")
		}
	})

	t.Run("too deep", func(t *testing.T) {
		var sections []*Section
		for i := int64(1); i <= MaxDepth+1; i++ {
			s := &Section{ID: i, Number: "x"}
			if i > 1 {
				s.ParentID = ptr(i - 1)
			}
			sections = append(sections, s)
		}
		if _, err := NewTree(sections, nil); err == nil {
			t.Error("expected depth error")
		}
	})
}

func TestFilterChecks(t *testing.T) {
	tree := sampleTree(t)
	all := tree.AllChecks()

	tests := []struct {
		name   string
		filter CheckFilter
		want   string
	}{
		{"no filter", CheckFilter{}, "p0,a,b,deep,z"},
		{"level 2", CheckFilter{Level: Level2}, "b,deep"},
		{"level 1 scored", CheckFilter{Level: Level1, ScoredOnly: true}, "p0,a"},
		{"scored only", CheckFilter{ScoredOnly: true}, "p0,a,deep"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := strings.Join(checkNumbers(FilterChecks(all, tt.filter)), ",")
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSortByNumberIsLexical(t *testing.T) {
	checks := []*Check{{CheckNumber: "1.2"}, {CheckNumber: "1.10"}, {CheckNumber: "1.1"}}
	SortByNumber(checks)
	if got := strings.Join(checkNumbers(checks), ","); got != "1.1,1.10,1.2" {
		t.Errorf("got %s", got)
	}
}

func TestCheck_AuditText(t *testing.T) {
	tests := []struct {
		name    string
		command string
		steps   string
		want    string
	}{
		{"command", "  findmnt /tmp \n", "open settings", "findmnt /tmp"},
		{"steps when no command", "", " Open the GUI ", "Open the GUI"},
		{"blank command wins", "   \n", "Open the GUI", ""},
		{"neither", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Check{AuditCommand: tt.command, AuditSteps: tt.steps}
			if got := c.AuditText(); got != tt.want {
				t.Errorf("AuditText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckDisplay(t *testing.T) {
	c := &Check{Level: 2, Scored: false, AuditSteps: " open settings \n"}
	if c.LevelDisplay() != "L2" {
		t.Errorf("LevelDisplay = %s", c.LevelDisplay())
	}
	if c.ScoredDisplay() != "Not Scored" {
		t.Errorf("ScoredDisplay = %s", c.ScoredDisplay())
	}
	if c.AuditText() != "open settings" {
		t.Errorf("AuditText = %q", c.AuditText())
	}
	s := &Section{Number: "1.1", Title: "Filesystem"}
	if s.Label() != "1.1. Filesystem" {
		t.Errorf("Label = %s", s.Label())
	}
}
