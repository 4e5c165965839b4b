package audit

import (
	"sort"

	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
)

// SectionSummary is the compliance of one top-level section
type SectionSummary struct {
	Label          string  `json:"label"`
	Pass           int     `json:"pass"`
	Checked        int     `json:"checked"`
	ComplianceRate float64 `json:"compliance_rate"`
}

// Summary aggregates the results of a session overall and per top-level section
type Summary struct {
	Counts
	ComplianceRate float64          `json:"compliance_rate"`
	Sections       []SectionSummary `json:"sections"`
}

// Summarize tallies results, grouping them under the top-level ancestor of
// each check's section. Sections are sorted by label. Results whose check is
// not in tree only count toward the overall totals.
func Summarize(results []*Result, tree *catalog.Tree) Summary {
	var s Summary
	groups := make(map[string]*SectionSummary)

	for _, r := range results {
		s.Add(r.Status)

		if tree == nil {
			continue
		}
		sec := tree.SectionOfCheck(r.CheckID)
		if sec == nil {
			continue
		}
		top := tree.TopLevel(sec.ID)
		label := top.Label()
		g, ok := groups[label]
		if !ok {
			g = &SectionSummary{Label: label}
			groups[label] = g
		}
		if r.Status != StatusNotChecked {
			g.Checked++
		}
		if r.Status == StatusPass {
			g.Pass++
		}
	}

	s.ComplianceRate = s.Counts.ComplianceRate()
	s.Sections = make([]SectionSummary, 0, len(groups))
	for _, g := range groups {
		g.ComplianceRate = ComplianceRate(g.Pass, g.Checked)
		s.Sections = append(s.Sections, *g)
	}
	sort.Slice(s.Sections, func(i, j int) bool {
		return s.Sections[i].Label < s.Sections[j].Label
	})
	return s
}
