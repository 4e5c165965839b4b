package audit

import (
	"testing"
	"time"

	"github.com/pratik-mahalle/cisaudit/internal/domain/catalog"
)

func TestProgress(t *testing.T) {
	tests := []struct {
		name           string
		total, checked int
		want           int
	}{
		{"empty session", 0, 0, 0},
		{"nothing checked", 10, 0, 0},
		{"all checked", 7, 7, 100},
		{"one of three floors", 3, 1, 33},
		{"two of three floors", 3, 2, 66},
		{"199 of 200", 200, 199, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Progress(tt.total, tt.checked); got != tt.want {
				t.Errorf("Progress(%d, %d) = %d, want %d", tt.total, tt.checked, got, tt.want)
			}
		})
	}
}

func TestComplianceRate(t *testing.T) {
	if got := ComplianceRate(0, 0); got != 0 {
		t.Errorf("ComplianceRate(0, 0) = %v, want 0", got)
	}
	if got := ComplianceRate(1, 2); got != 0.5 {
		t.Errorf("ComplianceRate(1, 2) = %v, want 0.5", got)
	}
}

func TestCountsAdd(t *testing.T) {
	var c Counts
	for _, s := range []string{StatusPass, StatusFail, StatusNotApplicable, StatusNotChecked, StatusPass} {
		c.Add(s)
	}
	want := Counts{Total: 5, Checked: 4, Pass: 2, Fail: 1, NotApplicable: 1, NotChecked: 1}
	if c != want {
		t.Errorf("Counts = %+v, want %+v", c, want)
	}
	if c.Progress() != 80 {
		t.Errorf("Progress = %d", c.Progress())
	}
}

func TestResultApply(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	r := &Result{Status: StatusNotChecked}

	r.Apply(StatusFail, "  root login allowed \n", now)
	if r.Status != StatusFail || r.CheckedAt == nil || !r.CheckedAt.Equal(now) {
		t.Fatalf("after fail: %+v", r)
	}
	if r.Finding != "root login allowed" {
		t.Errorf("Finding = %q", r.Finding)
	}

	r.Apply(StatusNotChecked, r.Finding, now.Add(time.Hour))
	if r.CheckedAt != nil {
		t.Error("CheckedAt should be cleared when reset to not_checked")
	}
	if r.Finding != "root login allowed" {
		t.Error("finding should be kept when reset")
	}
}

func TestSessionComplete(t *testing.T) {
	first := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := &Session{Status: SessionInProgress}
	if s.StatusDisplay() != "In Progress" {
		t.Errorf("StatusDisplay = %s", s.StatusDisplay())
	}

	s.Complete(first)
	s.Complete(first.Add(time.Hour))
	if !s.IsCompleted() || !s.CompletedAt.Equal(first) {
		t.Errorf("completed session = %+v", s)
	}
	if s.StatusDisplay() != "Completed" {
		t.Errorf("StatusDisplay = %s", s.StatusDisplay())
	}
}

func TestNewSessionNormalize(t *testing.T) {
	n := NewSession{TargetName: "   ", TargetIP: " 10.0.0.5 "}
	n.Normalize()
	if n.TargetName != DefaultTargetName || n.TargetIP != "10.0.0.5" {
		t.Errorf("Normalize = %+v", n)
	}
}

func TestValidResultStatus(t *testing.T) {
	for _, s := range ResultStatuses {
		if !ValidResultStatus(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	if ValidResultStatus("skipped") {
		t.Error("skipped should be invalid")
	}
	if StatusDisplay(StatusNotApplicable) != "N/A" {
		t.Error("not_applicable should display as N/A")
	}
}

func TestSummarize(t *testing.T) {
	parent := int64(1)
	sections := []*catalog.Section{
		{ID: 1, Number: "1", Title: "Setup"},
		{ID: 2, Number: "1.1", Title: "Files", ParentID: &parent},
		{ID: 3, Number: "2", Title: "Network", SortOrder: 1},
	}
	checks := []*catalog.Check{
		{ID: 10, SectionID: 2, CheckNumber: "1.1.1"},
		{ID: 11, SectionID: 2, CheckNumber: "1.1.2"},
		{ID: 12, SectionID: 3, CheckNumber: "2.1"},
	}
	tree, err := catalog.NewTree(sections, checks)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("scenario", func(t *testing.T) {
		results := []*Result{
			{CheckID: 10, Status: StatusPass},
			{CheckID: 11, Status: StatusNotApplicable},
		}
		s := Summarize(results, tree)
		want := Counts{Total: 2, Checked: 2, Pass: 1, Fail: 0, NotApplicable: 1, NotChecked: 0}
		if s.Counts != want {
			t.Errorf("Counts = %+v, want %+v", s.Counts, want)
		}
		if s.ComplianceRate != 0.5 {
			t.Errorf("ComplianceRate = %v, want 0.5", s.ComplianceRate)
		}
		if len(s.Sections) != 1 || s.Sections[0].Label != "1. Setup" {
			t.Fatalf("Sections = %+v", s.Sections)
		}
	})

	t.Run("zero guard per section", func(t *testing.T) {
		results := []*Result{
			{CheckID: 10, Status: StatusFail},
			{CheckID: 12, Status: StatusNotChecked},
		}
		s := Summarize(results, tree)
		if len(s.Sections) != 2 {
			t.Fatalf("Sections = %+v", s.Sections)
		}
		if s.Sections[0].Label != "1. Setup" || s.Sections[0].ComplianceRate != 0 || s.Sections[0].Checked != 1 {
			t.Errorf("first section = %+v", s.Sections[0])
		}
		if s.Sections[1].Label != "2. Network" || s.Sections[1].Checked != 0 || s.Sections[1].ComplianceRate != 0 {
			t.Errorf("second section = %+v", s.Sections[1])
		}
	})

	t.Run("empty", func(t *testing.T) {
		s := Summarize(nil, tree)
		if s.Total != 0 || s.ComplianceRate != 0 || len(s.Sections) != 0 {
			t.Errorf("Summary = %+v", s)
		}
	})
}
