package report

import (
	"fmt"
	"strings"
	"time"
)

// ChecklistFilename is the download name of a benchmark checklist
func ChecklistFilename(platformSlug, version string) string {
	return fmt.Sprintf("CIS_Checklist_%s_%s.xlsx", platformSlug, version)
}

// AuditFilename is the download name of an audit report. Spaces in the
// target become underscores; an empty target is written as "audit".
func AuditFilename(target string, startedAt time.Time) string {
	name := strings.ReplaceAll(target, " ", "_")
	if name == "" {
		name = "audit"
	}
	return fmt.Sprintf("Audit_Report_%s_%s.xlsx", name, startedAt.UTC().Format("20060102"))
}
