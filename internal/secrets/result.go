package secrets

import (
	"sort"
	"time"
)

// Result contains the scrubbing result.
type Result struct {
	// Original is the input content
	Original string `json:"-"`

	// Scrubbed is the content with secrets redacted
	Scrubbed string `json:"scrubbed"`

	// Findings holds the detected secrets without their values
	Findings []Finding `json:"findings,omitempty"`

	Duration time.Duration `json:"duration"`

	TotalFindings int `json:"total_findings"`

	// ByRule maps rule IDs to finding counts
	ByRule map[string]int `json:"by_rule,omitempty"`
}

// Finding represents a detected secret. The matched text is never kept.
type Finding struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	StartIndex  int    `json:"start_index"`
	EndIndex    int    `json:"end_index"`
	Line        int    `json:"line,omitempty"` // 1-indexed
}

// HasFindings returns true if any secrets were found.
func (r *Result) HasFindings() bool {
	return r.TotalFindings > 0
}

// FindingsBySeverity returns findings filtered by severity.
func (r *Result) FindingsBySeverity(severity string) []Finding {
	var filtered []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// RuleIDs returns the sorted unique rule IDs that matched.
func (r *Result) RuleIDs() []string {
	ids := make([]string, 0, len(r.ByRule))
	for id := range r.ByRule {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Summary returns a brief summary of findings.
func (r *Result) Summary() string {
	if !r.HasFindings() {
		return "no secrets detected"
	}
	for _, severity := range []string{"high", "medium", "low"} {
		if len(r.FindingsBySeverity(severity)) > 0 {
			return "secrets redacted (" + severity + " severity)"
		}
	}
	return "secrets redacted"
}

// merge folds another result's counts into r.
func (r *Result) merge(other *Result) {
	r.Findings = append(r.Findings, other.Findings...)
	r.TotalFindings += other.TotalFindings
	for id, n := range other.ByRule {
		r.ByRule[id] += n
	}
}
