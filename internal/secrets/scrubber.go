package secrets

import (
	"sort"
	"strings"
	"time"
)

// Scrubber detects and redacts secrets.
type Scrubber interface {
	// Scrub redacts secrets from the content.
	Scrub(content string) *Result

	// ScrubValue returns a copy of a decoded JSON value (maps, slices and
	// scalars) with every string scrubbed. Scrubbed is left empty in the
	// returned result.
	ScrubValue(v any) (any, *Result)

	// Check detects secrets without redacting.
	Check(content string) *Result

	// IsEnabled returns whether scrubbing is enabled.
	IsEnabled() bool
}

// scrubber is the regexp-based implementation. Its config is compiled once
// and never modified, so it is safe for concurrent use.
type scrubber struct {
	config *Config
}

// redaction tracks a span to redact.
type redaction struct {
	start, end int
	ruleID     string
}

// New creates a Scrubber. If cfg is nil, DefaultConfig() is used.
func New(cfg *Config) (Scrubber, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &scrubber{config: cfg}, nil
}

func newResult(content string) *Result {
	return &Result{
		Original: content,
		Scrubbed: content,
		Findings: make([]Finding, 0),
		ByRule:   make(map[string]int),
	}
}

// Scrub redacts secrets from the content.
func (s *scrubber) Scrub(content string) *Result {
	start := time.Now()
	result := newResult(content)

	if !s.config.Enabled {
		result.Duration = time.Since(start)
		return result
	}

	redactions := make([]redaction, 0)

	for _, rule := range s.config.compiledRules {
		if !rule.applies(content) {
			continue
		}

		for _, match := range rule.pattern.FindAllStringIndex(content, -1) {
			if s.isAllowed(content[match[0]:match[1]]) {
				continue
			}

			result.Findings = append(result.Findings, Finding{
				RuleID:      rule.ID,
				Description: rule.Description,
				Severity:    rule.Severity,
				StartIndex:  match[0],
				EndIndex:    match[1],
				Line:        strings.Count(content[:match[0]], "\n") + 1,
			})
			result.ByRule[rule.ID]++
			redactionsTotal.WithLabelValues(rule.ID).Inc()

			redactions = append(redactions, redaction{
				start:  match[0],
				end:    match[1],
				ruleID: rule.ID,
			})
		}
	}

	result.TotalFindings = len(result.Findings)

	if len(redactions) > 0 {
		sort.Slice(redactions, func(i, j int) bool {
			return redactions[i].start < redactions[j].start
		})

		// Merged spans are applied back to front so earlier offsets stay valid.
		merged := mergeRedactions(redactions)
		scrubbed := content
		for i := len(merged) - 1; i >= 0; i-- {
			r := merged[i]
			scrubbed = scrubbed[:r.start] + s.config.RedactionString + scrubbed[r.end:]
		}
		result.Scrubbed = scrubbed
	}

	result.Duration = time.Since(start)
	return result
}

// ScrubValue scrubs every string inside a decoded JSON value.
func (s *scrubber) ScrubValue(v any) (any, *Result) {
	start := time.Now()
	total := newResult("")
	out := s.scrubValue(v, total)
	total.Duration = time.Since(start)
	return out, total
}

func (s *scrubber) scrubValue(v any, total *Result) any {
	switch val := v.(type) {
	case string:
		r := s.Scrub(val)
		total.merge(r)
		return r.Scrubbed
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = s.scrubValue(item, total)
		}
		return out
	case []map[string]any:
		out := make([]map[string]any, len(val))
		for i, item := range val {
			out[i], _ = s.scrubValue(item, total).(map[string]any)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = s.scrubValue(item, total)
		}
		return out
	default:
		return v
	}
}

// Check detects secrets without redacting.
func (s *scrubber) Check(content string) *Result {
	result := s.Scrub(content)
	result.Scrubbed = result.Original
	return result
}

// IsEnabled returns whether scrubbing is enabled.
func (s *scrubber) IsEnabled() bool {
	return s.config.Enabled
}

// applies reports whether the rule's keyword precondition holds.
func (r *compiledRule) applies(content string) bool {
	if len(r.keywords) == 0 {
		return true
	}
	for _, kw := range r.keywords {
		if kw.MatchString(content) {
			return true
		}
	}
	return false
}

// isAllowed checks if the match is in the allow list.
func (s *scrubber) isAllowed(match string) bool {
	for _, pattern := range s.config.compiledAllowList {
		if pattern.MatchString(match) {
			return true
		}
	}
	return false
}

// mergeRedactions merges overlapping or adjacent redactions sorted by start.
func mergeRedactions(redactions []redaction) []redaction {
	if len(redactions) == 0 {
		return redactions
	}

	merged := []redaction{redactions[0]}

	for i := 1; i < len(redactions); i++ {
		last := &merged[len(merged)-1]
		curr := redactions[i]

		if curr.start <= last.end {
			if curr.end > last.end {
				last.end = curr.end
			}
		} else {
			merged = append(merged, curr)
		}
	}

	return merged
}

// NoopScrubber passes content through unchanged.
type NoopScrubber struct{}

// Scrub returns content unchanged.
func (n *NoopScrubber) Scrub(content string) *Result {
	return newResult(content)
}

// ScrubValue returns v unchanged.
func (n *NoopScrubber) ScrubValue(v any) (any, *Result) {
	return v, newResult("")
}

// Check returns content unchanged.
func (n *NoopScrubber) Check(content string) *Result {
	return n.Scrub(content)
}

// IsEnabled returns false.
func (n *NoopScrubber) IsEnabled() bool {
	return false
}

var (
	_ Scrubber = (*scrubber)(nil)
	_ Scrubber = (*NoopScrubber)(nil)
)
