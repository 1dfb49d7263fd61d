// Package audit reports gender cues that survive redaction. It never changes
// text; findings are for the person reviewing a profile.
package audit

import (
	"fmt"
	"sort"
)

// Finding is one rule match.
type Finding struct {
	Rule     string `json:"rule"`
	Category string `json:"category"`
	Severity string `json:"severity"`
	Match    string `json:"match"`
	Offset   int    `json:"offset"`
}

// Scan runs every rule over text. Findings are ordered by offset, then rule
// name.
func Scan(text string) (findings []Finding) {
	findings = make([]Finding, 0)
	if text == "" {
		return findings
	}

	for _, rule := range AuditRules {
		for _, loc := range rule.Pattern.FindAllStringIndex(text, -1) {
			findings = append(findings, Finding{
				Rule:     rule.Name,
				Category: rule.Category,
				Severity: rule.Severity,
				Match:    text[loc[0]:loc[1]],
				Offset:   loc[0],
			})
		}
	}

	sort.Slice(findings, func(i, j int) bool {
		if findings[i].Offset != findings[j].Offset {
			return findings[i].Offset < findings[j].Offset
		}
		return findings[i].Rule < findings[j].Rule
	})

	return findings
}

// Score starts at 100 and deducts each finding's rule weight, floored at 0.
func Score(findings []Finding) (score int) {
	score = 100

	for _, f := range findings {
		rule, exists := AuditRules[f.Rule]
		if !exists {
			continue
		}
		score -= rule.Weight
	}

	if score < 0 {
		score = 0
	}

	return score
}

// NeedsReview reports whether findings include a major cue or push the score
// below ReviewThreshold.
func NeedsReview(findings []Finding) (review bool) {
	for _, f := range findings {
		if f.Severity == "major" {
			review = true
			return review
		}
	}

	review = Score(findings) < ReviewThreshold
	return review
}

// Summary renders one line per finding.
func Summary(findings []Finding) (lines []string) {
	lines = []string{}

	for _, f := range findings {
		lines = append(lines, fmt.Sprintf("Residual %s cue (%s): %q at %d", f.Category, f.Severity, f.Match, f.Offset))
	}

	return lines
}
