// Package profile assembles an anonymised candidate profile from an HR
// system candidate record.
package profile

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/nikogura/cvanon/pkg/audit"
	"github.com/nikogura/cvanon/pkg/candidate"
	"github.com/nikogura/cvanon/pkg/content"
)

const (
	// RefBase prefixes a candidate id to link back to the HR system.
	RefBase = "https://smartrecruiters.com/app/people/candidates/"
	// VisaStatusQuestion is the screening question reported in the notes.
	VisaStatusQuestion = "Employment Visa Status"
	// DefaultPositions is how many positions a profile shows by default.
	DefaultPositions = 5
)

// Profile is an anonymised candidate.
type Profile struct {
	CandidateID string     `json:"candidateId"`
	JobTitle    string     `json:"jobTitle"`
	Initials    string     `json:"initials"`
	Ref         string     `json:"ref"`
	Tags        []string   `json:"tags"`
	HasTags     bool       `json:"hasTags"`
	Positions   []Position `json:"positions"`
	Notes       string     `json:"notes,omitempty"`
	JobRef      string     `json:"jobRef,omitempty"`
	NeedsReview bool       `json:"needsReview"`
}

// Position is one anonymised work-experience entry.
type Position struct {
	Title    string          `json:"title"`
	Duration string          `json:"duration,omitempty"`
	Text     string          `json:"text"`
	Content  []content.Block `json:"content"`
	Cues     []audit.Finding `json:"cues,omitempty"`
}

// Duration renders the inclusive number of months between the start and end
// of exp, e.g. "1 year, 2 months". Current positions run until now. It
// returns "" when the dates are missing or unparseable.
func Duration(exp candidate.Experience, now time.Time) (d string) {
	if exp.StartDate == "" || (!exp.Current && exp.EndDate == "") {
		return d
	}

	from, err := candidate.ParseDate(exp.StartDate)
	if err != nil {
		return d
	}

	to := now
	if !exp.Current {
		to, err = candidate.ParseDate(exp.EndDate)
		if err != nil {
			return d
		}
	}

	total := int(to.Month()) - int(from.Month()) + 12*(to.Year()-from.Year()) + 1
	if total <= 0 {
		return d
	}

	years, months := total/12, total%12
	parts := make([]string, 0, 2)
	if years > 0 {
		parts = append(parts, plural(years, "year"))
	}
	if months > 0 {
		parts = append(parts, plural(months, "month"))
	}

	d = strings.Join(parts, ", ")
	return d
}

func plural(n int, unit string) (s string) {
	s = fmt.Sprintf("%d %s", n, unit)
	if n > 1 {
		s += "s"
	}
	return s
}

// Notes returns the visa status question and its answer, or "" when the
// candidate was not asked.
func Notes(answers *candidate.ScreeningAnswers) (notes string) {
	if answers == nil {
		return notes
	}

	answer, ok := answers.Find(VisaStatusQuestion)
	if !ok {
		return notes
	}

	notes = answer.Label + " " + answer.RadioValue()
	return notes
}

// Initials returns the first letters of the first and last names.
func Initials(firstName, lastName string) (initials string) {
	for _, name := range []string{firstName, lastName} {
		for _, r := range strings.TrimSpace(name) {
			initials += string(r)
			break
		}
	}
	return initials
}

//nolint:gochecknoglobals // Compiled once
var (
	nonWord  = regexp.MustCompile(`[^\w]`)
	spaceRun = regexp.MustCompile(` +`)
)

// FileName names the rendered document for p.
func FileName(p Profile) (name string) {
	title := strings.TrimSpace(spaceRun.ReplaceAllString(nonWord.ReplaceAllString(p.JobTitle, " "), " "))
	name = fmt.Sprintf("Anonymised Candidate Profile - %s - %s - %s.docx", p.Initials, title, p.JobRef)
	return name
}
