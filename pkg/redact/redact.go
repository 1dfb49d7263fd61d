// Package redact removes identity cues from free-text work experience
// descriptions: the subject's first name is replaced with a generic referent
// and gendered pronouns are rewritten to their neutral forms.
//
// Both steps are best-effort regular-expression rewrites. They never fail and
// never mutate their input.
package redact

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

const sampleLength = 16

// Text replaces the subject's first name and then neutralises gendered
// pronouns. Empty text yields an empty string.
func Text(text, firstName string) (redacted string) {
	if text == "" {
		return redacted
	}
	redacted = Name(text, firstName)
	redacted = Pronouns(redacted)
	return redacted
}

// nameRule decides the replacement for a first-name occurrence from the text
// that precedes it.
type nameRule struct {
	name        string
	applies     func(preceding string) bool
	replacement string
}

// Most specific first; the first rule that applies wins for an occurrence.
//
//nolint:gochecknoglobals // Rule table
var nameRules = []nameRule{
	{
		name:        "text start",
		applies:     func(preceding string) bool { return preceding == "" },
		replacement: "The candidate",
	},
	{
		name:        "sentence start",
		applies:     func(preceding string) bool { return strings.HasSuffix(preceding, ". ") },
		replacement: "The candidate",
	},
	{
		name:        "anywhere",
		applies:     func(string) bool { return true },
		replacement: "the candidate",
	},
}

// Name replaces every case-insensitive whole-word occurrence of firstName with
// "The candidate" or "the candidate" depending on its position. Each
// occurrence is rewritten once, so a replacement is never matched again.
func Name(text, firstName string) (result string) {
	name := strings.TrimSpace(firstName)
	if text == "" || name == "" {
		result = text
		return result
	}

	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(name))

	var b strings.Builder
	last := 0
	for pos := 0; pos < len(text); {
		loc := re.FindStringIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if !isWholeWord(text, start, end) {
			// A rejected match may overlap a whole-word one, so resume one
			// rune later rather than after the match.
			_, size := utf8.DecodeRuneInString(text[start:])
			pos = start + size
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString(nameReplacement(text[:start]))
		last = end
		pos = end
	}
	if last == 0 {
		result = text
		return result
	}
	b.WriteString(text[last:])

	result = b.String()
	return result
}

func nameReplacement(preceding string) (replacement string) {
	for _, rule := range nameRules {
		if rule.applies(preceding) {
			replacement = rule.replacement
			return replacement
		}
	}
	return replacement
}

// isWholeWord reports whether text[start:end] is not glued to a neighbouring
// word character. Unlike regexp's \b this also treats non-ASCII letters as
// word characters, so "José" and "Zoë" are delimited correctly.
func isWholeWord(text string, start, end int) (ok bool) {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return ok
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return ok
		}
	}
	ok = true
	return ok
}

func isWordRune(r rune) (word bool) {
	word = r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
	return word
}

// Redactor applies Text and writes an audit record whenever the text changed.
type Redactor struct {
	logger *slog.Logger
}

// NewRedactor creates a Redactor. A nil logger falls back to slog.Default().
func NewRedactor(logger *slog.Logger) (r *Redactor) {
	if logger == nil {
		logger = slog.Default()
	}
	r = &Redactor{logger: logger}
	return r
}

// Redact behaves like Text. The candidate id is only used for the audit log.
func (r *Redactor) Redact(candidateID, text, firstName string) (redacted string) {
	redacted = Text(text, firstName)
	if redacted == text {
		return redacted
	}

	pos := FirstDiff(text, redacted)
	r.logger.Info("neutralise",
		"kind", "text",
		"candidate_id", candidateID,
		"before", sample(text, pos),
		"after", sample(redacted, pos),
	)
	return redacted
}

// FirstDiff returns the rune index of the first difference between a and b,
// or -1 when they are equal.
func FirstDiff(a, b string) (pos int) {
	if a == b {
		pos = -1
		return pos
	}
	ra, rb := []rune(a), []rune(b)
	for pos < len(ra) && pos < len(rb) && ra[pos] == rb[pos] {
		pos++
	}
	return pos
}

func sample(s string, pos int) (out string) {
	runes := []rune(s)
	if pos < 0 || pos >= len(runes) {
		return out
	}
	end := min(pos+sampleLength, len(runes))
	out = string(runes[pos:end])
	return out
}
