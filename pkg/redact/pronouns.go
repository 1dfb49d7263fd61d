package redact

import "regexp"

// Rule is one ordered pattern → replacement rewrite. Replacement may refer to
// capture groups with ${n}.
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

func rule(pattern, replacement string) (r Rule) {
	r = Rule{Pattern: regexp.MustCompile(pattern), Replacement: replacement}
	return r
}

// CapitalizedRules rewrite pronouns that start with an upper-case letter.
// Order matters: compound forms must run before the bare pronoun that would
// otherwise consume them.
//
//nolint:gochecknoglobals // Rule table
var CapitalizedRules = []Rule{
	rule(`\b(?:She|He) is\b`, "They are"),
	rule(`\b(?:She|He)(['’])s\b`, "They${1}re"),
	rule(`\b(?:She|He) was\b`, "They were"),
	rule(`\b(?:She|He) has\b`, "They have"),
	rule(`\b(?:She|He)\b`, "They"),
	rule(`\bHer(\s+(?:and|or))\b`, "Them${1}"),
	rule(`\bHer\.`, "Them."),
	rule(`\bHer,`, "Them,"),
	rule(`\bHer$`, "Them"),
	rule(`\bHim\b`, "Them"),
	rule(`\bHers\b`, "Theirs"),
	rule(`\b(?:His|Her)\b`, "Their"),
	rule(`\b(?:Himself|Herself)\b`, "Themself"),
}

// LowercaseRules are CapitalizedRules for pronouns in lower case.
//
//nolint:gochecknoglobals // Rule table
var LowercaseRules = []Rule{
	rule(`\b(?:she|he) is\b`, "they are"),
	rule(`\b(?:she|he)(['’])s\b`, "they${1}re"),
	rule(`\b(?:she|he) was\b`, "they were"),
	rule(`\b(?:she|he) has\b`, "they have"),
	rule(`\b(?:she|he)\b`, "they"),
	rule(`\bher(\s+(?:and|or))\b`, "them${1}"),
	rule(`\bher\.`, "them."),
	rule(`\bher,`, "them,"),
	rule(`\bher$`, "them"),
	rule(`\bhim\b`, "them"),
	rule(`\bhers\b`, "theirs"),
	rule(`\b(?:his|her)\b`, "their"),
	rule(`\b(?:himself|herself)\b`, "themself"),
}

// Pronouns rewrites gendered pronouns to they/them/their, keeping the case of
// each occurrence's first letter.
func Pronouns(text string) (result string) {
	result = Apply(text, CapitalizedRules)
	result = Apply(result, LowercaseRules)
	return result
}

// Apply runs rules in order, each over the output of the previous one.
func Apply(text string, rules []Rule) (result string) {
	result = text
	for _, r := range rules {
		result = r.Pattern.ReplaceAllString(result, r.Replacement)
	}
	return result
}
