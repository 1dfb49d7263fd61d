package audit

import "regexp"

// Rule flags one kind of gender cue that redaction leaves in place.
type Rule struct {
	Name        string
	Category    string // honorific, relation, noun, affiliation, leave, pronoun
	Severity    string // major, minor
	Description string
	Weight      int // Points deducted per finding
	Pattern     *regexp.Regexp
}

//nolint:gochecknoglobals // Audit configuration constants
var AuditRules = map[string]Rule{
	"HONORIFIC": {
		Name:        "HONORIFIC",
		Category:    "honorific",
		Severity:    "major",
		Description: "Gendered honorific in front of a name (Mrs Smith, Sir John)",
		Weight:      20,
		Pattern:     regexp.MustCompile(`\b(?:Mr|Mrs|Ms|Miss|Sir|Dame|Lady|Lord)\.?\s+[A-Z][\p{L}'-]+`),
	},
	"PARENTAL_LEAVE": {
		Name:        "PARENTAL_LEAVE",
		Category:    "leave",
		Severity:    "major",
		Description: "Maternity or paternity leave mentioned",
		Weight:      15,
		Pattern:     regexp.MustCompile(`(?i)\b(?:maternity|paternity)\b`),
	},
	"GENDERED_AFFILIATION": {
		Name:        "GENDERED_AFFILIATION",
		Category:    "affiliation",
		Severity:    "major",
		Description: "Membership of a single-gender organisation",
		Weight:      15,
		Pattern:     regexp.MustCompile(`(?i)\b(?:sorority|fraternity|sisterhood|brotherhood)\b`),
	},
	"GENDERED_RELATION": {
		Name:        "GENDERED_RELATION",
		Category:    "relation",
		Severity:    "minor",
		Description: "Gendered family or partner relation",
		Weight:      10,
		Pattern: regexp.MustCompile(
			`(?i)\b(?:husband|wife|boyfriend|girlfriend|son|daughter|mother|father|mum|mom|dad|sister|brother)s?\b`),
	},
	"GENDERED_NOUN": {
		Name:        "GENDERED_NOUN",
		Category:    "noun",
		Severity:    "minor",
		Description: "Gendered person noun (woman, gentleman, girls)",
		Weight:      10,
		Pattern: regexp.MustCompile(
			`(?i)\b(?:woman|women|man|men|lady|ladies|gentleman|gentlemen|girl|girls|boy|boys|female|male)\b`),
	},
	"UPPERCASE_PRONOUN": {
		Name:        "UPPERCASE_PRONOUN",
		Category:    "pronoun",
		Severity:    "minor",
		Description: "Pronoun written in capitals, which neutralisation does not rewrite",
		Weight:      10,
		Pattern:     regexp.MustCompile(`\b(?:SHE|HE|HER|HERS|HIM|HIS|HIMSELF|HERSELF)\b`),
	},
}

// ReviewThreshold is the score below which a profile should be checked by
// hand before it is shared.
const ReviewThreshold = 70
