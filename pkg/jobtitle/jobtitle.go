// Package jobtitle replaces gendered job title vocabulary with neutral
// equivalents using an ordered substitution dictionary.
package jobtitle

import (
	"log/slog"
	"regexp"

	"github.com/pkg/errors"
)

// Substitution rewrites one whole word, matched case-insensitively.
type Substitution struct {
	From string `json:"from" yaml:"from" validate:"required"`
	To   string `json:"to" yaml:"to"`
}

// Dictionary is an ordered list of substitutions. Later entries see the output
// of earlier ones.
type Dictionary []Substitution

// Neutralize applies subs to title in order. Entries whose From does not
// compile as a regular expression are skipped. To is inserted literally.
func Neutralize(title string, subs []Substitution) (neutral string) {
	neutral = title
	for _, s := range subs {
		re, err := compile(s.From)
		if err != nil {
			continue
		}
		neutral = re.ReplaceAllLiteralString(neutral, s.To)
	}
	return neutral
}

func compile(from string) (re *regexp.Regexp, err error) {
	re, err = regexp.Compile(`(?i)\b` + from + `\b`)
	if err != nil {
		err = errors.Wrapf(err, "invalid job title pattern %q", from)
		return re, err
	}
	return re, err
}

type rule struct {
	pattern *regexp.Regexp
	to      string
}

// Neutralizer holds a compiled Dictionary.
type Neutralizer struct {
	rules  []rule
	logger *slog.Logger
}

// NewNeutralizer compiles dict, failing on the first invalid pattern.
func NewNeutralizer(dict Dictionary) (n *Neutralizer, err error) {
	rules := make([]rule, 0, len(dict))
	for i, s := range dict {
		var re *regexp.Regexp
		re, err = compile(s.From)
		if err != nil {
			err = errors.Wrapf(err, "substitution %d", i)
			return n, err
		}
		rules = append(rules, rule{pattern: re, to: s.To})
	}

	n = &Neutralizer{rules: rules}
	return n, err
}

// WithLogger returns a copy of n that logs every title it changes.
func (n *Neutralizer) WithLogger(logger *slog.Logger) (out *Neutralizer) {
	out = &Neutralizer{rules: n.rules, logger: logger}
	return out
}

// Len returns the number of substitutions.
func (n *Neutralizer) Len() (count int) {
	count = len(n.rules)
	return count
}

// Neutralize applies the dictionary to title.
func (n *Neutralizer) Neutralize(title string) (neutral string) {
	neutral = title
	for _, r := range n.rules {
		neutral = r.pattern.ReplaceAllLiteralString(neutral, r.to)
	}

	if n.logger != nil && neutral != title {
		n.logger.Info("neutralise", "kind", "job_title", "before", title, "after", neutral)
	}
	return neutral
}
