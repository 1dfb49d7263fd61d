package renderer

import (
	"regexp"
	"strings"

	"github.com/nikogura/cvanon/pkg/content"
	"github.com/nikogura/cvanon/pkg/profile"
)

//nolint:gochecknoglobals // Markdown escaping tables
var (
	inlineEscaper = strings.NewReplacer(
		`\`, `\\`,
		"`", "\\`",
		"*", `\*`,
		"_", `\_`,
		"[", `\[`,
		"]", `\]`,
		"<", `\<`,
		">", `\>`,
		"#", `\#`,
		"|", `\|`,
		"$", `\$`,
		"~", `\~`,
		"^", `\^`,
	)
	orderedMarker = regexp.MustCompile(`^(\d+)([.)])`)
)

// Markdown renders p as a pandoc markdown document.
func Markdown(p profile.Profile) (md string) {
	var b strings.Builder

	b.WriteString("# Anonymised Candidate Profile\n\n")
	writeField(&b, "Role", p.JobTitle)
	writeField(&b, "Candidate", p.Initials)
	writeField(&b, "Job reference", p.JobRef)
	if p.HasTags {
		writeField(&b, "Tags", strings.Join(p.Tags, ", "))
	}
	writeField(&b, "Notes", p.Notes)

	if len(p.Positions) > 0 {
		b.WriteString("## Experience\n\n")
	}

	for _, pos := range p.Positions {
		b.WriteString("### " + Escape(pos.Title) + "\n\n")
		if pos.Duration != "" {
			b.WriteString("*" + Escape(pos.Duration) + "*\n\n")
		}
		for _, block := range pos.Content {
			writeBlock(&b, block)
		}
	}

	md = b.String()
	return md
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString("**" + label + ":** " + Escape(value) + "\n\n")
}

func writeBlock(b *strings.Builder, block content.Block) {
	if !block.IsBulletList() {
		b.WriteString(Escape(block.Text) + "\n\n")
		return
	}

	for _, item := range block.Items {
		b.WriteString("- " + Escape(item) + "\n")
	}
	b.WriteString("\n")
}

// Escape makes candidate text literal in markdown: inline metacharacters are
// backslash-escaped, and a leading list marker is neutralised so a line of
// prose never turns into a list.
func Escape(text string) (escaped string) {
	escaped = inlineEscaper.Replace(text)

	if strings.HasPrefix(escaped, "-") || strings.HasPrefix(escaped, "+") {
		escaped = `\` + escaped
	}
	escaped = orderedMarker.ReplaceAllString(escaped, `$1\$2`)
	return escaped
}
