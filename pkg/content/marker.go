package content

import (
	"regexp"
	"strings"
)

// Marker is a bullet-point convention found in source text.
type Marker struct {
	Name  string
	Glyph string
	// LineStart markers only count at the start of a line and are never
	// collapsed; glyph markers count anywhere and runs of them collapse to one.
	LineStart bool

	run *regexp.Regexp
}

// Supported markers in detection priority order.
//
//nolint:gochecknoglobals // Marker table
var Markers = []Marker{
	glyphMarker("small bullet", "•"),
	glyphMarker("large bullet", "●"),
	glyphMarker("asterisk", "*"),
	{Name: "hyphen", Glyph: "-", LineStart: true},
}

func glyphMarker(name, glyph string) (m Marker) {
	m = Marker{
		Name:  name,
		Glyph: glyph,
		run:   regexp.MustCompile(regexp.QuoteMeta(glyph) + `{2,}`),
	}
	return m
}

// minOccurrences keeps a stray glyph or dash from turning prose into a list.
const minOccurrences = 2

// DetectMarker returns the marker used by text. When several markers
// qualify, the one that appears first wins. ok is false for plain prose.
//
// Line endings are normalised before offsets are compared, so \r\n and \n
// input select the same marker.
func DetectMarker(text string) (marker Marker, ok bool) {
	text = normalizeNewlines(text)

	best := len(text)
	for _, m := range Markers {
		first, qualifies := m.qualifies(text)
		if !qualifies || first >= best {
			continue
		}
		best = first
		marker = m
		ok = true
	}
	return marker, ok
}

// qualifies returns the byte offset of the first occurrence of the marker and
// whether text uses it as a bullet marker. A glyph needs minOccurrences
// anywhere. The hyphen needs a bullet line after a line break and
// minOccurrences hyphens in the whole text.
func (m Marker) qualifies(text string) (first int, ok bool) {
	first = -1
	count := strings.Count(text, m.Glyph)
	if !m.LineStart {
		first = strings.Index(text, m.Glyph)
		ok = count >= minOccurrences
		return first, ok
	}

	afterBreak := false
	offset := 0
	for i, line := range strings.Split(text, "\n") {
		if _, bullet := m.lineBullet(line); bullet {
			if first < 0 {
				first = offset + strings.Index(line, m.Glyph)
			}
			if i > 0 {
				afterBreak = true
			}
		}
		offset += len(line) + 1
	}
	ok = afterBreak && count >= minOccurrences
	return first, ok
}

// collapse squeezes runs of a glyph marker down to one glyph.
func (m Marker) collapse(line string) (out string) {
	if m.run == nil {
		out = line
		return out
	}
	out = m.run.ReplaceAllString(line, m.Glyph)
	return out
}

// lineBullet reports whether a line-start marker opens line, returning the
// text after the marker.
func (m Marker) lineBullet(line string) (rest string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(trimmed, m.Glyph) {
		return rest, ok
	}
	rest = trimmed[len(m.Glyph):]
	ok = true
	return rest, ok
}

// fragments splits one source line into the text before the first marker and
// the text of each bullet that starts on the line.
func (m Marker) fragments(line string) (lead string, bullets []string) {
	if m.LineStart {
		if rest, ok := m.lineBullet(line); ok {
			bullets = []string{rest}
			return lead, bullets
		}
		lead = line
		return lead, bullets
	}

	parts := strings.Split(m.collapse(line), m.Glyph)
	lead = parts[0]
	bullets = parts[1:]
	return lead, bullets
}

// splitLines splits on \n, \r\n and \r.
func splitLines(text string) (lines []string) {
	lines = strings.Split(normalizeNewlines(text), "\n")
	return lines
}

func normalizeNewlines(text string) (out string) {
	out = strings.ReplaceAll(text, "\r\n", "\n")
	out = strings.ReplaceAll(out, "\r", "\n")
	return out
}
