package content

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // Compiled once
var spaceRun = regexp.MustCompile(` {2,}`)

// Segment splits text into paragraph and bullet-list blocks, in source order.
//
// Each non-blank line of prose becomes its own paragraph. Consecutive bullets
// share one list, and blank lines between bullets do not break it. A line
// without a marker that directly follows a bullet continues that bullet when
// another bullet comes later in the same unbroken run of lines; otherwise it
// closes the list and becomes a paragraph. Items and paragraphs are trimmed
// and never empty. Text without a recognised marker is returned one paragraph
// per line.
func Segment(text string) (blocks []Block) {
	blocks = []Block{}
	lines := splitLines(text)

	marker, ok := DetectMarker(text)
	if !ok {
		for _, line := range lines {
			if p := clean(line); p != "" {
				blocks = append(blocks, Paragraph(p))
			}
		}
		return blocks
	}

	s := newSegmenter(marker, lines)
	blocks = s.run()
	return blocks
}

type segmenter struct {
	marker Marker
	lines  []string
	// markerAhead[i] is true when a bullet starts on line i or on a later
	// line reachable without crossing a blank line.
	markerAhead []bool

	blocks   []Block
	list     int
	pending  string
	hasItem  bool
	inBullet bool
}

func newSegmenter(marker Marker, lines []string) (s *segmenter) {
	s = &segmenter{
		marker:      marker,
		lines:       lines,
		markerAhead: make([]bool, len(lines)),
		blocks:      []Block{},
		list:        -1,
	}

	for i := len(lines) - 1; i >= 0; i-- {
		if clean(lines[i]) == "" {
			continue
		}
		_, bullets := marker.fragments(lines[i])
		ahead := len(bullets) > 0
		if !ahead && i+1 < len(lines) && clean(lines[i+1]) != "" {
			ahead = s.markerAhead[i+1]
		}
		s.markerAhead[i] = ahead
	}
	return s
}

func (s *segmenter) run() (blocks []Block) {
	for i, line := range s.lines {
		if clean(line) == "" {
			s.inBullet = false
			continue
		}

		lead, bullets := s.marker.fragments(line)
		if len(bullets) == 0 {
			s.text(lead, i+1 < len(s.lines) && s.markerAhead[i+1])
			continue
		}

		if strings.TrimSpace(lead) != "" {
			s.text(lead, true)
		}
		for _, b := range bullets {
			s.flush()
			s.pending = b
			s.hasItem = true
		}
		s.inBullet = true
	}
	s.flush()

	blocks = s.blocks
	return blocks
}

// text handles a run of prose. bulletAhead reports whether another bullet
// follows before the next blank line.
func (s *segmenter) text(t string, bulletAhead bool) {
	if s.inBullet && s.hasItem && bulletAhead {
		s.pending += " " + t
		return
	}

	s.flush()
	s.list = -1
	s.inBullet = false
	if p := clean(t); p != "" {
		s.blocks = append(s.blocks, Paragraph(p))
	}
}

// flush moves the pending item into the open list, opening one if needed.
func (s *segmenter) flush() {
	if !s.hasItem {
		return
	}
	item := clean(s.pending)
	s.pending = ""
	s.hasItem = false
	if item == "" {
		return
	}

	if s.list < 0 {
		s.blocks = append(s.blocks, BulletList())
		s.list = len(s.blocks) - 1
	}
	s.blocks[s.list].Items = append(s.blocks[s.list].Items, item)
}

// clean trims surrounding whitespace and collapses runs of spaces.
func clean(s string) (out string) {
	out = spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
	return out
}
