// Package content turns free-text work experience descriptions into an
// ordered sequence of paragraph and bullet-list blocks.
package content

// Kind tags a Block.
type Kind string

const (
	// KindParagraph is a single trimmed line of prose.
	KindParagraph Kind = "paragraph"
	// KindBulletList is a run of bullet items.
	KindBulletList Kind = "bullets"
)

// Block is either a paragraph (Text) or a bullet list (Items).
type Block struct {
	Kind  Kind     `json:"kind"`
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`
}

// Paragraph returns a paragraph block.
func Paragraph(text string) (b Block) {
	b = Block{Kind: KindParagraph, Text: text}
	return b
}

// BulletList returns a bullet-list block.
func BulletList(items ...string) (b Block) {
	b = Block{Kind: KindBulletList, Items: items}
	return b
}

// IsBulletList reports whether b holds bullet items.
func (b Block) IsBulletList() (ok bool) {
	ok = b.Kind == KindBulletList
	return ok
}
