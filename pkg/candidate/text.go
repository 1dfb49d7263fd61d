package candidate

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pkg/errors"
)

//nolint:gochecknoglobals // Compiled once
var (
	markupTag  = regexp.MustCompile(`</?[a-zA-Z][a-zA-Z0-9]*(?:\s[^<>]*)?/?>`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// Block-level elements that end a line when flattened.
const lineBreakers = "p, div, ul, ol, h1, h2, h3, h4, h5, h6, tr, blockquote"

// PlainText flattens a description that contains HTML markup into the plain
// text conventions the segmenter understands: list items become "• " lines
// and block elements end lines. Text without markup is returned unchanged.
func PlainText(description string) (text string, err error) {
	if !markupTag.MatchString(description) {
		text = description
		return text, err
	}

	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(strings.NewReader(description))
	if err != nil {
		err = errors.Wrap(err, "failed to parse description HTML")
		return text, err
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, s *goquery.Selection) {
		s.PrependHtml("• ")
		s.AppendHtml("\n")
	})
	doc.Find(lineBreakers).Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	text = cleanLines(doc.Find("body").Text())
	return text, err
}

func cleanLines(raw string) (text string) {
	raw = strings.ReplaceAll(raw, "\u00a0", " ")

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}

	text = strings.Join(lines, "\n")
	text = blankLines.ReplaceAllString(text, "\n\n")
	text = strings.Trim(text, "\n")
	return text
}
