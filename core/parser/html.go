package parser

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// toMarkdown converts markup-looking input to markdown so that JSON inside
// <pre>/<code> elements surfaces as a fenced block the isolator can find.
// Inputs without recognizable tags, and conversions that fail or come back
// empty, leave the text unchanged.
func (p *Parser) toMarkdown(text string) string {
	if !p.markupTag.MatchString(text) {
		return text
	}
	markdown, err := htmltomarkdown.ConvertString(text)
	if err != nil || strings.TrimSpace(markdown) == "" {
		return text
	}
	return markdown
}
