package parser

import "strings"

// isolate narrows text to the span most likely to hold the JSON payload:
// the interior of the first fenced code block, else the substring from the
// first '{' through the last '}' inclusive. Isolation is best-effort and
// never fails; when neither shape is present the text passes through
// unchanged and downstream layers must cope.
func (p *Parser) isolate(text string) string {
	if m := p.fencedBlock.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}
