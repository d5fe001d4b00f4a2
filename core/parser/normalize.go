package parser

import "strings"

// Word processors and some chat frontends replace ASCII quotes with the
// typographic pair, which breaks JSON decoding.
var smartQuotes = strings.NewReplacer("“", `"`, "”", `"`)

// normalize rewrites curly quotes to ASCII double quotes and strips //
// line comments and /* */ block comments (including multi-line ones).
// It is idempotent and has no failure mode.
func (p *Parser) normalize(text string) string {
	return p.comments.ReplaceAllString(smartQuotes.Replace(text), "")
}
