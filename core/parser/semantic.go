package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shalyhinpavel/phoenix/core/schema"
)

const trailingPunctuation = `.,;/\`

// extractSemantic scrapes field values straight out of unstructured prose,
// one schema field at a time. For each field it scans left to right for
// the first key occurrence that is followed by a capturable value shape;
// later occurrences are ignored once a value is captured. Integer fields
// that capture a decimal literal are rounded to the nearest integer and
// kept as strings for the shared healing step. Fails only when no field
// yields anything at all.
func (p *Parser) extractSemantic(raw string, s *schema.Schema) (map[string]any, error) {
	text := smartQuotes.Replace(raw)
	extracted := make(map[string]any)
	for _, f := range s.Fields() {
		re, err := keyPattern(f.Name)
		if err != nil {
			continue
		}
		offset := 0
		for offset <= len(text) {
			loc := re.FindStringIndex(text[offset:])
			if loc == nil {
				break
			}
			area := strings.TrimLeft(text[offset+loc[1]:], " \t\r\n")
			if val, ok := p.captureValue(area); ok {
				extracted[f.Name] = strings.TrimRight(val, trailingPunctuation)
				break
			}
			// A name of only underscores compiles to a pattern that can
			// match zero-width; force progress so the scan terminates.
			if loc[1] == 0 {
				offset++
				continue
			}
			offset += loc[1]
		}
	}
	if len(extracted) == 0 {
		return nil, errNoFields
	}
	for name, captured := range extracted {
		if kind, ok := s.Kind(name); !ok || kind != schema.Int {
			continue
		}
		if v, ok := captured.(string); ok && strings.Contains(v, ".") {
			if fl, err := strconv.ParseFloat(v, 64); err == nil {
				extracted[name] = strconv.FormatInt(int64(math.Round(fl)), 10)
			}
		}
	}
	return extracted, nil
}

// keyPattern builds a case-insensitive matcher for a field name as it
// tends to appear in prose: underscores in the name match spaces, hyphens,
// or underscores interchangeably, the name may be quoted, and the
// separator (':' or '=') is optional.
func keyPattern(name string) (*regexp.Regexp, error) {
	parts := strings.Split(name, "_")
	for i := range parts {
		parts[i] = regexp.QuoteMeta(parts[i])
	}
	friendly := strings.Join(parts, `[\s_-]*`)
	return regexp.Compile(`(?i)["']?` + friendly + `["']?\s*[:=]?`)
}

// captureValue tries the value shapes in fixed order against the text
// immediately after a key: signed number literal, quoted string interior,
// boolean (normalized to lowercase), then a bare token running up to the
// next whitespace, comma, or closing bracket. First match wins.
func (p *Parser) captureValue(area string) (string, bool) {
	if m := p.numberLit.FindString(area); m != "" {
		return m, true
	}
	if m := p.quotedLit.FindStringSubmatch(area); m != nil {
		return m[1], true
	}
	if m := p.boolLit.FindString(area); m != "" {
		return strings.ToLower(m), true
	}
	if m := p.bareToken.FindString(area); m != "" {
		return m, true
	}
	return "", false
}
