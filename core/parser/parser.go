package parser

import (
	"regexp"
	"strings"

	"github.com/shalyhinpavel/phoenix/core/schema"
	"github.com/shalyhinpavel/phoenix/internal/utils"
)

// Record is the validated output of a successful parse: one entry per
// schema field, with the value converted to the field's declared kind.
type Record map[string]any

// Parser runs the extraction cascade. All patterns are compiled once in
// [New]; a Parser holds no per-call state and is safe for concurrent use.
type Parser struct {
	fencedBlock *regexp.Regexp
	comments    *regexp.Regexp
	markupTag   *regexp.Regexp

	numberLit *regexp.Regexp
	quotedLit *regexp.Regexp
	boolLit   *regexp.Regexp
	bareToken *regexp.Regexp

	convertHTML bool
}

// Option configures a Parser at construction time.
type Option func(*Parser)

// WithHTMLConversion makes the parser convert markup-looking input to
// markdown before block isolation, so JSON inside <pre>/<code> elements
// becomes an isolatable fenced block. Conversion is best-effort: inputs
// that do not look like HTML, or that fail to convert, pass through
// unchanged, and the semantic fallback always sees the original text.
func WithHTMLConversion() Option {
	return func(p *Parser) {
		p.convertHTML = true
	}
}

// New builds a Parser with its full pattern set compiled.
func New(opts ...Option) *Parser {
	p := &Parser{
		fencedBlock: regexp.MustCompile("(?s)```(?:json)?[ \\t]*\\n(.*?)\\n[ \\t]*```"),
		comments:    regexp.MustCompile(`(?m://[^\n]*$)|(?s:/\*.*?\*/)`),
		markupTag:   regexp.MustCompile(`(?i)<(?:html|head|body|div|p|pre|code|span|br|table|ul|ol|li)\b`),

		numberLit: regexp.MustCompile(`^[-+]?\d+(?:\.\d+)?`),
		quotedLit: regexp.MustCompile(`^["'](.*?)["']`),
		boolLit:   regexp.MustCompile(`^(?i:true|false)`),
		bareToken: regexp.MustCompile(`^[^\s,}\]]+`),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts a record conforming to s from raw text. It tries the
// structural chain first (isolation, normalization, decode with repair,
// healing, validation) and falls back to semantic extraction over the
// original text when that chain fails. Empty or whitespace-only input is
// rejected immediately. On exhaustion the returned error is a
// [ParsingError] whose context carries the last underlying failure.
func (p *Parser) Parse(raw string, s *schema.Schema) (Record, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &ParsingError{Message: ErrEmptyInput.Error(), cause: ErrEmptyInput}
	}

	text := raw
	if p.convertHTML {
		text = p.toMarkdown(text)
	}
	candidate := p.normalize(p.isolate(text))

	var lastErr error
	if data, err := p.decodeWithRepair(candidate); err != nil {
		lastErr = err
	} else if rec, err := healAndValidate(data, s); err != nil {
		lastErr = err
	} else {
		return rec, nil
	}

	// Semantic extraction works on the original raw text: the repair
	// chain may have discarded prose the key/value scraping needs.
	if data, err := p.extractSemantic(raw, s); err != nil {
		lastErr = err
	} else if rec, err := healAndValidate(data, s); err != nil {
		lastErr = err
	} else {
		return rec, nil
	}

	return nil, &ParsingError{
		Message: "failed after all layers",
		Context: map[string]string{
			"final_error": utils.TruncateString(lastErr.Error(), utils.DefaultMaxStringLength),
		},
		cause: lastErr,
	}
}
