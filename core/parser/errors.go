package parser

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrEmptyInput is reported when the raw text is empty or whitespace-only.
// It is wrapped by the returned [ParsingError], so callers can test for it
// with errors.Is.
var ErrEmptyInput = errors.New("input text is empty")

// errNoFields is the semantic layer's failure when not a single schema
// field could be scraped from the text.
var errNoFields = errors.New("semantic layer couldn't extract any fields")

// ParsingError is the terminal failure of the cascade. Message is a short
// human-readable summary; Context carries diagnostic details, at minimum
// the message of the last underlying failure under the "final_error" key
// when every layer has been exhausted.
type ParsingError struct {
	Message string
	Context map[string]string

	cause error
}

func (e *ParsingError) Error() string {
	if len(e.Context) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	b.WriteString(e.Message)
	b.WriteString(" (")
	for i, k := range keys {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", k, e.Context[k])
	}
	b.WriteString(")")
	return b.String()
}

func (e *ParsingError) Unwrap() error {
	return e.cause
}
