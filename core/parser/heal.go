package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shalyhinpavel/phoenix/core/schema"
)

// Conventional wrapper keys LLMs nest scalar answers under, probed in
// order when a scalar field decodes as an object.
var flattenKeys = []string{"value", "data", "text", "result", "overall", "type", "sentiment", "name"}

var signedIntPattern = regexp.MustCompile(`[-+]?\d+`)

// healAndValidate is the shared tail of both cascade entry points: it
// heals data field-by-field toward the schema's kinds, then validates the
// whole record. Healing is best-effort per field; validation is
// all-or-nothing per record.
func healAndValidate(data map[string]any, s *schema.Schema) (Record, error) {
	return validate(heal(data, s), s)
}

// heal coerces present fields toward their declared kinds without ever
// failing. A scalar field holding a nested object is flattened to the
// first conventional wrapper key found inside it; an int field holding a
// non-integer value is replaced by the first signed integer substring of
// its string form. Values that resist both rules stay unchanged so that
// validation reports them.
func heal(data map[string]any, s *schema.Schema) map[string]any {
	healed := make(map[string]any, len(data))
	for k, v := range data {
		healed[k] = v
	}
	for _, f := range s.Fields() {
		v, ok := healed[f.Name]
		if !ok {
			continue
		}
		if f.Kind.IsScalar() {
			if nested, ok := v.(map[string]any); ok {
				for _, key := range flattenKeys {
					if inner, ok := nested[key]; ok {
						v = inner
						healed[f.Name] = inner
						break
					}
				}
			}
		}
		if f.Kind == schema.Int && !isIntegerValue(v) {
			if m := signedIntPattern.FindString(fmt.Sprintf("%v", v)); m != "" {
				if n, err := strconv.ParseInt(m, 10, 64); err == nil {
					healed[f.Name] = n
				}
			}
		}
	}
	return healed
}

// validate checks that every schema field is present and converts cleanly
// to its declared kind, returning the record in schema field order. Any
// missing or unconvertible field fails the whole record.
func validate(data map[string]any, s *schema.Schema) (Record, error) {
	rec := make(Record, s.Len())
	for _, f := range s.Fields() {
		v, ok := data[f.Name]
		if !ok {
			return nil, fmt.Errorf("missing required field %q", f.Name)
		}
		converted, err := convert(v, f.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		rec[f.Name] = converted
	}
	return rec, nil
}

func convert(v any, kind schema.Kind) (any, error) {
	switch kind {
	case schema.Any:
		return v, nil

	case schema.String:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil

	case schema.Int:
		switch n := v.(type) {
		case int64:
			return n, nil
		case int:
			return int64(n), nil
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("expected integer, got %v", n)
			}
			return int64(n), nil
		case string:
			parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("expected integer, got %q", n)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected integer, got %T", v)

	case schema.Float:
		switch n := v.(type) {
		case float64:
			return n, nil
		case int64:
			return float64(n), nil
		case int:
			return float64(n), nil
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			if err != nil {
				return nil, fmt.Errorf("expected number, got %q", n)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("expected number, got %T", v)

	case schema.Bool:
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			switch strings.ToLower(strings.TrimSpace(b)) {
			case "true":
				return true, nil
			case "false":
				return false, nil
			}
			return nil, fmt.Errorf("expected boolean, got %q", b)
		}
		return nil, fmt.Errorf("expected boolean, got %T", v)

	case schema.List:
		if l, ok := v.([]any); ok {
			return l, nil
		}
		return nil, fmt.Errorf("expected list, got %T", v)

	case schema.Dict:
		if m, ok := v.(map[string]any); ok {
			return m, nil
		}
		return nil, fmt.Errorf("expected object, got %T", v)
	}
	return nil, fmt.Errorf("unsupported kind %v", kind)
}

// isIntegerValue reports whether v already carries an integral value.
// JSON decoding surfaces every number as float64, so integral floats
// count as integers here.
func isIntegerValue(v any) bool {
	switch n := v.(type) {
	case int, int64:
		return true
	case float64:
		return n == math.Trunc(n)
	}
	return false
}
