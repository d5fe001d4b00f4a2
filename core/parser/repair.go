package parser

import (
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/kaptinlin/jsonrepair"
)

// Characters that can legitimately end a JSON token. Anything after the
// last of them is assumed to be a cut-off partial token and discarded.
const truncationAnchors = `{},[]"'0123456789`

// repairTruncated completes JSON text that was cut off mid-stream: it
// drops a trailing partial token, then appends the closing brackets and
// braces needed to re-balance the structure, in that order. Single
// best-effort pass, no iteration.
func repairTruncated(s string) string {
	last := -1
	for i := len(s) - 1; i >= 0; i-- {
		if strings.IndexByte(truncationAnchors, s[i]) >= 0 {
			last = i + 1
			break
		}
	}
	if last != -1 {
		s = s[:last]
	}
	if open := strings.Count(s, "[") - strings.Count(s, "]"); open > 0 {
		s += strings.Repeat("]", open)
	}
	if open := strings.Count(s, "{") - strings.Count(s, "}"); open > 0 {
		s += strings.Repeat("}", open)
	}
	return s
}

// decodeWithRepair decodes candidate into a generic map, repairing on
// failure: first the truncation heuristic, then a jsonrepair pass for
// damage the heuristic cannot express (unquoted keys, single quotes,
// trailing commas). Each repair gets a single re-decode attempt.
func (p *Parser) decodeWithRepair(candidate string) (map[string]any, error) {
	data, err := decodeObject(candidate)
	if err == nil {
		return data, nil
	}
	if data, rerr := decodeObject(repairTruncated(candidate)); rerr == nil {
		return data, nil
	}
	if fixed, rerr := jsonrepair.JSONRepair(candidate); rerr == nil {
		if data, derr := decodeObject(fixed); derr == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("structural decoding failed: %w", err)
}

func decodeObject(s string) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return nil, err
	}
	if data == nil {
		return nil, fmt.Errorf("decoded value is not a JSON object")
	}
	return data, nil
}
