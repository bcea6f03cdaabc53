// Package canonjson provides canonical JSON encoding and tolerant decoding
// for tool arguments.
//
// Two concerns live here:
//  1. Canonicalization: identical logical argument sets must serialize to
//     identical bytes regardless of key order or formatting, so that cache
//     keys derived from them collide on purpose.
//  2. Normalization: argument payloads arrive in loosely varying shapes
//     (raw objects, objects wrapped in strings, objects embedded in text).
//     Everything is converted to a plain JSON object before a tool runs.
package canonjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Canonicalize returns a stable serialization of a JSON value: object keys
// sorted, numbers kept in their literal form, no insignificant whitespace.
// Empty or absent input canonicalizes to "{}".
func Canonicalize(raw json.RawMessage) (string, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return "{}", nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber() // keep "5" as 5, not 5e+00
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}

	// encoding/json sorts map keys when marshaling, which gives us the
	// canonical key order for free.
	out, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canonicalize: %w", err)
	}
	return string(out), nil
}

// NormalizeArguments converts a loosely-shaped argument payload into a JSON
// object. Accepted shapes, tried in order:
//   - a JSON object (returned as-is)
//   - a JSON string whose content is itself a JSON object (unwrapped)
//   - an object embedded in surrounding text or a markdown code fence
//
// Absent or null input normalizes to "{}". Anything else is an error.
func NormalizeArguments(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return json.RawMessage("{}"), nil
	}

	if json.Valid(trimmed) && trimmed[0] == '{' {
		return json.RawMessage(trimmed), nil
	}

	// String-wrapped object: `"{\"a\": 1}"`
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err == nil {
			return NormalizeArguments(json.RawMessage(inner))
		}
	}

	if extracted, err := ExtractObject(string(trimmed)); err == nil {
		return json.RawMessage(extracted), nil
	}

	preview := string(trimmed)
	if len(preview) > 80 {
		preview = preview[:80] + "..."
	}
	return nil, fmt.Errorf("arguments are not a JSON object: %q", preview)
}

// ExtractObject finds and returns the JSON object portion of a string.
// It handles the common patterns: pure JSON, JSON wrapped in a markdown
// code fence, and an object embedded in surrounding prose.
func ExtractObject(s string) (string, error) {
	s = stripCodeFence(s)

	var test interface{}
	if err := json.Unmarshal([]byte(s), &test); err == nil && strings.HasPrefix(strings.TrimSpace(s), "{") {
		return strings.TrimSpace(s), nil
	}

	start := strings.Index(s, "{")
	if start != -1 {
		end := strings.LastIndex(s, "}")
		if end > start {
			candidate := s[start : end+1]
			if err := json.Unmarshal([]byte(candidate), &test); err == nil {
				return candidate, nil
			}
		}
	}

	preview := s
	if len(preview) > 100 {
		preview = preview[:100] + "..."
	}
	return "", fmt.Errorf("no JSON object found in %q", preview)
}

// stripCodeFence removes ```json ... ``` or ``` ... ``` markers.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)

	if strings.HasPrefix(trimmed, "```json") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```json"))
	} else if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
	}

	if strings.HasSuffix(trimmed, "```") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, "```"))
	}

	return trimmed
}
