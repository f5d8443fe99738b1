package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
)

// maxEnvelopeDepth bounds recursion through nested envelopes and JSON-in-string payloads.
const maxEnvelopeDepth = 6

var fencedBlock = regexp.MustCompile("(?s)```(?:json|JSON)?\\s*(\\{.*?\\})\\s*```")

// ExtractObject returns the first well-formed JSON object in text that carries
// at least one of keys. Model output may wrap the object in prose, code fences,
// or provider envelopes (reasoning/message arrays, JSON encoded as a string
// field); all of those are searched. With no keys any object matches. Returns
// an error wrapping model.ErrParse when nothing matches.
func ExtractObject(text string, keys ...string) (map[string]any, error) {
	if obj, ok := extract(text, keys, 0); ok {
		return obj, nil
	}
	return nil, eris.Wrapf(model.ErrParse, "llm: no JSON object with keys %v", keys)
}

func extract(text string, keys []string, depth int) (map[string]any, bool) {
	if depth > maxEnvelopeDepth {
		return nil, false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, false
	}

	// Whole text is JSON.
	var whole any
	if err := json.Unmarshal([]byte(text), &whole); err == nil {
		if obj, ok := search(whole, keys, depth); ok {
			return obj, true
		}
	}

	// Fenced code blocks.
	for _, m := range fencedBlock.FindAllStringSubmatch(text, -1) {
		var v any
		if err := json.Unmarshal([]byte(m[1]), &v); err == nil {
			if obj, ok := search(v, keys, depth); ok {
				return obj, true
			}
		}
	}

	// Scan from every opening brace; the decoder stops after one value so
	// trailing prose is ignored.
	for i := 0; i < len(text); i++ {
		if text[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(text[i:]))
		var v any
		if err := dec.Decode(&v); err != nil {
			continue
		}
		if obj, ok := search(v, keys, depth); ok {
			return obj, true
		}
	}
	return nil, false
}

// search walks a decoded value depth-first looking for a matching object.
func search(v any, keys []string, depth int) (map[string]any, bool) {
	if depth > maxEnvelopeDepth {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]any:
		if hasAnyKey(t, keys) {
			return t, true
		}
		names := make([]string, 0, len(t))
		for k := range t {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			if obj, ok := search(t[k], keys, depth+1); ok {
				return obj, true
			}
		}
	case []any:
		for _, item := range t {
			if obj, ok := search(item, keys, depth+1); ok {
				return obj, true
			}
		}
	case string:
		if strings.Contains(t, "{") {
			return extract(t, keys, depth+1)
		}
	}
	return nil, false
}

func hasAnyKey(obj map[string]any, keys []string) bool {
	if len(keys) == 0 {
		return true
	}
	for _, k := range keys {
		if _, ok := obj[k]; ok {
			return true
		}
	}
	return false
}

// String reads key from obj as trimmed text. Non-string scalars are formatted.
func String(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
