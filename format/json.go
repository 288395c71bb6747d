package format

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

var (
	fencedObjectRe = regexp.MustCompile("(?s)```(?:json|JSON)?[ \\t]*\\n?\\s*(\\{.*?\\})\\s*```")
	capitalBoolRe  = regexp.MustCompile(`[:\[,]\s*(?:True|False)\b`)
	bareEnumRe     = regexp.MustCompile(`(?i)(:\s*)(positive|negative|neutral|good|bad)\b`)
)

var (
	refsKeys     = []string{"refs", "r", "references"}
	coachingKeys = []string{"coaching", "c", "explanation"}
)

// DecodeObject finds a JSON object in text. The whole text is tried first,
// then every top-level balanced {...} substring in order. Each candidate is
// parsed strictly and, failing that, once more after Repair.
func DecodeObject(text string) (map[string]interface{}, bool) {
	candidates := append([]string{strings.TrimSpace(text)}, balancedObjects(text)...)
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if obj, ok := unmarshalObject(c); ok {
			return obj, true
		}
		if repaired := Repair(c); repaired != c {
			if obj, ok := unmarshalObject(repaired); ok {
				return obj, true
			}
		}
	}
	return nil, false
}

// Repair fixes near-miss JSON produced by small models: capitalised boolean
// literals, unquoted enum words and doubled trailing braces. String literals
// are left untouched.
func Repair(s string) string {
	s = mapOutsideStrings(s, func(seg string) string {
		seg = capitalBoolRe.ReplaceAllStringFunc(seg, strings.ToLower)
		return bareEnumRe.ReplaceAllString(seg, `${1}"${2}"`)
	})
	return trimExtraBraces(s)
}

// mapOutsideStrings applies fn to every run of s that lies outside a JSON
// string literal. An unterminated literal runs to the end of s.
func mapOutsideStrings(s string, fn func(string) string) string {
	var (
		b        strings.Builder
		start    int
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				b.WriteString(s[start : i+1])
				start = i + 1
			}
			continue
		}
		if c == '"' {
			b.WriteString(fn(s[start:i]))
			start = i
			inString = true
		}
	}
	if inString {
		b.WriteString(s[start:])
	} else {
		b.WriteString(fn(s[start:]))
	}
	return b.String()
}

func unmarshalObject(s string) (map[string]interface{}, bool) {
	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// balancedObjects returns the outermost {...} substrings of text, counting
// brace depth outside of string literals.
func balancedObjects(text string) []string {
	var (
		out      []string
		depth    int
		start    = -1
		inString bool
		escaped  bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				out = append(out, text[start:i+1])
			}
		}
	}
	return out
}

// trimExtraBraces drops trailing closing braces that have no opening partner.
func trimExtraBraces(s string) string {
	s = strings.TrimSpace(s)
	var open, closed int
	mapOutsideStrings(s, func(seg string) string {
		open += strings.Count(seg, "{")
		closed += strings.Count(seg, "}")
		return seg
	})
	for closed > open && strings.HasSuffix(s, "}") {
		s = strings.TrimSpace(s[:len(s)-1])
		closed--
	}
	return s
}

func detectJSON(text string) bool {
	_, ok := DecodeObject(text)
	return ok
}

func detectJSONNested(text string) bool {
	obj, ok := DecodeObject(text)
	if !ok {
		return false
	}
	for _, v := range obj {
		switch v.(type) {
		case map[string]interface{}, []interface{}:
			return true
		}
	}
	return false
}

// singleLineObject locates the object the way a reader would: inside the
// fence when there is one, else from the first '{' to the last '}'.
func singleLineObject(text string) (string, bool) {
	if inner, ok := fencedObject(text); ok {
		return inner, true
	}
	i, j := strings.Index(text, "{"), strings.LastIndex(text, "}")
	if i < 0 || j < i {
		return "", false
	}
	return text[i : j+1], true
}

func detectSingleLineJSON(text string) bool {
	obj, ok := singleLineObject(text)
	if !ok || strings.Contains(obj, "\n") {
		return false
	}
	_, ok = DecodeObject(obj)
	return ok
}

func extractJSON(text string) Fields {
	obj, _ := DecodeObject(text)
	return objectFields(obj)
}

func fencedObject(text string) (string, bool) {
	m := fencedObjectRe.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func detectFencedJSON(text string) bool {
	inner, ok := fencedObject(text)
	if !ok {
		return false
	}
	_, ok = DecodeObject(inner)
	return ok
}

func extractFencedJSON(text string) Fields {
	inner, ok := fencedObject(text)
	if !ok {
		return Fields{}
	}
	return extractJSON(inner)
}

func objectFields(obj map[string]interface{}) Fields {
	return Fields{
		Refs:     stringValue(lookupKey(obj, refsKeys)),
		Coaching: stringValue(lookupKey(obj, coachingKeys)),
	}
}

func lookupKey(obj map[string]interface{}, keys []string) interface{} {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v
		}
	}
	for k, v := range obj {
		for _, want := range keys {
			if strings.EqualFold(k, want) {
				return v
			}
		}
	}
	return nil
}

// stringValue flattens a decoded value into refs/coaching text; lists become
// comma separated.
func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []interface{}:
		parts := make([]string, 0, len(t))
		for _, e := range t {
			if s := stringValue(e); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(t)
	}
}
