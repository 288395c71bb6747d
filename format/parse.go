package format

import "strings"

// reasoningEnd closes the model's reasoning block.
const reasoningEnd = "</think>"

// Parsed is the result of reading one response against one schema.
type Parsed struct {
	Format   ID     `json:"format"`
	OK       bool   `json:"ok"`
	Refs     string `json:"refs"`
	Coaching string `json:"coaching"`
}

// StripReasoning drops everything up to and including the first closing
// reasoning delimiter and trims the remainder. Text without the delimiter is
// only trimmed.
func StripReasoning(raw string) string {
	if i := strings.Index(raw, reasoningEnd); i >= 0 {
		raw = raw[i+len(reasoningEnd):]
	}
	return strings.TrimSpace(raw)
}

// Parse reads raw against the schema id. Unknown ids and non-compliant text
// yield OK == false; Parse never fails.
func Parse(raw string, id ID) Parsed {
	p := Parsed{Format: id}
	s, err := Lookup(id)
	if err != nil {
		return p
	}
	text := StripReasoning(raw)
	if !s.Detect(text) {
		return p
	}
	f := s.Extract(text)
	p.OK = true
	p.Refs = strings.TrimSpace(f.Refs)
	p.Coaching = strings.TrimSpace(f.Coaching)
	return p
}

// Detect finds the first schema, in priority order, that raw complies with.
// A fenced JSON block therefore wins over the bare JSON schemas.
func Detect(raw string) (Parsed, bool) {
	text := StripReasoning(raw)
	for _, s := range All() {
		if s.Detect(text) {
			f := s.Extract(text)
			return Parsed{
				Format:   s.ID,
				OK:       true,
				Refs:     strings.TrimSpace(f.Refs),
				Coaching: strings.TrimSpace(f.Coaching),
			}, true
		}
	}
	return Parsed{}, false
}
