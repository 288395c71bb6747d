// Package format detects which output schema a model response follows and
// pulls the refs and coaching fields out of it.
//
// Every schema is registered once in a read-only table keyed by ID; adding a
// schema is a call to register, not a new branch in Parse.
package format

import (
	"sort"

	"github.com/pkg/errors"
)

// ID identifies an output schema.
type ID string

const (
	RefsCoaching    ID = "refs_coaching"
	CoachingOnly    ID = "coaching_only"
	JSONFlat        ID = "json_flat"
	JSONNested      ID = "json_nested"
	SingleLineJSON  ID = "single_line_json"
	FencedJSON      ID = "fenced_json"
	XMLTags         ID = "xml_tags"
	XMLCDATA        ID = "xml_cdata"
	MarkdownHeaders ID = "markdown_headers"
	NumberedLines   ID = "numbered_lines"
	YAML            ID = "yaml_format"
	PipeDelimited   ID = "pipe_delimited"
)

// ErrUnknownFormat is returned by Lookup for ids that are not registered.
var ErrUnknownFormat = errors.New("unknown format")

// Fields are the normalised parts of a response.
type Fields struct {
	Refs     string
	Coaching string
}

// Spec describes one output schema: how to ask for it and how to read it.
type Spec struct {
	ID          ID
	Name        string
	Instruction string
	Example     string

	// priority orders auto-detection; lower runs first.
	priority int
	detect   func(text string) bool
	extract  func(text string) Fields
}

// Detect reports whether text follows this schema. text must already have
// its reasoning block removed.
func (s *Spec) Detect(text string) bool { return text != "" && s.detect(text) }

// Extract pulls the fields out of text without checking compliance.
func (s *Spec) Extract(text string) Fields { return s.extract(text) }

var registry = map[ID]*Spec{}

func register(s *Spec) {
	if _, ok := registry[s.ID]; ok {
		panic("format: duplicate registration of " + string(s.ID))
	}
	registry[s.ID] = s
}

// Lookup returns the registered Spec for id.
func Lookup(id ID) (*Spec, error) {
	s, ok := registry[id]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownFormat, "%q", id)
	}
	return s, nil
}

// All returns every registered Spec in detection priority order.
func All() []*Spec {
	out := make([]*Spec, 0, len(registry))
	for _, s := range registry {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].priority < out[j].priority })
	return out
}

// IDs returns every registered id in detection priority order.
func IDs() []ID {
	specs := All()
	ids := make([]ID, len(specs))
	for i, s := range specs {
		ids[i] = s.ID
	}
	return ids
}

func init() {
	register(&Spec{
		ID:   FencedJSON,
		Name: "JSON in code fence",
		Instruction: "Respond with a JSON object inside a Markdown code fence:\n" +
			"```json\n{\"coaching\": \"...\", \"refs\": [\"...\"]}\n```\n" +
			"Output only the fenced JSON, nothing else.",
		Example:  "```json\n{\"coaching\": \"The bishop targets the weak f7 pawn.\", \"refs\": [\"bishop e5\", \"pawn d4\"]}\n```",
		priority: 10,
		detect:   detectFencedJSON,
		extract:  extractFencedJSON,
	})
	register(&Spec{
		ID:   XMLCDATA,
		Name: "XML with CDATA",
		Instruction: "Respond using XML tags with CDATA sections:\n" +
			"<refs><![CDATA[...]]></refs>\n<coaching><![CDATA[...]]></coaching>\n" +
			"Output only the XML, nothing else.",
		Example: "<refs><![CDATA[bishop e5, pawn d4]]></refs>\n" +
			"<coaching><![CDATA[The bishop targets the weak f7 pawn.]]></coaching>",
		priority: 20,
		detect:   detectXMLCDATA,
		extract:  extractXML,
	})
	register(&Spec{
		ID:   XMLTags,
		Name: "XML tags",
		Instruction: "Respond using XML tags. Use <refs> for referenced squares/pieces and " +
			"<coaching> for the explanation. Output only the XML, nothing else.",
		Example:  "<refs>bishop e5, pawn d4</refs>\n<coaching>The bishop targets the weak f7 pawn.</coaching>",
		priority: 30,
		detect:   detectXML,
		extract:  extractXML,
	})
	register(&Spec{
		ID:   JSONNested,
		Name: "Nested JSON with quality",
		Instruction: "Respond with a JSON object containing:\n" +
			"- \"coaching\": a short explanation\n" +
			"- \"refs\": an array of referenced squares or pieces\n" +
			"- \"quality\": one of \"good\", \"neutral\", or \"bad\" describing the position\n" +
			"Output only the JSON, nothing else.",
		Example:  `{"coaching": "The bishop is very active.", "refs": ["bishop e5"], "quality": "good"}`,
		priority: 40,
		detect:   detectJSONNested,
		extract:  extractJSON,
	})
	register(&Spec{
		ID:   JSONFlat,
		Name: "Flat JSON",
		Instruction: "Respond with a single JSON object on one line containing two keys:\n" +
			"- \"coaching\": a short coaching explanation\n" +
			"- \"refs\": an array of referenced squares or pieces\n" +
			"Output only the JSON, nothing else.",
		Example:  `{"coaching": "The bishop targets the weak f7 pawn.", "refs": ["bishop e5", "pawn d4"]}`,
		priority: 50,
		detect:   detectJSON,
		extract:  extractJSON,
	})
	register(&Spec{
		ID:   SingleLineJSON,
		Name: "Compact single-line JSON",
		Instruction: "Respond with a compact JSON object using short keys:\n" +
			"{\"r\": \"<comma-separated refs>\", \"c\": \"<coaching text>\"}\n" +
			"Output only the JSON, nothing else.",
		Example:  `{"r": "bishop e5, pawn d4", "c": "The bishop targets the weak f7 pawn."}`,
		priority: 60,
		detect:   detectSingleLineJSON,
		extract:  extractJSON,
	})
	register(&Spec{
		ID:   RefsCoaching,
		Name: "REFS/COACHING",
		Instruction: "Respond with exactly two sections. First a REFS line listing the key squares " +
			"or pieces, then a COACHING section with a brief explanation.\n" +
			"Format:\nREFS: <comma-separated squares or pieces>\nCOACHING: <one or two sentences>",
		Example:  "REFS: bishop e5, pawn d4\nCOACHING: The bishop on e5 is very active, targeting the weak f7 pawn.",
		priority: 70,
		detect:   detectRefsCoaching,
		extract:  extractLabels,
	})
	register(&Spec{
		ID:   NumberedLines,
		Name: "Numbered lines",
		Instruction: "Respond with exactly two numbered lines:\n" +
			"1. REFS: <comma-separated squares or pieces>\n2. COACHING: <one or two sentences>",
		Example:  "1. REFS: bishop e5, pawn d4\n2. COACHING: The bishop targets the weak f7 pawn.",
		priority: 80,
		detect:   detectNumbered,
		extract:  extractNumbered,
	})
	register(&Spec{
		ID:   MarkdownHeaders,
		Name: "Markdown headers",
		Instruction: "Respond using Markdown with two sections:\n" +
			"## Refs\n<comma-separated squares or pieces>\n\n## Coaching\n<one or two sentences>",
		Example:  "## Refs\nbishop e5, pawn d4\n\n## Coaching\nThe bishop targets the weak f7 pawn.",
		priority: 90,
		detect:   detectMarkdown,
		extract:  extractMarkdown,
	})
	register(&Spec{
		ID:   YAML,
		Name: "YAML format",
		Instruction: "Respond in YAML format with two keys: refs (a list) and coaching (a string).\n" +
			"Output only the YAML, nothing else.",
		Example:  "refs:\n  - bishop e5\n  - pawn d4\ncoaching: The bishop targets the weak f7 pawn.",
		priority: 100,
		detect:   detectYAML,
		extract:  extractYAML,
	})
	register(&Spec{
		ID:   PipeDelimited,
		Name: "Pipe delimited",
		Instruction: "Respond with a single line using pipe (|) as delimiter: each referenced square " +
			"or piece in its own field, then the coaching explanation as the last field.\n" +
			"ref|ref|coaching",
		Example:  "bishop e5|pawn d4|The bishop targets the weak f7 pawn.",
		priority: 110,
		detect:   detectPipe,
		extract:  extractPipe,
	})
	register(&Spec{
		ID:   CoachingOnly,
		Name: "Coaching text only",
		Instruction: "Respond with only a short coaching explanation (one or two sentences). " +
			"Do not include any structured data, labels, or formatting, just plain coaching text.",
		Example:  "The knight on f3 is well-placed, supporting a future attack on the kingside.",
		priority: 120,
		detect:   detectCoachingOnly,
		extract:  extractCoachingOnly,
	})
}
