package format

import (
	"encoding/xml"
	"io"
	"strings"
)

const cdataOpen = "<![CDATA["

// DecodeElements reads the top-level elements of an XML fragment into a map of
// tag name to text content. The fragment runs from the first '<' to the last
// '>' of text and is wrapped in a synthetic root so several sibling elements
// parse as one document.
func DecodeElements(text string) (map[string]string, bool) {
	first := strings.Index(text, "<")
	last := strings.LastIndex(text, ">")
	if first < 0 || last < first {
		return nil, false
	}
	fragment := text[first : last+1]

	wrapped, ok := decodeChildren("<root>" + fragment + "</root>")
	if ok && hasFieldTag(wrapped) {
		return wrapped, true
	}
	// A single enclosing element such as <response>...</response>.
	if inner, innerOK := decodeChildren(fragment); innerOK && (hasFieldTag(inner) || !ok) {
		return inner, true
	}
	return wrapped, ok
}

func hasFieldTag(elems map[string]string) bool {
	for _, keys := range [][]string{refsKeys, coachingKeys} {
		for _, k := range keys {
			if _, ok := elems[k]; ok {
				return true
			}
		}
	}
	return false
}

func decodeChildren(doc string) (map[string]string, bool) {
	d := xml.NewDecoder(strings.NewReader(doc))
	d.Strict = false

	elems := make(map[string]string)
	var (
		depth   int
		current string
		buf     strings.Builder
	)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false
		}
		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if depth == 2 {
				current = strings.ToLower(t.Name.Local)
				buf.Reset()
			}
		case xml.EndElement:
			if depth == 2 {
				elems[current] = strings.TrimSpace(buf.String())
			}
			depth--
		case xml.CharData:
			if depth >= 2 {
				buf.Write(t)
			}
		}
	}
	if depth != 0 || len(elems) == 0 {
		return nil, false
	}
	return elems, true
}

func detectXML(text string) bool {
	_, ok := DecodeElements(text)
	return ok
}

func detectXMLCDATA(text string) bool {
	return strings.Contains(text, cdataOpen) && detectXML(text)
}

func extractXML(text string) Fields {
	elems, _ := DecodeElements(text)
	var f Fields
	for _, k := range refsKeys {
		if v, ok := elems[k]; ok {
			f.Refs = v
			break
		}
	}
	for _, k := range coachingKeys {
		if v, ok := elems[k]; ok {
			f.Coaching = v
			break
		}
	}
	return f
}
