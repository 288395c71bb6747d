package format

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/coachcheck/refs"
)

var (
	refsLabelRe     = regexp.MustCompile(`(?im)^REFS:[ \t]*(.*)$`)
	coachingLabelRe = regexp.MustCompile(`(?im)^COACHING:[ \t]*`)
	anyLabelRe      = regexp.MustCompile(`(?im)^[ \t]*(?:REFS|COACHING)\s*[:=]`)
	numberedRe      = regexp.MustCompile(`^\d+[.)]\s`)
	numberPrefixRe  = regexp.MustCompile(`^\d+[.)]\s+`)
	headerRe        = regexp.MustCompile(`(?m)^#{1,6}\s+\S`)
	headerLineRe    = regexp.MustCompile(`^#{1,6}\s+(.*)$`)
	yamlKeyRe       = regexp.MustCompile(`^[A-Za-z_]\w*\s*:`)
	bulletRe        = regexp.MustCompile(`^(?:[-*+]|\d+[.)])\s+`)
	fenceLineRe     = regexp.MustCompile("^```")
)

// refs_coaching

func detectRefsCoaching(text string) bool {
	return refsLabelRe.MatchString(text) && coachingLabelRe.MatchString(text)
}

// extractLabels reads a REFS line and everything after the COACHING label up
// to the next REFS line. An empty REFS line takes the list items under it.
func extractLabels(text string) Fields {
	var f Fields
	if m := refsLabelRe.FindStringSubmatchIndex(text); m != nil {
		f.Refs = strings.TrimSpace(text[m[2]:m[3]])
		if f.Refs == "" {
			f.Refs = listItemsAfter(text[m[1]:])
		}
	}
	if loc := coachingLabelRe.FindStringIndex(text); loc != nil {
		rest := text[loc[1]:]
		if next := refsLabelRe.FindStringIndex(rest); next != nil {
			rest = rest[:next[0]]
		}
		f.Coaching = strings.Join(strings.Fields(rest), " ")
	}
	return f
}

// listItemsAfter joins the bullet lines that directly follow the first line
// of text.
func listItemsAfter(text string) string {
	lines := strings.Split(text, "\n")
	var items []string
	for _, l := range lines[1:] {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if !bulletRe.MatchString(l) {
			break
		}
		items = append(items, l)
	}
	return joinListLines(items)
}

// coaching_only

func detectCoachingOnly(text string) bool {
	return strings.TrimSpace(text) != "" && !anyLabelRe.MatchString(text)
}

// extractCoachingOnly has no refs field to read; the refs are the claims made
// in the coaching text.
func extractCoachingOnly(text string) Fields {
	return Fields{
		Refs:     refs.Join(refs.Extract(text)),
		Coaching: text,
	}
}

// numbered_lines

func numberedLines(text string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); numberedRe.MatchString(l) {
			out = append(out, l)
		}
	}
	return out
}

func detectNumbered(text string) bool { return len(numberedLines(text)) >= 2 }

func extractNumbered(text string) Fields {
	lines := numberedLines(text)
	stripped := make([]string, len(lines))
	for i, l := range lines {
		stripped[i] = numberPrefixRe.ReplaceAllString(l, "")
	}
	if f := extractLabels(strings.Join(stripped, "\n")); f.Refs != "" || f.Coaching != "" {
		return f
	}
	var f Fields
	if len(stripped) > 0 {
		f.Refs = stripped[0]
	}
	if len(stripped) > 1 {
		f.Coaching = strings.Join(stripped[1:], " ")
	}
	return f
}

// markdown_headers

func detectMarkdown(text string) bool { return headerRe.MatchString(text) }

func extractMarkdown(text string) Fields {
	var (
		f       Fields
		title   string
		body    []string
		loose   []string
		hasRefs bool
	)
	flush := func() {
		t := strings.ToLower(title)
		switch {
		case strings.Contains(t, "ref"):
			f.Refs = joinListLines(body)
			hasRefs = true
		case strings.Contains(t, "coach"):
			f.Coaching = strings.Join(body, " ")
		default:
			loose = append(loose, body...)
		}
		body = nil
	}
	for _, l := range strings.Split(text, "\n") {
		l = strings.TrimSpace(l)
		if m := headerLineRe.FindStringSubmatch(l); m != nil {
			flush()
			title = m[1]
			continue
		}
		if l != "" {
			body = append(body, l)
		}
	}
	flush()

	if f.Coaching == "" {
		f.Coaching = strings.Join(loose, " ")
	}
	if !hasRefs {
		f.Refs = refs.Join(refs.Extract(f.Coaching))
	}
	return f
}

// yaml_format

func detectYAML(text string) bool {
	var n int
	for _, l := range strings.Split(stripFence(text), "\n") {
		if yamlKeyRe.MatchString(l) {
			n++
		}
	}
	return n >= 2
}

func extractYAML(text string) Fields {
	body := stripFence(text)
	var doc map[string]interface{}
	if err := yaml.Unmarshal([]byte(body), &doc); err == nil && doc != nil {
		f := objectFields(doc)
		if f.Refs != "" || f.Coaching != "" {
			return f
		}
	}
	// Not valid YAML (often an unquoted colon in the coaching text); read the
	// keys line by line instead.
	var f Fields
	for _, l := range strings.Split(body, "\n") {
		key, value, ok := strings.Cut(l, ":")
		if !ok || !yamlKeyRe.MatchString(l) {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "refs", "references":
			f.Refs = strings.Trim(strings.TrimSpace(value), "[]")
		case "coaching":
			f.Coaching = strings.TrimSpace(value)
		}
	}
	return f
}

// stripFence removes a surrounding Markdown code fence, if any.
func stripFence(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) >= 2 && fenceLineRe.MatchString(lines[0]) && fenceLineRe.MatchString(strings.TrimSpace(lines[len(lines)-1])) {
		lines = lines[1 : len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

// pipe_delimited

func detectPipe(text string) bool {
	return strings.Contains(text, "|") && len(strings.Split(text, "|")) >= 3
}

// extractPipe reads the last line containing a pipe: every field but the last
// is a ref, the last is the coaching text.
func extractPipe(text string) Fields {
	line := text
	for _, l := range strings.Split(text, "\n") {
		if strings.Contains(l, "|") {
			line = l
		}
	}
	var segs []string
	for _, s := range strings.Split(line, "|") {
		if s = strings.TrimSpace(s); s != "" {
			segs = append(segs, s)
		}
	}
	switch len(segs) {
	case 0:
		return Fields{}
	case 1:
		return Fields{Coaching: segs[0]}
	}
	return Fields{
		Refs:     strings.Join(segs[:len(segs)-1], ", "),
		Coaching: segs[len(segs)-1],
	}
}

func joinListLines(lines []string) string {
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = bulletRe.ReplaceAllString(l, ""); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, ", ")
}
