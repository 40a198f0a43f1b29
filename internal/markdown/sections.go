package markdown

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/goliatone/go-lessons/lesson"
)

// BodyLayout captures the fixed shape of a micro-lesson body: one H1 title,
// the named H2 sections, and the tip callout rendered as a blockquote.
type BodyLayout struct {
	Title    string
	Sections map[string]string
	Tip      string
}

// SplitSections walks the Markdown body line by line and extracts the lesson
// layout. Section names are matched case-insensitively against the template
// headers; unknown H2 sections are kept under their own name so lint can
// report them without losing content.
func SplitSections(body []byte) BodyLayout {
	layout := BodyLayout{
		Sections: map[string]string{},
	}

	var (
		current  string
		buf      strings.Builder
		tipLines []string
		inTip    bool
	)

	flush := func() {
		if current == "" {
			return
		}
		layout.Sections[current] = strings.TrimSpace(buf.String())
		buf.Reset()
	}

	scanner := bufio.NewScanner(bytes.NewReader(body))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, "## "):
			flush()
			inTip = false
			current = canonicalSection(strings.TrimSpace(strings.TrimPrefix(trimmed, "## ")))
		case strings.HasPrefix(trimmed, "# ") && layout.Title == "" && current == "":
			layout.Title = strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))
		case strings.HasPrefix(trimmed, ">"):
			quoted := strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))
			if inTip || isTipMarker(quoted) {
				inTip = true
				tipLines = append(tipLines, stripTipMarker(quoted))
				continue
			}
			if current != "" {
				buf.WriteString(line)
				buf.WriteString("\n")
			}
		default:
			if inTip && trimmed == "" {
				inTip = false
				continue
			}
			inTip = false
			if current != "" {
				buf.WriteString(line)
				buf.WriteString("\n")
			}
		}
	}
	flush()

	layout.Tip = strings.TrimSpace(strings.Join(tipLines, " "))
	return layout
}

// ParseTags extracts tag values from the Tags section body. Both list items
// and comma-separated prose are accepted; surrounding backticks and hash
// prefixes are stripped.
func ParseTags(section string) []string {
	if strings.TrimSpace(section) == "" {
		return nil
	}

	var raw []string
	for _, line := range strings.Split(section, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") {
			raw = append(raw, trimmed[2:])
			continue
		}
		raw = append(raw, strings.Split(trimmed, ",")...)
	}

	seen := map[string]struct{}{}
	tags := make([]string, 0, len(raw))
	for _, entry := range raw {
		tag := strings.TrimSpace(entry)
		tag = strings.Trim(tag, "`")
		tag = strings.TrimPrefix(tag, "#")
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// canonicalSection maps header text onto the template's section constants so
// lookups stay stable regardless of author capitalisation.
func canonicalSection(name string) string {
	for _, known := range lesson.RequiredSections() {
		if strings.EqualFold(name, known) {
			return known
		}
	}
	return name
}

func isTipMarker(quoted string) bool {
	lowered := strings.ToLower(quoted)
	return strings.HasPrefix(lowered, "**tip") || strings.HasPrefix(lowered, "tip:") || strings.HasPrefix(lowered, "tips:")
}

func stripTipMarker(quoted string) string {
	lowered := strings.ToLower(quoted)
	for _, marker := range []string{"**tips:**", "**tips**", "**tip:**", "**tip**", "tips:", "tip:"} {
		if strings.HasPrefix(lowered, marker) {
			return strings.TrimSpace(quoted[len(marker):])
		}
	}
	return quoted
}
