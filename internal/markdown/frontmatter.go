package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// ParseFrontMatter extracts metadata and Markdown body content from the
// provided source bytes. It returns the structured frontmatter, the Markdown
// body without delimiters, and any error encountered.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	reader := bytes.NewReader(source)
	body, err := frontmatter.Parse(reader, &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles an interfaces.Document from the supplied file path,
// raw content, and modification time. The body is split into the template's
// named sections; BodyHTML is intentionally left empty so callers can render
// lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	layout := SplitSections(body)

	doc := &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Title:        layout.Title,
		Sections:     layout.Sections,
		Tip:          layout.Tip,
		Body:         body,
		LastModified: modified,
	}

	if doc.Title == "" {
		doc.Title = fm.Title
	}
	return doc, nil
}

type frontMatterEnvelope struct {
	UsedBy   int            `yaml:"used_by"`
	Severity string         `yaml:"severity"`
	Slug     string         `yaml:"slug"`
	Title    string         `yaml:"title"`
	Tags     []string       `yaml:"tags"`
	Custom   map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	if env.Custom == nil {
		env.Custom = map[string]any{}
	}

	raw := make(map[string]any, len(env.Custom)+5)
	for key, value := range env.Custom {
		raw[key] = value
	}

	raw["used_by"] = env.UsedBy
	if env.Severity != "" {
		raw["severity"] = env.Severity
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Title != "" {
		raw["title"] = env.Title
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}

	return interfaces.FrontMatter{
		UsedBy:   env.UsedBy,
		Severity: env.Severity,
		Slug:     env.Slug,
		Title:    env.Title,
		Tags:     append([]string(nil), env.Tags...),
		Custom:   cloneMap(env.Custom),
		Raw:      raw,
	}
}

func cloneMap(input map[string]any) map[string]any {
	if input == nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(input))
	for key, value := range input {
		out[key] = value
	}
	return out
}
