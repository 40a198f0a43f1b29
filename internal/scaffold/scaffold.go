// Package scaffold renders new micro-lesson files from the canonical
// template: a front-matter block carrying the usage counter and severity,
// followed by the fixed section layout.
package scaffold

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-lessons/lesson"
)

//go:embed template.md
var lessonTemplate string

var ErrTitleRequired = errors.New("scaffold: title is required")

// Params configure a scaffolded lesson.
type Params struct {
	Title    string
	Slug     string
	Severity string
	Tags     []string
}

// frontMatter is the metadata block emitted at the top of every scaffolded
// file. Field order matches the template so diffs against hand-authored
// lessons stay small.
type frontMatter struct {
	UsedBy   int      `yaml:"used_by"`
	Severity string   `yaml:"severity"`
	Slug     string   `yaml:"slug,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

// Render produces the complete markdown source for a new lesson file.
func Render(params Params) ([]byte, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	severity, err := lesson.ParseSeverity(params.Severity)
	if err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(params.Slug)
	if slug == "" {
		if normalized, err := lesson.NormalizeSlug(title); err == nil {
			slug = normalized
		}
	} else if !lesson.IsValidSlug(slug) {
		return nil, fmt.Errorf("%w: %q", lesson.ErrSlugInvalid, slug)
	}

	tags := normalizeTags(params.Tags)

	meta, err := yaml.Marshal(frontMatter{
		UsedBy:   0,
		Severity: severity.String(),
		Slug:     slug,
		Tags:     tags,
	})
	if err != nil {
		return nil, fmt.Errorf("scaffold: marshal front matter: %w", err)
	}

	tmpl, err := template.New("lesson").Parse(lessonTemplate)
	if err != nil {
		return nil, fmt.Errorf("scaffold: parse template: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, map[string]any{
		"Title": title,
		"Tags":  tags,
	}); err != nil {
		return nil, fmt.Errorf("scaffold: render template: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("---\n")
	out.Write(meta)
	out.WriteString("---\n\n")
	out.Write(body.Bytes())
	return out.Bytes(), nil
}

// Filename returns the canonical file name for the scaffolded lesson.
func Filename(params Params) (string, error) {
	slug := strings.TrimSpace(params.Slug)
	if slug == "" {
		normalized, err := lesson.NormalizeSlug(params.Title)
		if err != nil || normalized == "" {
			return "", ErrTitleRequired
		}
		slug = normalized
	}
	return slug + ".md", nil
}

func normalizeTags(tags []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		normalized := strings.ToLower(strings.TrimSpace(tag))
		if normalized == "" {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}
