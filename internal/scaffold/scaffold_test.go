package scaffold_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-lessons/internal/scaffold"
	"github.com/goliatone/go-lessons/lesson"
)

func TestRender(t *testing.T) {
	out, err := scaffold.Render(scaffold.Params{
		Title:    "Prefer Table Driven Tests",
		Severity: "high",
		Tags:     []string{"Golang", "testing", "golang", ""},
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	source := string(out)
	if !strings.HasPrefix(source, "---\n") {
		t.Fatal("expected a front-matter block")
	}
	for _, want := range []string{
		"used_by: 0",
		"severity: high",
		"slug: prefer-table-driven-tests",
		"# Prefer Table Driven Tests",
	} {
		if !strings.Contains(source, want) {
			t.Fatalf("output missing %q:\n%s", want, source)
		}
	}

	for _, header := range []string{"## Context", "## Rule", "## Example", "## Guardrails", "## Tags"} {
		if !strings.Contains(source, header) {
			t.Fatalf("output missing section %q", header)
		}
	}

	if !strings.Contains(source, "- golang") || !strings.Contains(source, "- testing") {
		t.Fatalf("tags not rendered:\n%s", source)
	}
	if strings.Count(source, "- golang") != 1 {
		t.Fatal("duplicate tags should be collapsed")
	}
	if !strings.Contains(source, "> **Tip:**") {
		t.Fatal("output missing the tip callout")
	}
}

func TestRenderDefaults(t *testing.T) {
	out, err := scaffold.Render(scaffold.Params{Title: "Check Error Returns"})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}

	source := string(out)
	if !strings.Contains(source, "severity: normal") {
		t.Fatalf("expected normal severity default:\n%s", source)
	}
	if !strings.Contains(source, "- untagged") {
		t.Fatalf("expected untagged placeholder:\n%s", source)
	}
}

func TestRenderRequiresTitle(t *testing.T) {
	_, err := scaffold.Render(scaffold.Params{Title: "   "})
	if !errors.Is(err, scaffold.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}

func TestRenderRejectsInvalidInput(t *testing.T) {
	if _, err := scaffold.Render(scaffold.Params{Title: "Lesson", Slug: "Not A Slug"}); !errors.Is(err, lesson.ErrSlugInvalid) {
		t.Fatalf("expected ErrSlugInvalid, got %v", err)
	}
	if _, err := scaffold.Render(scaffold.Params{Title: "Lesson", Severity: "catastrophic"}); !errors.Is(err, lesson.ErrSeverityInvalid) {
		t.Fatalf("expected ErrSeverityInvalid, got %v", err)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name   string
		params scaffold.Params
		want   string
	}{
		{name: "explicit slug", params: scaffold.Params{Slug: "check-error-returns"}, want: "check-error-returns.md"},
		{name: "derived from title", params: scaffold.Params{Title: "Prefer Table Driven Tests"}, want: "prefer-table-driven-tests.md"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := scaffold.Filename(tc.params)
			if err != nil {
				t.Fatalf("Filename returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("Filename = %q, want %q", got, tc.want)
			}
		})
	}

	if _, err := scaffold.Filename(scaffold.Params{}); !errors.Is(err, scaffold.ErrTitleRequired) {
		t.Fatalf("expected ErrTitleRequired, got %v", err)
	}
}
