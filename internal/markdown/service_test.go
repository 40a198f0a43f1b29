package markdown_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/goliatone/go-lessons/internal/markdown"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

const validLessonSource = `---
used_by: 2
severity: normal
slug: prefer-table-driven-tests
tags:
  - golang
---

# Prefer Table Driven Tests

## Context

Copy-pasted assertions drift apart over time.

## Rule

Express repetitive cases as a table and loop over it.

## Example

See the testing package documentation.

## Guardrails

Review new tests for copy-paste blocks.

## Tags

- golang
- testing

> **Tip:** Name each case so failures read well.
`

const brokenLessonSource = `---
used_by: 0
severity: low
slug: broken-lesson
---

# Broken Lesson

## Context

Only context is present.
`

func newTestFS() fstest.MapFS {
	now := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	return fstest.MapFS{
		"golang/prefer-table-driven-tests.md": &fstest.MapFile{
			Data:    []byte(validLessonSource),
			ModTime: now,
		},
		"golang/broken-lesson.md": &fstest.MapFile{
			Data:    []byte(brokenLessonSource),
			ModTime: now,
		},
		"notes/readme.txt": &fstest.MapFile{
			Data: []byte("not a lesson"),
		},
	}
}

func newTestService(t *testing.T, svc interfaces.LessonService) *markdown.Service {
	t.Helper()
	service, err := markdown.NewServiceWithFS(markdown.Config{
		Pattern:   "*.md",
		Recursive: true,
		Lessons:   svc,
	}, nil, newTestFS())
	if err != nil {
		t.Fatalf("NewServiceWithFS returned error: %v", err)
	}
	return service
}

func TestServiceLoadRendersDocument(t *testing.T) {
	service := newTestService(t, nil)

	doc, err := service.Load(context.Background(), "golang/prefer-table-driven-tests.md", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if doc.FrontMatter.UsedBy != 2 {
		t.Fatalf("UsedBy = %d", doc.FrontMatter.UsedBy)
	}
	if len(doc.Checksum) == 0 {
		t.Fatal("expected checksum to be populated")
	}
	if !strings.Contains(string(doc.BodyHTML), "<h1") {
		t.Fatalf("expected rendered HTML, got %q", string(doc.BodyHTML))
	}
}

func TestServiceLoadDirectoryFiltersAndSorts(t *testing.T) {
	service := newTestService(t, nil)

	docs, err := service.LoadDirectory(context.Background(), "golang", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LoadDirectory returned error: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].FilePath > docs[1].FilePath {
		t.Fatal("expected documents sorted by path")
	}
}

func TestServiceLintDirectory(t *testing.T) {
	service := newTestService(t, nil)

	reports, err := service.LintDirectory(context.Background(), "golang", interfaces.LoadOptions{})
	if err != nil {
		t.Fatalf("LintDirectory returned error: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(reports))
	}

	var dirty int
	for _, report := range reports {
		if !report.Clean() {
			dirty++
		}
	}
	if dirty != 1 {
		t.Fatalf("expected exactly one dirty report, got %d", dirty)
	}
}

func TestServiceImportDirectory(t *testing.T) {
	svc := newLessonService()
	service := newTestService(t, svc)

	result, err := service.ImportDirectory(context.Background(), "golang", interfaces.ImportOptions{})
	if !errors.Is(err, markdown.ErrLintFailed) {
		t.Fatalf("expected ErrLintFailed for the broken lesson, got %v", err)
	}

	if len(result.CreatedSlugs) != 1 || result.CreatedSlugs[0] != "prefer-table-driven-tests" {
		t.Fatalf("CreatedSlugs = %v", result.CreatedSlugs)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one failure, got %v", result.Errors)
	}
}

func TestServiceImportRequiresLessonService(t *testing.T) {
	service := newTestService(t, nil)

	_, err := service.ImportDirectory(context.Background(), "golang", interfaces.ImportOptions{})
	if err == nil {
		t.Fatal("expected error without a lesson service")
	}
}

func TestServiceSyncArchivesOrphans(t *testing.T) {
	svc := newLessonService()
	fs := fstest.MapFS{
		"golang/prefer-table-driven-tests.md": &fstest.MapFile{
			Data:    []byte(validLessonSource),
			ModTime: time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	service, err := markdown.NewServiceWithFS(markdown.Config{
		Pattern:   "*.md",
		Recursive: true,
		Lessons:   svc,
	}, nil, fs)
	if err != nil {
		t.Fatalf("NewServiceWithFS returned error: %v", err)
	}

	ctx := context.Background()
	if _, err := svc.Create(ctx, interfaces.LessonCreateRequest{
		Slug:    "removed-from-disk",
		Title:   "Removed From Disk",
		Context: "context",
		Rule:    "rule",
	}); err != nil {
		t.Fatalf("seed orphan: %v", err)
	}

	result, err := service.Sync(ctx, "golang", interfaces.SyncOptions{DeleteOrphaned: true})
	if err != nil {
		t.Fatalf("Sync returned error: %v", err)
	}
	if len(result.ArchivedSlugs) != 1 || result.ArchivedSlugs[0] != "removed-from-disk" {
		t.Fatalf("ArchivedSlugs = %v", result.ArchivedSlugs)
	}
}

func TestServiceRenderHonoursHardWraps(t *testing.T) {
	service := newTestService(t, nil)

	html, err := service.Render(context.Background(), []byte("line one\nline two"), interfaces.ParseOptions{
		HardWraps: true,
	})
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if !strings.Contains(string(html), "<br") {
		t.Fatalf("expected hard line break in output, got %q", string(html))
	}
}
