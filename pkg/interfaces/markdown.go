package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations should stay stateless so a single parser instance can be
// shared across lesson previews without additional locking.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// LessonMarkdownService exposes the file workflows for lesson documents:
// loading micro-lesson files from disk, rendering them to HTML, linting
// their structure, and synchronising them with the lesson store.
type LessonMarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
	Lint(ctx context.Context, doc *Document) *LintReport
	LintDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*LintReport, error)
	Import(ctx context.Context, doc *Document, opts ImportOptions) (*ImportResult, error)
	ImportDirectory(ctx context.Context, dir string, opts ImportOptions) (*ImportResult, error)
	Sync(ctx context.Context, dir string, opts SyncOptions) (*SyncResult, error)
}

// Document represents a micro-lesson Markdown file with parsed metadata and
// content. The struct is shared between the interfaces package and internal
// implementations so consumers can depend on a stable contract.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Title        string
	Sections     map[string]string
	Tip          string
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a digest of the original file content (typically
	// SHA-256) so sync workflows can detect changes without re-importing
	// unchanged files.
	Checksum []byte
}

// FrontMatter models the metadata block of a micro-lesson file. The template
// only mandates a usage counter and a severity classification; the Custom map
// keeps any additional keys authors add without breaking the parse.
type FrontMatter struct {
	UsedBy   int            `yaml:"used_by" json:"used_by"`
	Severity string         `yaml:"severity" json:"severity"`
	Slug     string         `yaml:"slug" json:"slug"`
	Title    string         `yaml:"title" json:"title"`
	Tags     []string       `yaml:"tags" json:"tags"`
	Custom   map[string]any `yaml:",inline" json:"custom"`
	Raw      map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}

// ImportOptions configures how parsed documents become lesson records.
type ImportOptions struct {
	// DryRun collects the actions an import would take without persisting.
	DryRun bool
	// UpdateExisting overwrites stored lessons whose source checksum changed.
	UpdateExisting bool
	// Strict rejects documents with any lint issue. Without it, partial
	// notes missing the Example, Guardrails, or Tags sections still import.
	Strict bool
}

// SyncOptions extends ImportOptions with reconciliation behaviour.
type SyncOptions struct {
	ImportOptions
	// DeleteOrphaned archives stored lessons without a matching source file.
	DeleteOrphaned bool
}

// ImportResult summarises the outcome of an import run.
type ImportResult struct {
	CreatedSlugs []string
	UpdatedSlugs []string
	SkippedSlugs []string
	Errors       []ImportError
}

// SyncResult extends ImportResult with reconciliation counters.
type SyncResult struct {
	ImportResult
	ArchivedSlugs []string
}

// ImportError pairs a failed document with the error it produced.
type ImportError struct {
	FilePath string
	Slug     string
	Err      error
}

// LintIssue captures a single structural defect in a lesson document.
type LintIssue struct {
	Location string
	Message  string
}

// LintReport aggregates the lint issues found in one document.
type LintReport struct {
	FilePath string
	Issues   []LintIssue
}

// Clean reports whether the document passed every structural check.
func (r *LintReport) Clean() bool {
	return r == nil || len(r.Issues) == 0
}
