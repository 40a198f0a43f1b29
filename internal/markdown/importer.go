package markdown

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/lesson"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

var (
	ErrLessonServiceRequired = errors.New("lesson importer: lesson service is required")
	ErrSlugMissing           = errors.New("lesson importer: document slug could not be determined")
)

// ImporterConfig encapsulates dependencies required to persist lesson documents.
type ImporterConfig struct {
	Lessons interfaces.LessonService
	Logger  interfaces.Logger
	// DefaultSeverity is assigned to documents whose front matter carries no
	// severity. Invalid or empty values fall back to the parser default.
	DefaultSeverity lesson.Severity
}

// Importer orchestrates conversion of parsed lesson documents into stored records.
type Importer struct {
	lessons         interfaces.LessonService
	logger          interfaces.Logger
	defaultSeverity lesson.Severity
}

// NewImporter builds an Importer from the supplied configuration.
func NewImporter(cfg ImporterConfig) *Importer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Importer{
		lessons:         cfg.Lessons,
		logger:          logger,
		defaultSeverity: cfg.DefaultSeverity,
	}
}

// ImportDocument imports a single lesson document.
func (i *Importer) ImportDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.lessons == nil {
		return nil, ErrLessonServiceRequired
	}
	acc := &importAccumulator{}
	i.applyDocument(ctx, doc, opts, acc)
	return acc.result(), acc.firstError()
}

// ImportDocuments imports an arbitrary slice of documents. Failures are
// collected per document so one malformed file does not abort the run.
func (i *Importer) ImportDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	if i.lessons == nil {
		return nil, ErrLessonServiceRequired
	}
	acc := &importAccumulator{}
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return acc.result(), err
		}
		i.applyDocument(ctx, doc, opts, acc)
	}
	return acc.result(), acc.firstError()
}

// SyncDocuments imports all provided documents and optionally archives
// lessons whose source file has disappeared.
func (i *Importer) SyncDocuments(ctx context.Context, docs []*interfaces.Document, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	if i.lessons == nil {
		return nil, ErrLessonServiceRequired
	}

	acc := &importAccumulator{}
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return &interfaces.SyncResult{ImportResult: *acc.result()}, err
		}
		if slug := i.applyDocument(ctx, doc, opts.ImportOptions, acc); slug != "" {
			seen[slug] = struct{}{}
		}
	}

	out := &interfaces.SyncResult{ImportResult: *acc.result()}

	if opts.DeleteOrphaned {
		archived, err := i.archiveOrphaned(ctx, seen, opts)
		out.ArchivedSlugs = archived
		if err != nil {
			out.Errors = append(out.Errors, interfaces.ImportError{Err: err})
		}
	}

	if first := acc.firstError(); first != nil {
		return out, first
	}
	return out, nil
}

// applyDocument persists one document and records the outcome. The resolved
// slug is returned even on failure so sync can keep its seen-set accurate.
func (i *Importer) applyDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ImportOptions, acc *importAccumulator) string {
	slug, err := documentSlug(doc)
	if err != nil {
		acc.fail(doc, "", err)
		return ""
	}

	logger := logging.WithLessonContext(i.logger, docPath(doc), slug, "import")

	issues := Lint(doc).Issues
	if !opts.Strict {
		issues = importBlockingIssues(issues)
	}
	if len(issues) > 0 {
		logger.Warn("lesson.import.lint_failed", "issue_count", len(issues))
		acc.fail(doc, slug, fmt.Errorf("%w: %s", ErrLintFailed, summariseIssues(issues)))
		return slug
	}

	existing, err := i.lessons.GetBySlug(ctx, slug)
	if err != nil && !errors.Is(err, lesson.ErrNotFound) {
		acc.fail(doc, slug, fmt.Errorf("lesson importer: lookup %s: %w", slug, err))
		return slug
	}

	checksum := hex.EncodeToString(doc.Checksum)

	if existing == nil {
		if opts.DryRun {
			acc.skipped(slug)
			return slug
		}
		if _, err := i.lessons.Create(ctx, i.buildCreateRequest(doc, slug, checksum)); err != nil {
			acc.fail(doc, slug, fmt.Errorf("lesson importer: create %s: %w", slug, err))
			return slug
		}
		logger.Info("lesson.import.created")
		acc.created(slug)
		return slug
	}

	if existing.Checksum == checksum {
		acc.skipped(slug)
		return slug
	}

	if !opts.UpdateExisting || opts.DryRun {
		acc.skipped(slug)
		return slug
	}

	if _, err := i.lessons.Update(ctx, i.buildUpdateRequest(doc, existing, checksum)); err != nil {
		acc.fail(doc, slug, fmt.Errorf("lesson importer: update %s: %w", slug, err))
		return slug
	}
	logger.Info("lesson.import.updated")
	acc.updated(slug)
	return slug
}

func (i *Importer) archiveOrphaned(ctx context.Context, seen map[string]struct{}, opts interfaces.SyncOptions) ([]string, error) {
	stored, err := i.lessons.List(ctx, interfaces.LessonListFilter{})
	if err != nil {
		return nil, fmt.Errorf("lesson importer: list lessons: %w", err)
	}

	var archived []string
	for _, record := range stored {
		if _, ok := seen[record.Slug]; ok {
			continue
		}
		if opts.DryRun {
			archived = append(archived, record.Slug)
			continue
		}
		if err := i.lessons.Archive(ctx, record.Slug); err != nil {
			return archived, fmt.Errorf("lesson importer: archive %s: %w", record.Slug, err)
		}
		logging.WithLessonContext(i.logger, record.SourcePath, record.Slug, "archive").
			Info("lesson.sync.archived")
		archived = append(archived, record.Slug)
	}
	sort.Strings(archived)
	return archived, nil
}

// documentSlug resolves the slug for a document: explicit front-matter slug
// first, then a normalised title, then the file name.
func documentSlug(doc *interfaces.Document) (string, error) {
	if doc == nil {
		return "", ErrSlugMissing
	}

	if explicit := strings.TrimSpace(doc.FrontMatter.Slug); explicit != "" {
		if !lesson.IsValidSlug(explicit) {
			return "", fmt.Errorf("%w: %q", lesson.ErrSlugInvalid, explicit)
		}
		return explicit, nil
	}

	if title := strings.TrimSpace(doc.Title); title != "" {
		if normalized, err := lesson.NormalizeSlug(title); err == nil && normalized != "" {
			return normalized, nil
		}
	}

	base := strings.TrimSuffix(filepath.Base(doc.FilePath), filepath.Ext(doc.FilePath))
	if normalized, err := lesson.NormalizeSlug(base); err == nil && normalized != "" {
		return normalized, nil
	}
	return "", ErrSlugMissing
}

// importBlockingIssues drops the issues the import path tolerates. Missing
// Example, Guardrails, or Tags sections make a partial note, not a broken
// one; everything else still blocks the import.
func importBlockingIssues(issues []interfaces.LintIssue) []interfaces.LintIssue {
	blocking := make([]interfaces.LintIssue, 0, len(issues))
	for _, issue := range issues {
		if _, tolerated := optionalSectionLocations[issue.Location]; tolerated {
			continue
		}
		blocking = append(blocking, issue)
	}
	return blocking
}

var optionalSectionLocations = map[string]struct{}{
	"#/body/" + strings.ToLower(lesson.SectionExample):    {},
	"#/body/" + strings.ToLower(lesson.SectionGuardrails): {},
	"#/body/" + strings.ToLower(lesson.SectionTags):       {},
}

// resolveSeverity applies the configured default when the front matter leaves
// severity blank, then normalises whatever value remains.
func (i *Importer) resolveSeverity(fm interfaces.FrontMatter) lesson.Severity {
	if strings.TrimSpace(fm.Severity) == "" && i.defaultSeverity.Valid() {
		return i.defaultSeverity
	}
	severity, _ := lesson.ParseSeverity(fm.Severity)
	return severity
}

func (i *Importer) buildCreateRequest(doc *interfaces.Document, slug, checksum string) interfaces.LessonCreateRequest {
	severity := i.resolveSeverity(doc.FrontMatter)
	return interfaces.LessonCreateRequest{
		Slug:       slug,
		Title:      doc.Title,
		Severity:   string(severity),
		UsedBy:     doc.FrontMatter.UsedBy,
		Tags:       documentTags(doc),
		Context:    doc.Sections[lesson.SectionContext],
		Rule:       doc.Sections[lesson.SectionRule],
		Example:    doc.Sections[lesson.SectionExample],
		Guardrails: doc.Sections[lesson.SectionGuardrails],
		Tip:        doc.Tip,
		SourcePath: docPath(doc),
		Checksum:   checksum,
	}
}

func (i *Importer) buildUpdateRequest(doc *interfaces.Document, existing *interfaces.LessonRecord, checksum string) interfaces.LessonUpdateRequest {
	severity := i.resolveSeverity(doc.FrontMatter)
	usedBy := doc.FrontMatter.UsedBy
	// The store is authoritative for usage once it exceeds the file counter:
	// RecordUse bumps the database without touching the source file.
	if existing.UsedBy > usedBy {
		usedBy = existing.UsedBy
	}
	return interfaces.LessonUpdateRequest{
		ID:         existing.ID,
		Title:      doc.Title,
		Severity:   string(severity),
		UsedBy:     &usedBy,
		Tags:       documentTags(doc),
		Context:    doc.Sections[lesson.SectionContext],
		Rule:       doc.Sections[lesson.SectionRule],
		Example:    doc.Sections[lesson.SectionExample],
		Guardrails: doc.Sections[lesson.SectionGuardrails],
		Tip:        doc.Tip,
		SourcePath: docPath(doc),
		Checksum:   checksum,
	}
}

// documentTags merges explicit front-matter tags with those listed in the
// Tags section, preserving order and dropping duplicates.
func documentTags(doc *interfaces.Document) []string {
	merged := append([]string(nil), doc.FrontMatter.Tags...)
	merged = append(merged, ParseTags(doc.Sections[lesson.SectionTags])...)

	seen := map[string]struct{}{}
	out := make([]string, 0, len(merged))
	for _, tag := range merged {
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

func docPath(doc *interfaces.Document) string {
	if doc == nil {
		return ""
	}
	return doc.FilePath
}

func summariseIssues(issues []interfaces.LintIssue) string {
	parts := make([]string, 0, len(issues))
	for _, issue := range issues {
		parts = append(parts, fmt.Sprintf("%s: %s", issue.Location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

type importAccumulator struct {
	createdSlugs []string
	updatedSlugs []string
	skippedSlugs []string
	errors       []interfaces.ImportError
}

func (a *importAccumulator) created(slug string) { a.createdSlugs = append(a.createdSlugs, slug) }
func (a *importAccumulator) updated(slug string) { a.updatedSlugs = append(a.updatedSlugs, slug) }
func (a *importAccumulator) skipped(slug string) { a.skippedSlugs = append(a.skippedSlugs, slug) }

func (a *importAccumulator) fail(doc *interfaces.Document, slug string, err error) {
	a.errors = append(a.errors, interfaces.ImportError{
		FilePath: docPath(doc),
		Slug:     slug,
		Err:      err,
	})
}

func (a *importAccumulator) result() *interfaces.ImportResult {
	return &interfaces.ImportResult{
		CreatedSlugs: append([]string(nil), a.createdSlugs...),
		UpdatedSlugs: append([]string(nil), a.updatedSlugs...),
		SkippedSlugs: append([]string(nil), a.skippedSlugs...),
		Errors:       append([]interfaces.ImportError(nil), a.errors...),
	}
}

func (a *importAccumulator) firstError() error {
	if len(a.errors) == 0 {
		return nil
	}
	return a.errors[0].Err
}
