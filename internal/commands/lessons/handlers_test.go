package lessonscmd_test

import (
	"context"
	"errors"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	lessonscmd "github.com/goliatone/go-lessons/internal/commands/lessons"
	"github.com/goliatone/go-lessons/internal/heat"
	"github.com/goliatone/go-lessons/internal/lessons"
	"github.com/goliatone/go-lessons/internal/runtimeconfig"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

type stubMarkdownService struct {
	importDir    string
	importOpts   interfaces.ImportOptions
	importResult *interfaces.ImportResult
	importErr    error
	syncDir      string
	syncOpts     interfaces.SyncOptions
	syncResult   *interfaces.SyncResult
	syncErr      error
	lintDir      string
	lintReports  []*interfaces.LintReport
	lintErr      error
	importDelay  time.Duration
	importCalls  int
	syncCalls    int
	lintCalls    int
}

func (s *stubMarkdownService) Load(context.Context, string, interfaces.LoadOptions) (*interfaces.Document, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMarkdownService) LoadDirectory(context.Context, string, interfaces.LoadOptions) ([]*interfaces.Document, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMarkdownService) Render(context.Context, []byte, interfaces.ParseOptions) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMarkdownService) RenderDocument(context.Context, *interfaces.Document, interfaces.ParseOptions) ([]byte, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMarkdownService) Lint(context.Context, *interfaces.Document) *interfaces.LintReport {
	return nil
}

func (s *stubMarkdownService) LintDirectory(_ context.Context, dir string, _ interfaces.LoadOptions) ([]*interfaces.LintReport, error) {
	s.lintCalls++
	s.lintDir = dir
	return s.lintReports, s.lintErr
}

func (s *stubMarkdownService) Import(context.Context, *interfaces.Document, interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	return nil, errors.New("not implemented")
}

func (s *stubMarkdownService) ImportDirectory(_ context.Context, dir string, opts interfaces.ImportOptions) (*interfaces.ImportResult, error) {
	s.importCalls++
	s.importDir = dir
	s.importOpts = opts
	if s.importDelay > 0 {
		time.Sleep(s.importDelay)
	}
	return s.importResult, s.importErr
}

func (s *stubMarkdownService) Sync(_ context.Context, dir string, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	s.syncCalls++
	s.syncDir = dir
	s.syncOpts = opts
	return s.syncResult, s.syncErr
}

var _ interfaces.LessonMarkdownService = (*stubMarkdownService)(nil)

func TestImportDirectoryHandlerExecutesService(t *testing.T) {
	stub := &stubMarkdownService{
		importResult: &interfaces.ImportResult{CreatedSlugs: []string{"check-error-returns"}},
	}

	handler := lessonscmd.NewImportDirectoryHandler(stub, nil, lessonscmd.FeatureGates{})

	err := handler.Execute(context.Background(), lessonscmd.ImportDirectoryCommand{
		Directory:      "lessons",
		UpdateExisting: true,
		DryRun:         true,
		Strict:         true,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if stub.importCalls != 1 {
		t.Fatalf("ImportDirectory called %d times", stub.importCalls)
	}
	if stub.importDir != "lessons" {
		t.Fatalf("directory = %q", stub.importDir)
	}
	if !stub.importOpts.UpdateExisting || !stub.importOpts.DryRun || !stub.importOpts.Strict {
		t.Fatalf("options = %+v", stub.importOpts)
	}
}

func TestImportDirectoryHandlerValidatesMessage(t *testing.T) {
	stub := &stubMarkdownService{}
	handler := lessonscmd.NewImportDirectoryHandler(stub, nil, lessonscmd.FeatureGates{})

	err := handler.Execute(context.Background(), lessonscmd.ImportDirectoryCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if stub.importCalls != 0 {
		t.Fatal("service should not run when validation fails")
	}
}

func TestImportDirectoryHandlerHonoursFeatureGate(t *testing.T) {
	stub := &stubMarkdownService{}
	handler := lessonscmd.NewImportDirectoryHandler(stub, nil, lessonscmd.FeatureGates{
		ImportEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), lessonscmd.ImportDirectoryCommand{Directory: "lessons"})
	if !errors.Is(err, lessonscmd.ErrImportFeatureDisabled) {
		t.Fatalf("expected ErrImportFeatureDisabled, got %v", err)
	}
	if stub.importCalls != 0 {
		t.Fatal("service should not run when import is disabled")
	}
}

func TestSyncDirectoryHandlerExecutesService(t *testing.T) {
	stub := &stubMarkdownService{
		syncResult: &interfaces.SyncResult{ArchivedSlugs: []string{"removed-from-disk"}},
	}

	handler := lessonscmd.NewSyncDirectoryHandler(stub, nil, lessonscmd.FeatureGates{})

	err := handler.Execute(context.Background(), lessonscmd.SyncDirectoryCommand{
		Directory:      "lessons",
		DeleteOrphaned: true,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if stub.syncCalls != 1 {
		t.Fatalf("Sync called %d times", stub.syncCalls)
	}
	if stub.syncDir != "lessons" {
		t.Fatalf("directory = %q", stub.syncDir)
	}
	if !stub.syncOpts.DeleteOrphaned {
		t.Fatalf("options = %+v", stub.syncOpts)
	}
}

func TestSyncDirectoryHandlerHonoursFeatureGate(t *testing.T) {
	stub := &stubMarkdownService{}
	handler := lessonscmd.NewSyncDirectoryHandler(stub, nil, lessonscmd.FeatureGates{
		ImportEnabled: func() bool { return false },
	})

	err := handler.Execute(context.Background(), lessonscmd.SyncDirectoryCommand{Directory: "lessons"})
	if !errors.Is(err, lessonscmd.ErrImportFeatureDisabled) {
		t.Fatalf("expected ErrImportFeatureDisabled, got %v", err)
	}
}

func TestLintDirectoryHandlerReportsIssues(t *testing.T) {
	stub := &stubMarkdownService{
		lintReports: []*interfaces.LintReport{
			{FilePath: "golang/clean.md"},
			{
				FilePath: "golang/broken.md",
				Issues: []interfaces.LintIssue{
					{Location: "#/body/guardrails", Message: "required section missing"},
				},
			},
		},
	}

	var seen []string
	handler := lessonscmd.NewLintDirectoryHandler(stub, nil, lessonscmd.FeatureGates{}, func(r *interfaces.LintReport) {
		seen = append(seen, r.FilePath)
	})

	err := handler.Execute(context.Background(), lessonscmd.LintDirectoryCommand{Directory: "golang"})
	if err != nil {
		t.Fatalf("non-strict lint should succeed, got %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("report callback saw %v", seen)
	}
}

func TestLintDirectoryHandlerStrictMode(t *testing.T) {
	stub := &stubMarkdownService{
		lintReports: []*interfaces.LintReport{
			{
				FilePath: "golang/broken.md",
				Issues: []interfaces.LintIssue{
					{Location: "#/frontmatter/severity", Message: "invalid severity"},
				},
			},
		},
	}

	handler := lessonscmd.NewLintDirectoryHandler(stub, nil, lessonscmd.FeatureGates{}, nil)

	err := handler.Execute(context.Background(), lessonscmd.LintDirectoryCommand{
		Directory: "golang",
		Strict:    true,
	})
	if !errors.Is(err, lessonscmd.ErrLintIssuesFound) {
		t.Fatalf("expected ErrLintIssuesFound, got %v", err)
	}
}

func TestRecordUseHandlerIncrementsCounter(t *testing.T) {
	svc := lessons.NewService(lessons.NewMemoryLessonRepository())
	ctx := context.Background()

	if _, err := svc.Create(ctx, interfaces.LessonCreateRequest{
		Slug:    "prefer-table-driven-tests",
		Title:   "Prefer Table Driven Tests",
		Context: "context",
		Rule:    "rule",
	}); err != nil {
		t.Fatalf("seed lesson: %v", err)
	}

	handler := lessonscmd.NewRecordUseHandler(svc, nil, lessonscmd.FeatureGates{})

	if err := handler.Execute(ctx, lessonscmd.RecordUseCommand{Slug: "prefer-table-driven-tests"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	record, err := svc.GetBySlug(ctx, "prefer-table-driven-tests")
	if err != nil {
		t.Fatalf("GetBySlug returned error: %v", err)
	}
	if record.UsedBy != 1 {
		t.Fatalf("UsedBy = %d", record.UsedBy)
	}
}

func TestRankLessonsHandlerDeliversEntries(t *testing.T) {
	svc := lessons.NewService(lessons.NewMemoryLessonRepository())
	ctx := context.Background()

	seeds := []interfaces.LessonCreateRequest{
		{Slug: "check-error-returns", Title: "Check Error Returns", Severity: "high", UsedBy: 3, Context: "context", Rule: "rule"},
		{Slug: "prefer-table-driven-tests", Title: "Prefer Table Driven Tests", Context: "context", Rule: "rule"},
	}
	for _, req := range seeds {
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("seed %s: %v", req.Slug, err)
		}
	}

	aggregator := heat.NewAggregator(svc, heat.Config{})

	var entries []heat.Entry
	handler := lessonscmd.NewRankLessonsHandler(aggregator, nil, lessonscmd.FeatureGates{}, func(ranked []heat.Entry) {
		entries = ranked
	})

	if err := handler.Execute(ctx, lessonscmd.RankLessonsQuery{Limit: 1}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("entries = %v", entries)
	}
	if entries[0].Lesson.Slug != "check-error-returns" {
		t.Fatalf("top slug = %q", entries[0].Lesson.Slug)
	}
	if entries[0].Score != 5 {
		t.Fatalf("top score = %d, want 5", entries[0].Score)
	}
}

func TestRankLessonsHandlerRejectsNegativeLimit(t *testing.T) {
	svc := lessons.NewService(lessons.NewMemoryLessonRepository())
	aggregator := heat.NewAggregator(svc, heat.Config{})
	handler := lessonscmd.NewRankLessonsHandler(aggregator, nil, lessonscmd.FeatureGates{}, nil)

	err := handler.Execute(context.Background(), lessonscmd.RankLessonsQuery{Limit: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestImportDirectoryHandlerHonoursCommandGate(t *testing.T) {
	stub := &stubMarkdownService{}
	cfg := runtimeconfig.DefaultConfig()
	cfg.Commands.Enabled = false

	handler := lessonscmd.NewImportDirectoryHandler(stub, nil, lessonscmd.ConfigGates(cfg))

	err := handler.Execute(context.Background(), lessonscmd.ImportDirectoryCommand{Directory: "lessons"})
	if !errors.Is(err, lessonscmd.ErrCommandsDisabled) {
		t.Fatalf("expected ErrCommandsDisabled, got %v", err)
	}
	if stub.importCalls != 0 {
		t.Fatal("service should not run when commands are disabled")
	}
}

func TestRankLessonsHandlerHonoursCommandGate(t *testing.T) {
	svc := lessons.NewService(lessons.NewMemoryLessonRepository())
	aggregator := heat.NewAggregator(svc, heat.Config{})
	cfg := runtimeconfig.DefaultConfig()
	cfg.Commands.Enabled = false

	handler := lessonscmd.NewRankLessonsHandler(aggregator, nil, lessonscmd.ConfigGates(cfg), nil)

	err := handler.Execute(context.Background(), lessonscmd.RankLessonsQuery{})
	if !errors.Is(err, lessonscmd.ErrCommandsDisabled) {
		t.Fatalf("expected ErrCommandsDisabled, got %v", err)
	}
}

func TestConfigOptionsApplyCommandTimeout(t *testing.T) {
	stub := &stubMarkdownService{
		importDelay:  20 * time.Millisecond,
		importResult: &interfaces.ImportResult{},
	}
	cfg := runtimeconfig.CommandsConfig{Enabled: true, Timeout: 10 * time.Millisecond}

	handler := lessonscmd.NewImportDirectoryHandler(stub, nil, lessonscmd.FeatureGates{},
		lessonscmd.ConfigOptions[lessonscmd.ImportDirectoryCommand](cfg)...)

	err := handler.Execute(context.Background(), lessonscmd.ImportDirectoryCommand{Directory: "lessons"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestRecordUseHandlerValidatesSlug(t *testing.T) {
	svc := lessons.NewService(lessons.NewMemoryLessonRepository())
	handler := lessonscmd.NewRecordUseHandler(svc, nil, lessonscmd.FeatureGates{})

	err := handler.Execute(context.Background(), lessonscmd.RecordUseCommand{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
