package di

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"

	"github.com/goliatone/go-lessons/internal/lessons"
	"github.com/goliatone/go-lessons/internal/runtimeconfig"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

func testConfig(t *testing.T) runtimeconfig.Config {
	t.Helper()
	cfg := runtimeconfig.DefaultConfig()
	cfg.Lessons.Dir = t.TempDir()
	return cfg
}

func TestNewContainer_DefaultsToMemoryRepository(t *testing.T) {
	container, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	if _, ok := container.LessonRepository().(*lessons.MemoryLessonRepository); !ok {
		t.Fatalf("expected memory repository, got %T", container.LessonRepository())
	}
	if container.LessonService() == nil {
		t.Fatal("expected lesson service to be configured")
	}
	if container.MarkdownService() == nil {
		t.Fatal("expected markdown service when import feature is enabled")
	}
	if container.HeatAggregator() == nil {
		t.Fatal("expected heat aggregator to be configured")
	}
}

func TestNewContainer_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.DefaultSeverity = "critical"

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrDefaultSeverityInvalid) {
		t.Fatalf("expected ErrDefaultSeverityInvalid, got %v", err)
	}
}

func TestNewContainer_NegativeUsageCapDisablesUsageBonus(t *testing.T) {
	cfg := testConfig(t)
	cfg.Heat.UsageCap = -1

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}

	score := container.HeatAggregator().Score(&interfaces.LessonRecord{
		Slug:     "prefer-table-driven-tests",
		Severity: "normal",
		UsedBy:   10,
	})
	if score != 1 {
		t.Fatalf("Score = %d, want severity weight only", score)
	}
}

func TestNewContainer_OpensBunStorageFromDSN(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Provider = "bun"
	cfg.Storage.DSN = filepath.Join(t.TempDir(), "lessons.db")
	cfg.Cache.Enabled = true

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	defer func() {
		if err := container.Close(); err != nil {
			t.Fatalf("Close returned error: %v", err)
		}
	}()

	if _, ok := container.LessonRepository().(*lessons.BunLessonRepository); !ok {
		t.Fatalf("expected bun repository, got %T", container.LessonRepository())
	}

	ctx := context.Background()
	created, err := container.LessonService().Create(ctx, interfaces.LessonCreateRequest{
		Slug:    "check-error-returns",
		Title:   "Check Error Returns",
		Context: "context",
		Rule:    "rule",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.Slug != "check-error-returns" {
		t.Fatalf("Slug = %q", created.Slug)
	}
}

func TestNewContainer_BunStorageRequiresDSN(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Provider = "bun"

	if _, err := NewContainer(cfg); !errors.Is(err, runtimeconfig.ErrStorageDSNRequired) {
		t.Fatalf("expected ErrStorageDSNRequired, got %v", err)
	}
}

func TestNewContainer_SkipsMarkdownWhenImportDisabled(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Features.Import = false
	cfg.Lessons.Dir = ""

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.MarkdownService() != nil {
		t.Fatalf("expected nil markdown service, got %T", container.MarkdownService())
	}
}

func TestNewContainer_WithLessonServiceOverride(t *testing.T) {
	override := &stubLessonService{}

	container, err := NewContainer(testConfig(t), WithLessonService(override))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.LessonService() != override {
		t.Fatalf("expected overridden lesson service, got %T", container.LessonService())
	}
}

func TestNewContainer_UsesProvidedLoggerProvider(t *testing.T) {
	provider := &singleLoggerProvider{logger: &recordingLogger{}}

	container, err := NewContainer(testConfig(t), WithLoggerProvider(provider))
	if err != nil {
		t.Fatalf("NewContainer returned error: %v", err)
	}
	if container.LoggerProvider() != provider {
		t.Fatalf("expected provided logger provider, got %T", container.LoggerProvider())
	}
}

type singleLoggerProvider struct {
	logger interfaces.Logger
}

func (p *singleLoggerProvider) GetLogger(string) interfaces.Logger {
	return p.logger
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Trace(msg string, _ ...any) { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Debug(msg string, _ ...any) { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Info(msg string, _ ...any)  { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Error(msg string, _ ...any) { l.messages = append(l.messages, msg) }
func (l *recordingLogger) Fatal(msg string, _ ...any) { l.messages = append(l.messages, msg) }

func (l *recordingLogger) WithContext(context.Context) interfaces.Logger { return l }

type stubLessonService struct{}

func (s *stubLessonService) Create(context.Context, interfaces.LessonCreateRequest) (*interfaces.LessonRecord, error) {
	return nil, nil
}

func (s *stubLessonService) Get(context.Context, uuid.UUID) (*interfaces.LessonRecord, error) {
	return nil, nil
}

func (s *stubLessonService) GetBySlug(context.Context, string) (*interfaces.LessonRecord, error) {
	return nil, nil
}

func (s *stubLessonService) List(context.Context, interfaces.LessonListFilter) ([]*interfaces.LessonRecord, error) {
	return nil, nil
}

func (s *stubLessonService) Update(context.Context, interfaces.LessonUpdateRequest) (*interfaces.LessonRecord, error) {
	return nil, nil
}

func (s *stubLessonService) RecordUse(context.Context, string) (*interfaces.LessonRecord, error) {
	return nil, nil
}

func (s *stubLessonService) Archive(context.Context, string) error {
	return nil
}
