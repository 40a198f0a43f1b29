package bootstrap

import (
	"fmt"
	"strings"

	command "github.com/goliatone/go-command"

	golessons "github.com/goliatone/go-lessons"
	"github.com/goliatone/go-lessons/internal/commands"
	lessonscmd "github.com/goliatone/go-lessons/internal/commands/lessons"
	"github.com/goliatone/go-lessons/internal/di"
	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// Options captures configuration for lesson CLI bootstraps.
type Options struct {
	LessonsDir     string
	Pattern        string
	Recursive      bool
	StorageDSN     string
	LoggerProvider interfaces.LoggerProvider
}

// Module wraps the lessons module and the services the CLIs operate on.
type Module struct {
	Module  *golessons.Module
	Config  golessons.Config
	Service interfaces.LessonMarkdownService
	Lessons interfaces.LessonService
	Logger  interfaces.Logger
}

// Close releases resources held by the bootstrap, such as database handles.
func (m *Module) Close() error {
	if m == nil || m.Module == nil {
		return nil
	}
	return m.Module.Close()
}

// Gates derives the runtime feature gates command handlers consult.
func (m *Module) Gates() lessonscmd.FeatureGates {
	if m == nil {
		return lessonscmd.FeatureGates{}
	}
	return lessonscmd.ConfigGates(m.Config)
}

// HandlerOptions derives the shared handler options from the module's
// command-layer configuration.
func HandlerOptions[T command.Message](m *Module) []commands.HandlerOption[T] {
	if m == nil {
		return nil
	}
	return lessonscmd.ConfigOptions[T](m.Config.Commands)
}

// BuildModule constructs a lessons module configured for CLI operations.
func BuildModule(opts Options) (*Module, error) {
	cfg := golessons.DefaultConfig()
	cfg.Features.Import = true
	cfg.Lessons.Dir = strings.TrimSpace(opts.LessonsDir)
	if cfg.Lessons.Dir == "" {
		cfg.Lessons.Dir = "lessons"
	}
	if trimmed := strings.TrimSpace(opts.Pattern); trimmed != "" {
		cfg.Lessons.Pattern = trimmed
	}
	cfg.Lessons.Recursive = opts.Recursive

	if dsn := strings.TrimSpace(opts.StorageDSN); dsn != "" {
		cfg.Storage.Provider = "bun"
		cfg.Storage.DSN = dsn
	}

	diOpts := []di.Option{}
	if opts.LoggerProvider != nil {
		diOpts = append(diOpts, di.WithLoggerProvider(opts.LoggerProvider))
	}

	module, err := golessons.New(cfg, diOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise lessons module: %w", err)
	}

	service := module.Markdown()
	if service == nil {
		_ = module.Close()
		return nil, fmt.Errorf("markdown service not configured; ensure Features.Import is enabled")
	}

	logger := logging.MarkdownLogger(module.Container().LoggerProvider())

	return &Module{
		Module:  module,
		Config:  cfg,
		Service: service,
		Lessons: module.Lessons(),
		Logger:  logger,
	}, nil
}

// SplitTags parses a comma separated tag list into a trimmed slice.
func SplitTags(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			tags = append(tags, trimmed)
		}
	}
	return tags
}
