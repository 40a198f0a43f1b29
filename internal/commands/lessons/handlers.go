package lessonscmd

import (
	"context"
	"errors"
	"fmt"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-lessons/internal/commands"
	"github.com/goliatone/go-lessons/internal/heat"
	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

const (
	importOperation    = "lessons.import_directory"
	syncOperation      = "lessons.sync_directory"
	lintOperation      = "lessons.lint_directory"
	recordUseOperation = "lessons.record_use"
	rankOperation      = "lessons.rank"
)

var (
	// ErrImportFeatureDisabled is returned when the import feature flag is disabled at runtime.
	ErrImportFeatureDisabled = errors.New("lessons command: import feature disabled")
	// ErrCommandsDisabled is returned when the command layer is switched off at runtime.
	ErrCommandsDisabled = errors.New("lessons command: command layer disabled")
	// ErrLintIssuesFound is returned by strict lint runs when any document has issues.
	ErrLintIssuesFound = errors.New("lessons command: lint issues found")
)

var (
	_ command.Commander[ImportDirectoryCommand] = (*ImportDirectoryHandler)(nil)
	_ command.Commander[SyncDirectoryCommand]   = (*SyncDirectoryHandler)(nil)
	_ command.Commander[LintDirectoryCommand]   = (*LintDirectoryHandler)(nil)
	_ command.Commander[RecordUseCommand]       = (*RecordUseHandler)(nil)
	_ command.Commander[RankLessonsQuery]       = (*RankLessonsHandler)(nil)
)

// ImportDirectoryHandler orchestrates lesson directory imports via the shared
// command handler foundation.
type ImportDirectoryHandler struct {
	inner *commands.Handler[ImportDirectoryCommand]
}

// NewImportDirectoryHandler creates a handler bound to the supplied markdown service.
func NewImportDirectoryHandler(service interfaces.LessonMarkdownService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[ImportDirectoryCommand]) *ImportDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg ImportDirectoryCommand) error {
		if !gates.commandsEnabled() {
			return ErrCommandsDisabled
		}
		if !gates.importEnabled() {
			return ErrImportFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.ImportDirectory(ctx, msg.Directory, interfaces.ImportOptions{
			DryRun:         msg.DryRun,
			UpdateExisting: msg.UpdateExisting,
			Strict:         msg.Strict,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count": len(result.CreatedSlugs),
				"updated_count": len(result.UpdatedSlugs),
				"skipped_count": len(result.SkippedSlugs),
				"error_count":   len(result.Errors),
				"dry_run":       msg.DryRun,
			}).Info("lessons.command.import_directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[ImportDirectoryCommand]{
		commands.WithLogger[ImportDirectoryCommand](baseLogger),
		commands.WithOperation[ImportDirectoryCommand](importOperation),
		commands.WithMessageFields(func(msg ImportDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.UpdateExisting {
				fields["update_existing"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ImportDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ImportDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[ImportDirectoryCommand].
func (h *ImportDirectoryHandler) Execute(ctx context.Context, msg ImportDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncDirectoryHandler orchestrates lesson sync workflows via the shared
// command handler foundation.
type SyncDirectoryHandler struct {
	inner *commands.Handler[SyncDirectoryCommand]
}

// NewSyncDirectoryHandler creates a handler bound to the supplied markdown service.
func NewSyncDirectoryHandler(service interfaces.LessonMarkdownService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[SyncDirectoryCommand]) *SyncDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg SyncDirectoryCommand) error {
		if !gates.commandsEnabled() {
			return ErrCommandsDisabled
		}
		if !gates.importEnabled() {
			return ErrImportFeatureDisabled
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		result, err := service.Sync(ctx, msg.Directory, interfaces.SyncOptions{
			ImportOptions: interfaces.ImportOptions{
				DryRun:         msg.DryRun,
				UpdateExisting: msg.UpdateExisting,
				Strict:         msg.Strict,
			},
			DeleteOrphaned: msg.DeleteOrphaned,
		})
		if err != nil {
			return err
		}
		if result != nil {
			logging.WithFields(baseLogger, map[string]any{
				"created_count":  len(result.CreatedSlugs),
				"updated_count":  len(result.UpdatedSlugs),
				"skipped_count":  len(result.SkippedSlugs),
				"archived_count": len(result.ArchivedSlugs),
				"error_count":    len(result.Errors),
				"dry_run":        msg.DryRun,
			}).Info("lessons.command.sync_directory.completed")
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[SyncDirectoryCommand]{
		commands.WithLogger[SyncDirectoryCommand](baseLogger),
		commands.WithOperation[SyncDirectoryCommand](syncOperation),
		commands.WithMessageFields(func(msg SyncDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.UpdateExisting {
				fields["update_existing"] = true
			}
			if msg.DeleteOrphaned {
				fields["delete_orphaned"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[SyncDirectoryCommand].
func (h *SyncDirectoryHandler) Execute(ctx context.Context, msg SyncDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// LintDirectoryHandler runs structural checks over a lesson directory.
type LintDirectoryHandler struct {
	inner *commands.Handler[LintDirectoryCommand]
}

// NewLintDirectoryHandler creates a handler bound to the supplied markdown service.
// The report callback receives every produced report; pass nil to only log totals.
func NewLintDirectoryHandler(service interfaces.LessonMarkdownService, logger interfaces.Logger, gates FeatureGates, report func(*interfaces.LintReport), opts ...commands.HandlerOption[LintDirectoryCommand]) *LintDirectoryHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg LintDirectoryCommand) error {
		if !gates.commandsEnabled() {
			return ErrCommandsDisabled
		}

		reports, err := service.LintDirectory(ctx, msg.Directory, interfaces.LoadOptions{})
		if err != nil {
			return err
		}

		dirty := 0
		for _, r := range reports {
			if report != nil {
				report(r)
			}
			if !r.Clean() {
				dirty++
			}
		}

		logging.WithFields(baseLogger, map[string]any{
			"document_count": len(reports),
			"dirty_count":    dirty,
		}).Info("lessons.command.lint_directory.completed")

		if msg.Strict && dirty > 0 {
			return fmt.Errorf("%w: %d of %d documents", ErrLintIssuesFound, dirty, len(reports))
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[LintDirectoryCommand]{
		commands.WithLogger[LintDirectoryCommand](baseLogger),
		commands.WithOperation[LintDirectoryCommand](lintOperation),
		commands.WithMessageFields(func(msg LintDirectoryCommand) map[string]any {
			fields := map[string]any{
				"directory": msg.Directory,
			}
			if msg.Strict {
				fields["strict"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[LintDirectoryCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &LintDirectoryHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[LintDirectoryCommand].
func (h *LintDirectoryHandler) Execute(ctx context.Context, msg LintDirectoryCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RecordUseHandler increments the usage counter on a stored lesson.
type RecordUseHandler struct {
	inner *commands.Handler[RecordUseCommand]
}

// NewRecordUseHandler creates a handler bound to the supplied lesson service.
func NewRecordUseHandler(service interfaces.LessonService, logger interfaces.Logger, gates FeatureGates, opts ...commands.HandlerOption[RecordUseCommand]) *RecordUseHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RecordUseCommand) error {
		if !gates.commandsEnabled() {
			return ErrCommandsDisabled
		}

		record, err := service.RecordUse(ctx, msg.Slug)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"slug":    record.Slug,
			"used_by": record.UsedBy,
		}).Info("lessons.command.record_use.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RecordUseCommand]{
		commands.WithLogger[RecordUseCommand](baseLogger),
		commands.WithOperation[RecordUseCommand](recordUseOperation),
		commands.WithMessageFields(func(msg RecordUseCommand) map[string]any {
			return map[string]any{
				"slug": msg.Slug,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RecordUseCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RecordUseHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RecordUseCommand].
func (h *RecordUseHandler) Execute(ctx context.Context, msg RecordUseCommand) error {
	return h.inner.Execute(ctx, msg)
}

// RankLessonsHandler computes the heat ranking over the lesson store.
type RankLessonsHandler struct {
	inner *commands.Handler[RankLessonsQuery]
}

// NewRankLessonsHandler creates a handler bound to the supplied aggregator.
// The sink callback receives the ranked entries; pass nil to only log totals.
func NewRankLessonsHandler(aggregator *heat.Aggregator, logger interfaces.Logger, gates FeatureGates, sink func([]heat.Entry), opts ...commands.HandlerOption[RankLessonsQuery]) *RankLessonsHandler {
	baseLogger := logger
	if baseLogger == nil {
		baseLogger = logging.NoOp()
	}

	exec := func(ctx context.Context, msg RankLessonsQuery) error {
		if !gates.commandsEnabled() {
			return ErrCommandsDisabled
		}

		entries, err := aggregator.Rank(ctx, msg.Limit)
		if err != nil {
			return err
		}
		if sink != nil {
			sink(entries)
		}
		logging.WithFields(baseLogger, map[string]any{
			"entry_count": len(entries),
			"limit":       msg.Limit,
		}).Info("lessons.command.rank.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RankLessonsQuery]{
		commands.WithLogger[RankLessonsQuery](baseLogger),
		commands.WithOperation[RankLessonsQuery](rankOperation),
		commands.WithMessageFields(func(msg RankLessonsQuery) map[string]any {
			return map[string]any{
				"limit": msg.Limit,
			}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RankLessonsQuery](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RankLessonsHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[RankLessonsQuery].
func (h *RankLessonsHandler) Execute(ctx context.Context, msg RankLessonsQuery) error {
	return h.inner.Execute(ctx, msg)
}
