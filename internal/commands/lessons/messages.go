package lessonscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	importDirectoryMessageType = "lessons.import_directory"
	syncDirectoryMessageType   = "lessons.sync_directory"
	lintDirectoryMessageType   = "lessons.lint_directory"
	recordUseMessageType       = "lessons.record_use"
	rankLessonsMessageType     = "lessons.rank"
)

// ImportDirectoryCommand triggers a filesystem walk for lesson documents
// under the provided Directory. Options map directly onto
// interfaces.ImportOptions for record creation.
type ImportDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load lesson files from.
	Directory string `json:"directory"`
	// UpdateExisting overwrites stored lessons whose source checksum changed.
	UpdateExisting bool `json:"update_existing,omitempty"`
	// DryRun toggles preview mode to collect import actions without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// Strict rejects documents with any lint issue instead of tolerating partial notes.
	Strict bool `json:"strict,omitempty"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("lessons.import_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// SyncDirectoryCommand orchestrates a lesson sync run for the provided
// Directory, applying reconciliation flags consistent with interfaces.SyncOptions.
type SyncDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to load lesson files from.
	Directory string `json:"directory"`
	// UpdateExisting overwrites stored lessons whose source checksum changed.
	UpdateExisting bool `json:"update_existing,omitempty"`
	// DryRun toggles preview mode to collect sync actions without persisting changes.
	DryRun bool `json:"dry_run,omitempty"`
	// Strict rejects documents with any lint issue instead of tolerating partial notes.
	Strict bool `json:"strict,omitempty"`
	// DeleteOrphaned archives stored lessons without matching source files when true.
	DeleteOrphaned bool `json:"delete_orphaned,omitempty"`
}

// Type implements command.Message.
func (SyncDirectoryCommand) Type() string { return syncDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd SyncDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("lessons.sync_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// LintDirectoryCommand runs the structural checks against every lesson file
// under Directory without touching the store.
type LintDirectoryCommand struct {
	// Directory selects the filesystem path (relative or absolute) to lint.
	Directory string `json:"directory"`
	// Strict fails the command when any document reports issues.
	Strict bool `json:"strict,omitempty"`
}

// Type implements command.Message.
func (LintDirectoryCommand) Type() string { return lintDirectoryMessageType }

// Validate ensures directory input is present before handlers execute.
func (cmd LintDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("lessons.lint_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}

// RankLessonsQuery requests the hottest stored lessons by heat score.
type RankLessonsQuery struct {
	// Limit caps the number of returned entries. Zero returns the full ranking.
	Limit int `json:"limit,omitempty"`
}

// Type implements command.Message.
func (RankLessonsQuery) Type() string { return rankLessonsMessageType }

// Validate rejects negative limits before handlers execute.
func (q RankLessonsQuery) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Limit, validation.Min(0).Error("limit cannot be negative")),
	)
}

// RecordUseCommand increments the usage counter on a stored lesson.
type RecordUseCommand struct {
	// Slug identifies the lesson to mark as used.
	Slug string `json:"slug"`
}

// Type implements command.Message.
func (RecordUseCommand) Type() string { return recordUseMessageType }

// Validate ensures a slug is present before handlers execute.
func (cmd RecordUseCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slug, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("lessons.record_use.slug_required", "slug is required")
			}
			return nil
		})),
	)
}
