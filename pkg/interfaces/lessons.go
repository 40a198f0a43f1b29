package interfaces

import (
	"context"

	"github.com/google/uuid"
)

// LessonRecord is the stored projection of a micro-lesson exposed through the
// public contract. Internal packages map their persistence models onto this
// shape so consumers never depend on storage concerns.
type LessonRecord struct {
	ID         uuid.UUID
	Slug       string
	Title      string
	Severity   string
	UsedBy     int
	Tags       []string
	Context    string
	Rule       string
	Example    string
	Guardrails string
	Tip        string
	SourcePath string
	Checksum   string
	Archived   bool
}

// LessonCreateRequest captures the information required to persist a lesson.
type LessonCreateRequest struct {
	Slug       string
	Title      string
	Severity   string
	UsedBy     int
	Tags       []string
	Context    string
	Rule       string
	Example    string
	Guardrails string
	Tip        string
	SourcePath string
	Checksum   string
}

// LessonUpdateRequest mirrors LessonCreateRequest for existing records.
type LessonUpdateRequest struct {
	ID         uuid.UUID
	Title      string
	Severity   string
	UsedBy     *int
	Tags       []string
	Context    string
	Rule       string
	Example    string
	Guardrails string
	Tip        string
	SourcePath string
	Checksum   string
}

// LessonListFilter narrows List results.
type LessonListFilter struct {
	Severity        string
	Tag             string
	IncludeArchived bool
}

// LessonService exposes the lesson store use-cases consumed by the importer,
// the heat aggregator, and command handlers.
type LessonService interface {
	Create(ctx context.Context, req LessonCreateRequest) (*LessonRecord, error)
	Get(ctx context.Context, id uuid.UUID) (*LessonRecord, error)
	GetBySlug(ctx context.Context, slug string) (*LessonRecord, error)
	List(ctx context.Context, filter LessonListFilter) ([]*LessonRecord, error)
	Update(ctx context.Context, req LessonUpdateRequest) (*LessonRecord, error)
	RecordUse(ctx context.Context, slug string) (*LessonRecord, error)
	Archive(ctx context.Context, slug string) error
}
