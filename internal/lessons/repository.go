package lessons

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository abstracts lesson persistence so the service can run against the
// in-memory implementation in tests and the bun-backed one in production.
type Repository interface {
	Create(ctx context.Context, record *Lesson) (*Lesson, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Lesson, error)
	GetBySlug(ctx context.Context, slug string) (*Lesson, error)
	List(ctx context.Context) ([]*Lesson, error)
	Update(ctx context.Context, record *Lesson) (*Lesson, error)
}

// NewLessonRepository binds the lesson model to go-repository-bun handlers.
func NewLessonRepository(db *bun.DB) repository.Repository[*Lesson] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Lesson]{
		NewRecord: func() *Lesson { return &Lesson{} },
		GetID: func(l *Lesson) uuid.UUID {
			return l.ID
		},
		SetID: func(l *Lesson, id uuid.UUID) {
			l.ID = id
		},
		GetIdentifier: func() string {
			return "slug"
		},
		GetIdentifierValue: func(l *Lesson) string {
			return l.Slug
		},
	})
}
