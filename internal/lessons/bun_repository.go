package lessons

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-lessons/lesson"
)

// BunLessonRepository persists lessons through go-repository-bun.
type BunLessonRepository struct {
	repo repository.Repository[*Lesson]
}

func NewBunLessonRepository(db *bun.DB) *BunLessonRepository {
	return NewBunLessonRepositoryWithCache(db, nil, nil)
}

// NewBunLessonRepositoryWithCache constructs a lesson repository with optional caching.
func NewBunLessonRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunLessonRepository {
	base := NewLessonRepository(db)
	wrapped := wrapWithCache(base, cacheService, keySerializer)
	return &BunLessonRepository{repo: wrapped}
}

func (r *BunLessonRepository) Create(ctx context.Context, record *Lesson) (*Lesson, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("lesson repository create: %w", err)
	}
	return created, nil
}

func (r *BunLessonRepository) GetByID(ctx context.Context, id uuid.UUID) (*Lesson, error) {
	result, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return result, nil
}

func (r *BunLessonRepository) GetBySlug(ctx context.Context, slug string) (*Lesson, error) {
	result, err := r.repo.GetByIdentifier(ctx, slug)
	if err != nil {
		return nil, mapRepositoryError(err, slug)
	}
	return result, nil
}

func (r *BunLessonRepository) List(ctx context.Context) ([]*Lesson, error) {
	records, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("lesson repository list: %w", err)
	}
	return records, nil
}

func (r *BunLessonRepository) Update(ctx context.Context, record *Lesson) (*Lesson, error) {
	updated, err := r.repo.Update(ctx, record,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns(
			"title",
			"severity",
			"used_by",
			"tags",
			"context",
			"rule",
			"example",
			"guardrails",
			"tip",
			"source_path",
			"checksum",
			"archived_at",
			"updated_at",
		),
	)
	if err != nil {
		return nil, mapRepositoryError(err, record.ID.String())
	}
	return updated, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &lesson.NotFoundError{
			Resource: "lesson",
			Key:      key,
		}
	}
	return fmt.Errorf("lesson repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
