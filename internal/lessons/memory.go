package lessons

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/goliatone/go-lessons/lesson"
)

// MemoryLessonRepository is an in-memory implementation for scaffolding and tests.
type MemoryLessonRepository struct {
	mu        sync.RWMutex
	records   map[uuid.UUID]*Lesson
	slugIndex map[string]uuid.UUID
}

// NewMemoryLessonRepository creates an empty in-memory lesson repository.
func NewMemoryLessonRepository() *MemoryLessonRepository {
	return &MemoryLessonRepository{
		records:   make(map[uuid.UUID]*Lesson),
		slugIndex: make(map[string]uuid.UUID),
	}
}

// Create inserts the supplied lesson.
func (m *MemoryLessonRepository) Create(_ context.Context, record *Lesson) (*Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.slugIndex[record.Slug]; exists {
		return nil, lesson.ErrSlugExists
	}

	copied := cloneLesson(record)
	m.records[copied.ID] = copied
	m.slugIndex[copied.Slug] = copied.ID
	return cloneLesson(copied), nil
}

// GetByID retrieves a lesson by identifier.
func (m *MemoryLessonRepository) GetByID(_ context.Context, id uuid.UUID) (*Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, &lesson.NotFoundError{Resource: "lesson", Key: id.String()}
	}
	return cloneLesson(rec), nil
}

// GetBySlug retrieves a lesson by slug, returning NotFoundError when absent.
func (m *MemoryLessonRepository) GetBySlug(_ context.Context, slug string) (*Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.slugIndex[slug]
	if !ok {
		return nil, &lesson.NotFoundError{Resource: "lesson", Key: slug}
	}
	return cloneLesson(m.records[id]), nil
}

// List returns all stored lessons.
func (m *MemoryLessonRepository) List(_ context.Context) ([]*Lesson, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Lesson, 0, len(m.records))
	for _, rec := range m.records {
		out = append(out, cloneLesson(rec))
	}
	return out, nil
}

// Update replaces the stored lesson matching the record's ID.
func (m *MemoryLessonRepository) Update(_ context.Context, record *Lesson) (*Lesson, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[record.ID]
	if !ok {
		return nil, &lesson.NotFoundError{Resource: "lesson", Key: record.ID.String()}
	}

	copied := cloneLesson(record)
	copied.Slug = existing.Slug
	copied.CreatedAt = existing.CreatedAt
	m.records[copied.ID] = copied
	return cloneLesson(copied), nil
}

func cloneLesson(src *Lesson) *Lesson {
	if src == nil {
		return nil
	}

	copied := *src
	if len(src.Tags) > 0 {
		copied.Tags = append([]string(nil), src.Tags...)
	}
	if src.ArchivedAt != nil {
		archived := *src.ArchivedAt
		copied.ArchivedAt = &archived
	}
	return &copied
}
