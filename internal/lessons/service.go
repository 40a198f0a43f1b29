package lessons

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/lesson"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// Service implements interfaces.LessonService over a Repository.
type Service struct {
	repo   Repository
	logger interfaces.Logger
	now    func() time.Time
}

var _ interfaces.LessonService = (*Service)(nil)

// ServiceOption customises service construction.
type ServiceOption func(*Service)

// WithLogger injects the store logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source. Tests use this for stable timestamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs the lesson store service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		logger: logging.NoOp(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists a new lesson record.
func (s *Service) Create(ctx context.Context, req interfaces.LessonCreateRequest) (*interfaces.LessonRecord, error) {
	severity, err := lesson.ParseSeverity(req.Severity)
	if err != nil {
		return nil, err
	}

	slug := strings.TrimSpace(req.Slug)
	if slug == "" {
		return nil, lesson.ErrSlugRequired
	}
	if !lesson.IsValidSlug(slug) {
		return nil, lesson.ErrSlugInvalid
	}

	now := s.now().UTC()
	record := &Lesson{
		ID:         uuid.New(),
		Slug:       slug,
		Title:      strings.TrimSpace(req.Title),
		Severity:   severity,
		UsedBy:     req.UsedBy,
		Tags:       append([]string(nil), req.Tags...),
		Context:    strings.TrimSpace(req.Context),
		Rule:       strings.TrimSpace(req.Rule),
		Example:    strings.TrimSpace(req.Example),
		Guardrails: strings.TrimSpace(req.Guardrails),
		Tip:        strings.TrimSpace(req.Tip),
		SourcePath: strings.TrimSpace(req.SourcePath),
		Checksum:   strings.TrimSpace(req.Checksum),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := record.Validate(); err != nil {
		return nil, fmt.Errorf("lesson create: %w", err)
	}

	if existing, err := s.repo.GetBySlug(ctx, slug); err == nil && existing != nil {
		return nil, lesson.ErrSlugExists
	}

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}

	logging.WithLessonContext(s.logger, created.SourcePath, created.Slug, "create").
		Info("lesson.store.created", "severity", created.Severity.String())
	return toRecord(created), nil
}

// Get retrieves a lesson by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*interfaces.LessonRecord, error) {
	if id == uuid.Nil {
		return nil, lesson.ErrIDRequired
	}
	stored, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRecord(stored), nil
}

// GetBySlug retrieves a lesson by its slug.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*interfaces.LessonRecord, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, lesson.ErrSlugRequired
	}
	stored, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return toRecord(stored), nil
}

// List returns lessons matching the filter, sorted by slug.
func (s *Service) List(ctx context.Context, filter interfaces.LessonListFilter) ([]*interfaces.LessonRecord, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	var severity lesson.Severity
	if strings.TrimSpace(filter.Severity) != "" {
		severity, err = lesson.ParseSeverity(filter.Severity)
		if err != nil {
			return nil, err
		}
	}

	out := make([]*interfaces.LessonRecord, 0, len(stored))
	for _, rec := range stored {
		if rec.Archived() && !filter.IncludeArchived {
			continue
		}
		if severity != "" && rec.Severity != severity {
			continue
		}
		if filter.Tag != "" && !rec.HasTag(filter.Tag) {
			continue
		}
		out = append(out, toRecord(rec))
	}

	sortRecords(out)
	return out, nil
}

// Update applies the request to the stored lesson. Empty text fields keep
// their stored values, so a severity-only update leaves the prose sections
// untouched. The slug is immutable; use Archive plus Create to rename a lesson.
func (s *Service) Update(ctx context.Context, req interfaces.LessonUpdateRequest) (*interfaces.LessonRecord, error) {
	if req.ID == uuid.Nil {
		return nil, lesson.ErrIDRequired
	}

	stored, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Severity != "" {
		severity, err := lesson.ParseSeverity(req.Severity)
		if err != nil {
			return nil, err
		}
		stored.Severity = severity
	}
	if strings.TrimSpace(req.Title) != "" {
		stored.Title = strings.TrimSpace(req.Title)
	}
	if req.UsedBy != nil {
		if *req.UsedBy < 0 {
			return nil, lesson.ErrUsageNegative
		}
		stored.UsedBy = *req.UsedBy
	}
	if req.Tags != nil {
		stored.Tags = append([]string(nil), req.Tags...)
	}
	if strings.TrimSpace(req.Context) != "" {
		stored.Context = strings.TrimSpace(req.Context)
	}
	if strings.TrimSpace(req.Rule) != "" {
		stored.Rule = strings.TrimSpace(req.Rule)
	}
	if strings.TrimSpace(req.Example) != "" {
		stored.Example = strings.TrimSpace(req.Example)
	}
	if strings.TrimSpace(req.Guardrails) != "" {
		stored.Guardrails = strings.TrimSpace(req.Guardrails)
	}
	if strings.TrimSpace(req.Tip) != "" {
		stored.Tip = strings.TrimSpace(req.Tip)
	}
	if strings.TrimSpace(req.SourcePath) != "" {
		stored.SourcePath = strings.TrimSpace(req.SourcePath)
	}
	if strings.TrimSpace(req.Checksum) != "" {
		stored.Checksum = strings.TrimSpace(req.Checksum)
	}
	stored.UpdatedAt = s.now().UTC()

	if err := stored.Validate(); err != nil {
		return nil, fmt.Errorf("lesson update: %w", err)
	}

	updated, err := s.repo.Update(ctx, stored)
	if err != nil {
		return nil, err
	}

	logging.WithLessonContext(s.logger, updated.SourcePath, updated.Slug, "update").
		Info("lesson.store.updated")
	return toRecord(updated), nil
}

// RecordUse increments the usage counter for a lesson. Archived lessons
// cannot accrue usage.
func (s *Service) RecordUse(ctx context.Context, slug string) (*interfaces.LessonRecord, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, lesson.ErrSlugRequired
	}

	stored, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if stored.Archived() {
		return nil, lesson.ErrArchived
	}

	stored.UsedBy++
	stored.UpdatedAt = s.now().UTC()

	updated, err := s.repo.Update(ctx, stored)
	if err != nil {
		return nil, err
	}

	logging.WithLessonContext(s.logger, updated.SourcePath, updated.Slug, "record_use").
		Debug("lesson.store.use_recorded", "used_by", updated.UsedBy)
	return toRecord(updated), nil
}

// Archive retires a lesson from the active set. Archiving is idempotent.
func (s *Service) Archive(ctx context.Context, slug string) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return lesson.ErrSlugRequired
	}

	stored, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if stored.Archived() {
		return nil
	}

	now := s.now().UTC()
	stored.ArchivedAt = &now
	stored.UpdatedAt = now

	if _, err := s.repo.Update(ctx, stored); err != nil {
		return err
	}

	logging.WithLessonContext(s.logger, stored.SourcePath, stored.Slug, "archive").
		Info("lesson.store.archived")
	return nil
}

func toRecord(l *Lesson) *interfaces.LessonRecord {
	if l == nil {
		return nil
	}
	return &interfaces.LessonRecord{
		ID:         l.ID,
		Slug:       l.Slug,
		Title:      l.Title,
		Severity:   l.Severity.String(),
		UsedBy:     l.UsedBy,
		Tags:       append([]string(nil), l.Tags...),
		Context:    l.Context,
		Rule:       l.Rule,
		Example:    l.Example,
		Guardrails: l.Guardrails,
		Tip:        l.Tip,
		SourcePath: l.SourcePath,
		Checksum:   l.Checksum,
		Archived:   l.Archived(),
	}
}

func sortRecords(records []*interfaces.LessonRecord) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Slug < records[j].Slug
	})
}
