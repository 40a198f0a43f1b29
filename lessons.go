package lessons

import (
	"github.com/goliatone/go-lessons/internal/di"
	"github.com/goliatone/go-lessons/internal/heat"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// LessonService exports the lesson store contract for consumers of the package.
type LessonService = interfaces.LessonService

// MarkdownService exports the markdown workflow contract.
type MarkdownService = interfaces.LessonMarkdownService

// LessonRecord exports the lesson read DTO.
type LessonRecord = interfaces.LessonRecord

// LessonCreateRequest exports the create request DTO.
type LessonCreateRequest = interfaces.LessonCreateRequest

// LessonUpdateRequest exports the update request DTO.
type LessonUpdateRequest = interfaces.LessonUpdateRequest

// LessonListFilter exports the list filter DTO.
type LessonListFilter = interfaces.LessonListFilter

// HeatEntry exports a lesson paired with its computed heat score.
type HeatEntry = heat.Entry

// HeatAggregator exports the heat score aggregator.
type HeatAggregator = heat.Aggregator

// Module represents the top level lessons runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a lessons module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Close releases resources the module opened from configuration, such as the
// database handle behind Storage.DSN.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Lessons returns the configured lesson store service.
func (m *Module) Lessons() LessonService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LessonService()
}

// Markdown returns the configured markdown workflow service. It is nil when
// the import feature is disabled.
func (m *Module) Markdown() MarkdownService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.MarkdownService()
}

// Heat returns the configured heat score aggregator.
func (m *Module) Heat() *HeatAggregator {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.HeatAggregator()
}
