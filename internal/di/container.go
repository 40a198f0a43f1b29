package di

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-lessons/internal/heat"
	"github.com/goliatone/go-lessons/internal/lessons"
	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/internal/logging/console"
	"github.com/goliatone/go-lessons/internal/logging/gologger"
	"github.com/goliatone/go-lessons/internal/markdown"
	"github.com/goliatone/go-lessons/internal/runtimeconfig"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// Container wires module dependencies. Memory-backed repositories are the
// default; supplying a bun.DB switches storage to the relational provider.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	ownsBunDB     bool
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider

	lessonRepo lessons.Repository

	lessonSvc   interfaces.LessonService
	markdownSvc interfaces.LessonMarkdownService
	parser      interfaces.MarkdownParser
	aggregator  *heat.Aggregator
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds a relational database; lesson storage switches from the
// in-memory repository to the bun-backed one.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the default repository cache bindings.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the logger provider resolved from configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithLessonRepository overrides the default lesson repository binding.
func WithLessonRepository(repo lessons.Repository) Option {
	return func(c *Container) {
		c.lessonRepo = repo
	}
}

// WithLessonService overrides the default lesson service binding.
func WithLessonService(svc interfaces.LessonService) Option {
	return func(c *Container) {
		c.lessonSvc = svc
	}
}

// WithMarkdownService overrides the default markdown workflow binding.
func WithMarkdownService(svc interfaces.LessonMarkdownService) Option {
	return func(c *Container) {
		c.markdownSvc = svc
	}
}

// WithMarkdownParser overrides the default Goldmark parser binding.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		c.parser = parser
	}
}

// NewContainer creates a container with the provided configuration.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:   cfg,
		cacheTTL: cacheTTL,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configureStorage(); err != nil {
		return nil, err
	}
	if err := c.configureCacheDefaults(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("lessons container: configure cache: %w", err)
	}
	c.configureRepositories()

	if c.lessonSvc == nil {
		c.lessonSvc = lessons.NewService(c.lessonRepo,
			lessons.WithLogger(logging.StoreLogger(c.loggerProvider)),
		)
	}

	if c.markdownSvc == nil && cfg.Features.Import {
		svc, err := markdown.NewService(markdown.Config{
			BasePath:  cfg.Lessons.Dir,
			Pattern:   cfg.Lessons.Pattern,
			Recursive: cfg.Lessons.Recursive,
			Parser: interfaces.ParseOptions{
				Extensions: cfg.Markdown.Extensions,
				Sanitize:   cfg.Markdown.Sanitize,
				HardWraps:  cfg.Markdown.HardWraps,
				SafeMode:   cfg.Markdown.SafeMode,
			},
			Lessons:         c.lessonSvc,
			Logger:          logging.MarkdownLogger(c.loggerProvider),
			ImportLogger:    logging.ImporterLogger(c.loggerProvider),
			DefaultSeverity: cfg.DefaultSeverity,
		}, c.parser)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.markdownSvc = svc
	}

	if c.aggregator == nil {
		c.aggregator = heat.NewAggregator(c.lessonSvc, heat.Config{
			UsageCap: cfg.Heat.UsageCap,
			Logger:   logging.HeatLogger(c.loggerProvider),
		})
	}

	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	if !c.Config.Features.Logger {
		return nil
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	default:
		minLevel := console.ParseLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{
			MinLevel: &minLevel,
		})
	}
	return nil
}

// configureStorage opens the configured DSN when the bun provider is selected
// and no database handle was supplied. The container owns handles it opens
// and closes them in Close.
func (c *Container) configureStorage() error {
	if c.bunDB != nil || c.lessonRepo != nil {
		return nil
	}
	if strings.ToLower(strings.TrimSpace(c.Config.Storage.Provider)) != "bun" {
		return nil
	}

	dsn := strings.TrimSpace(c.Config.Storage.DSN)
	if dsn == "" {
		return runtimeconfig.ErrStorageDSNRequired
	}

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return fmt.Errorf("lessons container: open storage: %w", err)
	}
	bunDB := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := lessons.CreateSchema(context.Background(), bunDB); err != nil {
		_ = bunDB.Close()
		return fmt.Errorf("lessons container: create schema: %w", err)
	}

	c.bunDB = bunDB
	c.ownsBunDB = true
	return nil
}

func (c *Container) configureCacheDefaults() error {
	if !c.Config.Cache.Enabled {
		return nil
	}

	if c.cacheService == nil {
		cfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cfg)
		if err != nil {
			return err
		}
		c.cacheService = service
	}

	if c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
	return nil
}

func (c *Container) configureRepositories() {
	if c.lessonRepo != nil {
		return
	}
	if c.bunDB != nil {
		c.lessonRepo = lessons.NewBunLessonRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return
	}
	c.lessonRepo = lessons.NewMemoryLessonRepository()
}

// Close releases resources the container opened itself, such as the database
// handle behind a configured storage DSN. Handles supplied through WithBunDB
// stay open; their owner closes them.
func (c *Container) Close() error {
	if c == nil || !c.ownsBunDB || c.bunDB == nil {
		return nil
	}
	return c.bunDB.Close()
}

// LoggerProvider exposes the resolved logger provider, which may be nil when
// the logging feature is disabled and no override was supplied.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// LessonRepository exposes the configured lesson repository.
func (c *Container) LessonRepository() lessons.Repository {
	return c.lessonRepo
}

// LessonService returns the configured lesson service.
func (c *Container) LessonService() interfaces.LessonService {
	return c.lessonSvc
}

// MarkdownService returns the configured markdown workflow service. It is nil
// when the import feature is disabled and no override was supplied.
func (c *Container) MarkdownService() interfaces.LessonMarkdownService {
	return c.markdownSvc
}

// HeatAggregator returns the configured heat score aggregator.
func (c *Container) HeatAggregator() *heat.Aggregator {
	return c.aggregator
}
