package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-lessons/lesson"
)

// ErrLessonsDirRequired indicates a missing lesson directory when ingestion is enabled.
var ErrLessonsDirRequired = errors.New("lessons config: lessons directory is required when ingestion is enabled")

// ErrDefaultSeverityInvalid indicates an unknown default severity value.
var ErrDefaultSeverityInvalid = errors.New("lessons config: default severity is invalid")

// ErrStorageProviderUnknown indicates an unsupported storage provider identifier.
var ErrStorageProviderUnknown = errors.New("lessons config: storage provider is invalid")

// ErrStorageDSNRequired indicates the bun provider was selected without a DSN
// or a pre-built database handle.
var ErrStorageDSNRequired = errors.New("lessons config: storage dsn is required for the bun provider")

// ErrCacheRequiresBunStorage ensures the repository cache only wraps the bun provider.
var ErrCacheRequiresBunStorage = errors.New("lessons config: cache requires the bun storage provider")

var ErrLoggingProviderRequired = errors.New("lessons config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("lessons config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("lessons config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("lessons config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the lessons module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled         bool
	DefaultSeverity string
	Lessons         LessonsConfig
	Storage         StorageConfig
	Cache           CacheConfig
	Markdown        MarkdownConfig
	Heat            HeatConfig
	Features        Features
	Commands        CommandsConfig
	Logging         LoggingConfig
}

// LessonsConfig captures filesystem layout for lesson ingestion.
type LessonsConfig struct {
	Dir       string
	Pattern   string
	Recursive bool
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig captures repository cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// MarkdownConfig mirrors interfaces.ParseOptions for runtime configuration.
type MarkdownConfig struct {
	Extensions []string
	Sanitize   bool
	HardWraps  bool
	SafeMode   bool
}

// HeatConfig tunes heat score aggregation.
type HeatConfig struct {
	// UsageCap limits the usage bonus on a heat score. Zero applies the
	// package default; negative disables the usage component entirely.
	UsageCap int
}

// Features toggles module functionality.
type Features struct {
	Import bool
	Logger bool
}

// CommandsConfig captures optional command-layer behaviour.
type CommandsConfig struct {
	// Enabled gates the command handlers; disabling it turns every lesson
	// command into an error without touching the underlying services.
	Enabled bool
	// Timeout bounds each command execution. Zero keeps the handler default.
	Timeout time.Duration
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for embedding hosts.
func DefaultConfig() Config {
	return Config{
		Enabled:         true,
		DefaultSeverity: string(lesson.SeverityNormal),
		Lessons: LessonsConfig{
			Dir:       "lessons",
			Pattern:   "*.md",
			Recursive: true,
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			DefaultTTL: time.Minute,
		},
		Markdown: MarkdownConfig{},
		Heat:     HeatConfig{},
		Features: Features{
			Import: true,
		},
		Commands: CommandsConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Features.Import {
		if strings.TrimSpace(cfg.Lessons.Dir) == "" {
			return ErrLessonsDirRequired
		}
	}
	if severity := strings.TrimSpace(cfg.DefaultSeverity); severity != "" {
		if !lesson.Severity(strings.ToLower(severity)).Valid() {
			return fmt.Errorf("%w: %s", ErrDefaultSeverityInvalid, severity)
		}
	}
	provider := normalizeProvider(cfg.Storage.Provider)
	if provider != "" && !isSupportedStorage(provider) {
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, provider)
	}
	if cfg.Cache.Enabled && provider != "bun" {
		return ErrCacheRequiresBunStorage
	}
	if cfg.Features.Logger {
		logProvider := normalizeProvider(cfg.Logging.Provider)
		if logProvider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(logProvider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, logProvider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if logProvider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedStorage(provider string) bool {
	switch provider {
	case "memory", "bun":
		return true
	default:
		return false
	}
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
