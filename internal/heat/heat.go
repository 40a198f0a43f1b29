// Package heat derives an attention score for stored lessons. Severity
// contributes a fixed weight (+0 low, +1 normal, +2 high) and the usage
// counter contributes a capped bonus so a single stale-but-popular lesson
// cannot drown out recent high-severity entries.
package heat

import (
	"context"
	"sort"

	"github.com/goliatone/go-lessons/internal/logging"
	"github.com/goliatone/go-lessons/lesson"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

// DefaultUsageCap bounds the usage contribution to a lesson's heat score.
const DefaultUsageCap = 8

// Config tunes the aggregation.
type Config struct {
	// UsageCap limits how much the used_by counter can add to a score.
	// Zero applies DefaultUsageCap; negative disables the usage component.
	UsageCap int
	Logger   interfaces.Logger
}

// Entry pairs a lesson with its computed heat score.
type Entry struct {
	Lesson *interfaces.LessonRecord
	Score  int
}

// Aggregator computes heat scores across the lesson store.
type Aggregator struct {
	lessons  interfaces.LessonService
	usageCap int
	logger   interfaces.Logger
}

// NewAggregator constructs an aggregator over the given lesson service.
func NewAggregator(lessons interfaces.LessonService, cfg Config) *Aggregator {
	cap := cfg.UsageCap
	if cap == 0 {
		cap = DefaultUsageCap
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Aggregator{
		lessons:  lessons,
		usageCap: cap,
		logger:   logger,
	}
}

// Score computes the heat score for a single lesson record.
func (a *Aggregator) Score(record *interfaces.LessonRecord) int {
	if record == nil {
		return 0
	}
	severity, err := lesson.ParseSeverity(record.Severity)
	if err != nil {
		severity = lesson.SeverityLow
	}
	return severity.HeatWeight() + a.usageBonus(record.UsedBy)
}

// Rank returns the hottest active lessons, highest score first. Ties are
// broken by usage count, then slug, so the ordering is deterministic. A
// non-positive limit returns the full ranking.
func (a *Aggregator) Rank(ctx context.Context, limit int) ([]Entry, error) {
	records, err := a.lessons.List(ctx, interfaces.LessonListFilter{})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(records))
	for _, record := range records {
		entries = append(entries, Entry{
			Lesson: record,
			Score:  a.Score(record),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if entries[i].Lesson.UsedBy != entries[j].Lesson.UsedBy {
			return entries[i].Lesson.UsedBy > entries[j].Lesson.UsedBy
		}
		return entries[i].Lesson.Slug < entries[j].Lesson.Slug
	})

	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}

	a.logger.Debug("lesson.heat.ranked", "entry_count", len(entries), "limit", limit)
	return entries, nil
}

func (a *Aggregator) usageBonus(usedBy int) int {
	if a.usageCap < 0 || usedBy <= 0 {
		return 0
	}
	if usedBy > a.usageCap {
		return a.usageCap
	}
	return usedBy
}
