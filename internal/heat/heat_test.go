package heat_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-lessons/internal/heat"
	"github.com/goliatone/go-lessons/internal/lessons"
	"github.com/goliatone/go-lessons/pkg/interfaces"
)

func seedLessons(t *testing.T, svc interfaces.LessonService, seeds map[string]interfaces.LessonCreateRequest) {
	t.Helper()
	ctx := context.Background()
	for slug, req := range seeds {
		req.Slug = slug
		if req.Title == "" {
			req.Title = "Lesson " + slug
		}
		if req.Context == "" {
			req.Context = "context"
		}
		if req.Rule == "" {
			req.Rule = "rule"
		}
		if _, err := svc.Create(ctx, req); err != nil {
			t.Fatalf("seed %s: %v", slug, err)
		}
	}
}

func TestAggregatorScore(t *testing.T) {
	agg := heat.NewAggregator(nil, heat.Config{})

	tests := []struct {
		name     string
		severity string
		usedBy   int
		want     int
	}{
		{name: "low unused", severity: "low", usedBy: 0, want: 0},
		{name: "normal unused", severity: "normal", usedBy: 0, want: 1},
		{name: "high unused", severity: "high", usedBy: 0, want: 2},
		{name: "normal with usage", severity: "normal", usedBy: 3, want: 4},
		{name: "usage capped", severity: "high", usedBy: 50, want: 2 + heat.DefaultUsageCap},
		{name: "unknown severity scores as low", severity: "catastrophic", usedBy: 2, want: 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := agg.Score(&interfaces.LessonRecord{Severity: tc.severity, UsedBy: tc.usedBy})
			if got != tc.want {
				t.Fatalf("Score = %d, want %d", got, tc.want)
			}
		})
	}

	if got := agg.Score(nil); got != 0 {
		t.Fatalf("Score(nil) = %d", got)
	}
}

func TestAggregatorScoreWithCustomCap(t *testing.T) {
	agg := heat.NewAggregator(nil, heat.Config{UsageCap: 3})

	got := agg.Score(&interfaces.LessonRecord{Severity: "normal", UsedBy: 10})
	if got != 4 {
		t.Fatalf("Score = %d, want severity weight plus capped usage of 3", got)
	}
}

func TestAggregatorScoreWithUsageDisabled(t *testing.T) {
	agg := heat.NewAggregator(nil, heat.Config{UsageCap: -1})

	got := agg.Score(&interfaces.LessonRecord{Severity: "high", UsedBy: 10})
	if got != 2 {
		t.Fatalf("Score = %d, want severity weight only", got)
	}
}

func TestAggregatorRank(t *testing.T) {
	svc := lessons.NewService(lessons.NewMemoryLessonRepository())
	seedLessons(t, svc, map[string]interfaces.LessonCreateRequest{
		"quiet-low":     {Severity: "low"},
		"busy-normal":   {Severity: "normal", UsedBy: 4},
		"fresh-high":    {Severity: "high", UsedBy: 1},
		"ancient-high":  {Severity: "high", UsedBy: 30},
		"tied-normal-a": {Severity: "normal", UsedBy: 2},
		"tied-normal-b": {Severity: "normal", UsedBy: 2},
	})

	agg := heat.NewAggregator(svc, heat.Config{})

	entries, err := agg.Rank(context.Background(), 0)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}

	wantOrder := []string{
		"ancient-high",  // 2 + capped 8 = 10
		"busy-normal",   // 1 + 4 = 5
		"tied-normal-a", // 1 + 2 = 3, more uses than fresh-high
		"tied-normal-b", // slug breaks the tie with tied-normal-a
		"fresh-high",    // 2 + 1 = 3, only one use
		"quiet-low",     // 0
	}
	if len(entries) != len(wantOrder) {
		t.Fatalf("Rank returned %d entries, want %d", len(entries), len(wantOrder))
	}
	for i, want := range wantOrder {
		if entries[i].Lesson.Slug != want {
			t.Fatalf("entries[%d] = %s, want %s", i, entries[i].Lesson.Slug, want)
		}
	}

	if entries[0].Score != 10 {
		t.Fatalf("top score = %d, want 10", entries[0].Score)
	}
}

func TestAggregatorRankHonoursLimit(t *testing.T) {
	svc := lessons.NewService(lessons.NewMemoryLessonRepository())
	seedLessons(t, svc, map[string]interfaces.LessonCreateRequest{
		"alpha": {Severity: "high", UsedBy: 2},
		"beta":  {Severity: "normal"},
		"gamma": {Severity: "low"},
	})

	agg := heat.NewAggregator(svc, heat.Config{})

	entries, err := agg.Rank(context.Background(), 2)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Lesson.Slug != "alpha" {
		t.Fatalf("entries[0] = %s", entries[0].Lesson.Slug)
	}
}

func TestAggregatorRankExcludesArchived(t *testing.T) {
	svc := lessons.NewService(lessons.NewMemoryLessonRepository())
	seedLessons(t, svc, map[string]interfaces.LessonCreateRequest{
		"keep":   {Severity: "high", UsedBy: 3},
		"retire": {Severity: "high", UsedBy: 9},
	})
	if err := svc.Archive(context.Background(), "retire"); err != nil {
		t.Fatalf("archive: %v", err)
	}

	agg := heat.NewAggregator(svc, heat.Config{})

	entries, err := agg.Rank(context.Background(), 0)
	if err != nil {
		t.Fatalf("Rank returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Lesson.Slug != "keep" {
		t.Fatalf("entries = %v", entries)
	}
}
