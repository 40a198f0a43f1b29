package lesson_test

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-lessons/lesson"
)

func TestParseSeverity(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		want    lesson.Severity
		wantErr bool
	}{
		{name: "empty defaults to normal", input: "", want: lesson.SeverityNormal},
		{name: "low", input: "low", want: lesson.SeverityLow},
		{name: "normal", input: "normal", want: lesson.SeverityNormal},
		{name: "high", input: "high", want: lesson.SeverityHigh},
		{name: "mixed case", input: " High ", want: lesson.SeverityHigh},
		{name: "unknown", input: "critical", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := lesson.ParseSeverity(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tc.input)
				}
				if !errors.Is(err, lesson.ErrSeverityInvalid) {
					t.Fatalf("expected ErrSeverityInvalid, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSeverity(%q) returned error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Fatalf("ParseSeverity(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSeverityHeatWeight(t *testing.T) {
	if got := lesson.SeverityLow.HeatWeight(); got != 0 {
		t.Fatalf("low heat weight = %d, want 0", got)
	}
	if got := lesson.SeverityNormal.HeatWeight(); got != 1 {
		t.Fatalf("normal heat weight = %d, want 1", got)
	}
	if got := lesson.SeverityHigh.HeatWeight(); got != 2 {
		t.Fatalf("high heat weight = %d, want 2", got)
	}
}

func TestRequiredSectionsOrder(t *testing.T) {
	want := []string{"Context", "Rule", "Example", "Guardrails", "Tags"}
	got := lesson.RequiredSections()
	if len(got) != len(want) {
		t.Fatalf("expected %d sections, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("section %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLessonArchivedAndTags(t *testing.T) {
	l := &lesson.Lesson{Tags: []string{"golang", "Testing"}}
	if l.Archived() {
		t.Fatal("expected lesson to be active")
	}
	now := time.Now()
	l.ArchivedAt = &now
	if !l.Archived() {
		t.Fatal("expected lesson to be archived")
	}

	if !l.HasTag("testing") {
		t.Fatal("expected HasTag to match case-insensitively")
	}
	if l.HasTag("performance") {
		t.Fatal("unexpected tag match")
	}
}
