package lesson_test

import (
	"testing"

	"github.com/goliatone/go-lessons/lesson"
)

func TestNormalizeSlug(t *testing.T) {
	got, err := lesson.NormalizeSlug("Prefer Table Driven Tests")
	if err != nil {
		t.Fatalf("NormalizeSlug returned error: %v", err)
	}
	if got != "prefer-table-driven-tests" {
		t.Fatalf("NormalizeSlug = %q, want prefer-table-driven-tests", got)
	}
}

func TestIsValidSlug(t *testing.T) {
	if !lesson.IsValidSlug("check-error-returns") {
		t.Fatal("expected valid slug to pass")
	}
	if lesson.IsValidSlug("Check Error Returns") {
		t.Fatal("expected spaced slug to fail")
	}
}
