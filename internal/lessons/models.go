package lessons

import "github.com/goliatone/go-lessons/lesson"

type (
	Lesson   = lesson.Lesson
	Severity = lesson.Severity
)
