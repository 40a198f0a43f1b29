package lesson

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSlugRequired     = errors.New("lesson: slug is required")
	ErrSlugInvalid      = errors.New("lesson: slug contains invalid characters")
	ErrSlugExists       = errors.New("lesson: slug already exists")
	ErrTitleRequired    = errors.New("lesson: title is required")
	ErrSeverityInvalid  = errors.New("lesson: severity is invalid")
	ErrUsageNegative    = errors.New("lesson: used_by counter cannot be negative")
	ErrContextRequired  = errors.New("lesson: context section is required")
	ErrRuleRequired     = errors.New("lesson: rule section is required")
	ErrIDRequired       = errors.New("lesson: id is required")
	ErrArchived         = errors.New("lesson: lesson is archived")
	ErrNotFound         = errors.New("lesson: not found")
	ErrStorageUnbound   = errors.New("lesson: storage provider not configured")
	ErrSectionsRequired = errors.New("lesson: required sections are missing")
)

// NotFoundError reports a missing lesson lookup with key context.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return ErrNotFound.Error()
	}
	resource := strings.TrimSpace(e.Resource)
	if resource == "" {
		resource = "lesson"
	}
	if strings.TrimSpace(e.Key) == "" {
		return fmt.Sprintf("%s not found", resource)
	}
	return fmt.Sprintf("%s not found: %s", resource, e.Key)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// InvalidSeverityError carries the rejected severity value.
type InvalidSeverityError struct {
	Value string
}

func (e *InvalidSeverityError) Error() string {
	if e == nil || strings.TrimSpace(e.Value) == "" {
		return ErrSeverityInvalid.Error()
	}
	return fmt.Sprintf("%s: %q", ErrSeverityInvalid.Error(), e.Value)
}

func (e *InvalidSeverityError) Unwrap() error {
	return ErrSeverityInvalid
}
