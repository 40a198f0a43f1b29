package lesson

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate enforces the structural invariants a stored lesson must satisfy:
// a valid slug, a title, one of the three severity classes, and a
// non-negative usage counter. Context and Rule are the two prose sections a
// lesson cannot function without; Example, Guardrails, and Tip may be empty.
func (l *Lesson) Validate() error {
	return validation.ValidateStruct(l,
		validation.Field(&l.Slug, validation.Required.Error(ErrSlugRequired.Error()), validation.By(func(any) error {
			if !IsValidSlug(l.Slug) {
				return ErrSlugInvalid
			}
			return nil
		})),
		validation.Field(&l.Title, validation.Required.Error(ErrTitleRequired.Error())),
		validation.Field(&l.Severity, validation.By(func(any) error {
			if !l.Severity.Valid() {
				return &InvalidSeverityError{Value: string(l.Severity)}
			}
			return nil
		})),
		validation.Field(&l.UsedBy, validation.Min(0).Error(ErrUsageNegative.Error())),
		validation.Field(&l.Context, validation.Required.Error(ErrContextRequired.Error())),
		validation.Field(&l.Rule, validation.Required.Error(ErrRuleRequired.Error())),
	)
}
