package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes give lesson tooling a stable identifier for each failure class,
// independent of the wrapped error text.
const (
	textCodeValidation = "LESSON_COMMAND_INVALID_MESSAGE"
	textCodeCanceled   = "LESSON_COMMAND_CANCELED"
	textCodeTimeout    = "LESSON_COMMAND_TIMED_OUT"
	textCodeContext    = "LESSON_COMMAND_CONTEXT_ERROR"
	textCodeExecution  = "LESSON_COMMAND_FAILED"
)

// wrapValidationError tags message validation failures so callers can route
// them separately from execution failures. Already-wrapped errors pass
// through untouched to keep the original category.
func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "lesson command message rejected").
		WithTextCode(textCodeValidation)
}

// wrapContextError distinguishes cancellation from deadline expiry; both end
// up in the command category with their own text code.
func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	switch {
	case errors.Is(err, context.Canceled):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "lesson command canceled").
			WithTextCode(textCodeCanceled)
	case errors.Is(err, context.DeadlineExceeded):
		return goerrors.Wrap(err, goerrors.CategoryCommand, "lesson command timed out").
			WithTextCode(textCodeTimeout)
	default:
		return goerrors.Wrap(err, goerrors.CategoryCommand, "lesson command context error").
			WithTextCode(textCodeContext)
	}
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "lesson command failed").
		WithTextCode(textCodeExecution)
}
