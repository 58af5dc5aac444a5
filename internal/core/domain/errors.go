package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindInvalid      ErrorKind = "invalid"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
)

// Error is a client-facing failure. Reason is the machine-readable cause
// within the kind, Field names the offending input when there is one.
type Error struct {
	Kind    ErrorKind
	Reason  string
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches on kind and reason so that copies carrying a different
// message still compare equal to the sentinel they were built from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Reason == t.Reason
}

func newError(kind ErrorKind, reason, field, msg string) *Error {
	return &Error{Kind: kind, Reason: reason, Field: field, Message: msg}
}

var (
	ErrPollNotFound       = newError(KindNotFound, "poll", "poll_id", "poll not found")
	ErrQuestionNotFound   = newError(KindNotFound, "question", "question_id", "question not found")
	ErrRespondentNotFound = newError(KindNotFound, "respondent", "respondent_id", "respondent not found")
	ErrOptionNotFound     = newError(KindNotFound, "option", "options", "option not found")

	ErrDuplicateAnswer = newError(KindConflict, "duplicate_answer", "question_id", "respondent has already answered this question")
	ErrOptionInUse     = newError(KindConflict, "option_in_use", "options", "option has recorded answers and cannot be removed")

	ErrOptionCount    = newError(KindInvalid, "option_count", "selected_option_ids", "exactly one option must be selected")
	ErrOptionMismatch = newError(KindInvalid, "option_mismatch", "selected_option_ids", "option does not belong to this question")
	ErrMissingOptions = newError(KindInvalid, "missing_options", "selected_option_ids", "at least one option must be selected")
	ErrMissingText    = newError(KindInvalid, "missing_text", "free_text", "free text answer is required")

	ErrUnauthorized = newError(KindUnauthorized, "unauthorized", "", "authentication required")
	ErrForbidden    = newError(KindForbidden, "forbidden", "", "admin privileges required")
)

// InvalidField reports a malformed payload field.
func InvalidField(field, format string, args ...any) *Error {
	return newError(KindInvalid, "invalid_field", field, fmt.Sprintf(format, args...))
}

// WithMessage returns a copy of e carrying a more specific message.
func (e *Error) WithMessage(format string, args ...any) *Error {
	cp := *e
	cp.Message = fmt.Sprintf(format, args...)
	return &cp
}

// KindOf classifies err. Errors that are not *Error have no kind.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
