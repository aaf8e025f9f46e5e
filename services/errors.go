package services

import (
	"errors"

	"gorm.io/gorm"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindPersistence:
		return "persistence"
	}
	return "unknown"
}

// Error is what services hand to the HTTP layer. Key is an i18n message key
// describing the problem to a user; Field names the offending input, if any.
type Error struct {
	Kind  Kind
	Op    string
	Field string
	Key   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func validation(op, field, key string) error {
	return &Error{Kind: KindValidation, Op: op, Field: field, Key: key}
}

func notFound(op, key string, err error) error {
	return &Error{Kind: KindNotFound, Op: op, Key: key, Err: err}
}

func persistence(op string, err error) error {
	return &Error{Kind: KindPersistence, Op: op, Err: err}
}

// repoErr classifies an error coming back from a repository call.
func repoErr(op, notFoundKey string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(op, notFoundKey, err)
	}
	return persistence(op, err)
}

// KindOf reports the kind of err. Errors that did not come from a service
// count as persistence failures.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindPersistence
}

// AsError unwraps err to *Error when possible.
func AsError(err error) (*Error, bool) {
	var se *Error
	ok := errors.As(err, &se)
	return se, ok
}
