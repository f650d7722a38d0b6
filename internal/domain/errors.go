package domain

import "errors"

// ErrorKind closed set of failure categories surfaced by the core
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindConfiguration
	KindSlotConflict
	KindInvalidTransition
	KindNotFound
	KindAlreadyExists
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConfiguration:
		return "configuration"
	case KindSlotConflict:
		return "slot_conflict"
	case KindInvalidTransition:
		return "invalid_transition"
	case KindNotFound:
		return "not_found"
	case KindAlreadyExists:
		return "already_exists"
	default:
		return "unknown"
	}
}

// Sentinels for each kind. Package-level errors wrap one of these with %w.
var (
	ErrValidation        = errors.New("validation error")
	ErrConfiguration     = errors.New("configuration error")
	ErrSlotConflict      = errors.New("slot conflict")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
)

// KindOf returns the kind carried by err, KindUnknown if none
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindUnknown
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrConfiguration):
		return KindConfiguration
	case errors.Is(err, ErrSlotConflict):
		return KindSlotConflict
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrAlreadyExists):
		return KindAlreadyExists
	default:
		return KindUnknown
	}
}
