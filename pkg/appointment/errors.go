package appointment

import "errors"

var (
	// ErrMissingField is returned when a record lacks a field the
	// appointment message requires. The wrapped message carries the dotted
	// path of the field, e.g. "appointment.status".
	ErrMissingField = errors.New("appointment: missing required field")

	// ErrInvalidStatus is returned when a record carries a status outside
	// the known set.
	ErrInvalidStatus = errors.New("appointment: invalid status")
)
