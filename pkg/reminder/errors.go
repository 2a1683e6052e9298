package reminder

import "errors"

var (
	// ErrStorageNil is returned when a nil storage is provided.
	ErrStorageNil = errors.New("storage cannot be nil")

	// ErrHandlerNil is returned when a worker is created without a handler.
	ErrHandlerNil = errors.New("handler cannot be nil")

	// ErrReminderInPast is returned by Schedule when the computed reminder
	// time has already passed. Nothing is stored; the caller decides whether
	// to notify immediately or skip.
	ErrReminderInPast = errors.New("reminder time is already in the past")

	// ErrTaskNotFound is returned when a task ID does not exist in storage.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNoTaskToClaim signals that no task is due yet. Workers treat it as
	// an idle tick, not a failure.
	ErrNoTaskToClaim = errors.New("no task due to claim")

	// ErrTaskNotClaimed is returned when completing or failing a task that
	// is not in the processing state.
	ErrTaskNotClaimed = errors.New("task is not claimed for processing")
)
