package render

import "errors"

var (
	// ErrNoTemplateSource is returned by New when neither a base directory
	// nor an fs.FS was provided.
	ErrNoTemplateSource = errors.New("render: template source required, use WithFS or WithBaseDir")

	// ErrEngineNotInitialized is returned when rendering through a nil or
	// zero-value engine.
	ErrEngineNotInitialized = errors.New("render: engine not initialized")

	// ErrInvalidFilter is returned when a filter is registered without a
	// name or function.
	ErrInvalidFilter = errors.New("render: filter name and function required")

	// ErrFilterExists is returned when a filter name is already taken.
	ErrFilterExists = errors.New("render: filter already registered")
)
