package services

import "errors"

var (
	// ErrValidation maps to HTTP 400.
	ErrValidation = errors.New("validation failed")
	// ErrAuth maps to HTTP 401. Wrong codes and unknown subjects both
	// surface as ErrAuth so callers cannot probe for subject existence.
	ErrAuth = errors.New("not authorized")
	// ErrNotFound maps to HTTP 404.
	ErrNotFound = errors.New("not found")
)
