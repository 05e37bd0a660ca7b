package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrRunInProgress         = errors.New("pipeline run already in progress")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
