package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("conflict")
	ErrTransferWindowClosed  = errors.New("transfer window closed")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
