package domain

import "errors"

var (
	ErrNotFound          = errors.New("resource not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrPermissionDenied  = errors.New("health data access not authorized")
	ErrSourceUnavailable = errors.New("health data source unavailable")
	ErrSyncInProgress    = errors.New("a sync is already in progress")
)
