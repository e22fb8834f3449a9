package repository

import "errors"

// Common repository errors
var (
	// ErrEmptyKey is returned when a snapshot key is blank
	ErrEmptyKey = errors.New("snapshot key is empty")

	// ErrCorruptSnapshot is returned when a stored payload cannot be decoded
	ErrCorruptSnapshot = errors.New("snapshot payload is corrupt")

	// ErrUnknownBackend is returned by Open for an unsupported backend name
	ErrUnknownBackend = errors.New("unknown storage backend")
)
