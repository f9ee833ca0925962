package credentials

import "errors"

var (
	// ErrConfigInvalid is returned when any of host, username or password is empty.
	ErrConfigInvalid = errors.New("connection config invalid")

	// ErrNotFound is returned when no credentials have been stored yet.
	ErrNotFound = errors.New("credentials not found")
)
