package repository

import "errors"

// ErrNotFound indicates the requested record does not exist or is soft-deleted.
var ErrNotFound = errors.New("repository: not found")
