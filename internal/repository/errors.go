package repository

import "errors"

// ErrNotFound is wrapped by implementations when a lookup matches no row,
// letting services distinguish absence from a store failure (which must
// fail closed).
var ErrNotFound = errors.New("not found")
