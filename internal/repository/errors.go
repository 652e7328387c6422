// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// directory service to tell a missing record apart from a store failure.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no row matches the requested id. The
// per-entity errors below wrap it so callers can match either.
var ErrNotFound = errors.New("not found")

var (
	ErrVenueNotFound  = fmt.Errorf("venue %w", ErrNotFound)
	ErrArtistNotFound = fmt.Errorf("artist %w", ErrNotFound)
)

// ErrDanglingShow signals a show whose artist or venue no longer resolves.
// Referential integrity makes this unreachable in a healthy store; seeing it
// means the data is inconsistent, not that the caller did something wrong.
var ErrDanglingShow = errors.New("show references a missing artist or venue")
