// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as handlers
// to distinguish between different failure scenarios: a duplicate email on
// registration, a join code that resolves to no landlord, a room already at
// capacity, and so on. Handlers translate them into HTTP responses.
package repository

import "errors"

// ErrEmailExists is returned when registering with an email that is
// already taken. Translated into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrInvalidJoinCode is returned when a tenant registers with a join code
// that no landlord owns. Translated into HTTP 400.
var ErrInvalidJoinCode = errors.New("invalid landlord code")

// ErrRoomNotFound is returned when a room lookup by landlord and room
// number finds nothing, including rooms owned by a different landlord.
var ErrRoomNotFound = errors.New("room not found")

// ErrRoomFull is returned by the assignment engine when the target room's
// occupancy has reached its capacity. Translated into HTTP 409.
var ErrRoomFull = errors.New("room is fully occupied")

// ErrDuplicateRoom is returned when a landlord creates a room with a
// number they already use. Translated into HTTP 400.
var ErrDuplicateRoom = errors.New("room number already exists")

// ErrTenantNotFound is returned when an operation targets a tenant that
// does not exist or is not linked to the calling landlord.
var ErrTenantNotFound = errors.New("tenant not found")

// ErrRequestNotFound is returned when a maintenance ticket lookup fails.
var ErrRequestNotFound = errors.New("maintenance request not found")

// ErrInvalidTransition is returned when strict transition checking is on
// and a status update would leave a terminal state or skip backwards.
var ErrInvalidTransition = errors.New("status transition not allowed")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers should translate this into 403.
var ErrForbidden = errors.New("forbidden")
