package domain

import "errors"

// Domain errors. Phase rules signal rejection through boolean returns;
// errors are reserved for lookups and wire validation.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrUserNotFound  = errors.New("user not found")
	ErrInvalidStatus = errors.New("invalid choice status")
)
