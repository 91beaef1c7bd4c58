package registry

import "errors"

var (
	// ErrInsufficientFee is returned when the creation fee offered is below
	// the native creation fee.
	ErrInsufficientFee = errors.New("insufficient creation fee")

	// ErrParameterOutOfBounds is returned, wrapped with the offending field,
	// when a sale parameter violates the settings snapshot.
	ErrParameterOutOfBounds = errors.New("sale parameter out of bounds")

	// ErrIndexOutOfRange is returned by At for positions past Count.
	ErrIndexOutOfRange = errors.New("registry index out of range")

	// ErrIndexUnavailable is returned by seller queries when no relational
	// index is configured.
	ErrIndexUnavailable = errors.New("sale index unavailable")
)
