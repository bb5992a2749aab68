package core

import "errors"

// Error taxonomy for the session core. Selection-path errors (empty registry,
// bad index, invalid item) are absorbed by the coordinator as logged no-ops;
// precondition and configuration errors surface to the caller.
var (
	// ErrEmptyRegistry indicates a selection was attempted with no items.
	ErrEmptyRegistry = errors.New("selectable registry is empty")

	// ErrIndexOutOfRange indicates an index outside [0, Count).
	ErrIndexOutOfRange = errors.New("selectable index out of range")

	// ErrInvalidItem indicates the referenced item is no longer usable.
	ErrInvalidItem = errors.New("selectable item is invalid")

	// ErrStrategyNotImplemented is reported by reserved population
	// strategies. The registry is left unchanged.
	ErrStrategyNotImplemented = errors.New("population strategy not implemented")

	// ErrNoMarkerChannel indicates the session was started without a bound
	// marker channel.
	ErrNoMarkerChannel = errors.New("no marker channel bound")

	// ErrNoResponseChannel indicates the session was started without a
	// bound response channel.
	ErrNoResponseChannel = errors.New("no response channel bound")

	// ErrTooFewItems indicates a training session requested more distinct
	// targets than the registry holds.
	ErrTooFewItems = errors.New("not enough selectable items for requested training selections")
)
