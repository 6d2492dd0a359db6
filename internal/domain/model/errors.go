package model

import "errors"

// Validation errors returned by ThresholdSet operations. All are local,
// recoverable rejections: the set is left untouched and the caller surfaces
// the reason to the user.
var (
	// ErrInvalidBound indicates a bound that breaks the total ordering of
	// the set (not above the previous band, or outside its neighbors'
	// open interval on edit).
	ErrInvalidBound = errors.New("invalid threshold bound")

	// ErrUnboundedAlreadySet indicates the set already contains an
	// unbounded band; at most one is allowed per set.
	ErrUnboundedAlreadySet = errors.New("unbounded threshold already set")

	// ErrBandLimitExceeded indicates the set already holds the maximum
	// number of bands.
	ErrBandLimitExceeded = errors.New("threshold band limit exceeded")

	// ErrThresholdNotFound indicates the referenced threshold is not in
	// the set.
	ErrThresholdNotFound = errors.New("threshold not found in set")
)
