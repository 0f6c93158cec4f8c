package sample

import "errors"

var (
	// ErrUnsupportedSampleType is returned for kinds outside the supported numerics.
	ErrUnsupportedSampleType = errors.New("unsupported sample type")

	// ErrInvalidArgument is returned for nil views and malformed arguments.
	ErrInvalidArgument = errors.New("invalid argument")
)
