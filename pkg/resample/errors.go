package resample

import "errors"

var (
	// ErrInvalidArgument reports a rejected input: non-positive scale, zero-sized
	// output, malformed buffer or an out-of-range kernel parameter.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNumericDegenerate reports a coordinate mapping that would divide by zero.
	ErrNumericDegenerate = errors.New("numerically degenerate mapping")

	// ErrUnsupportedMethod is returned by the dispatcher for tags outside the
	// closed method set. It is never retried.
	ErrUnsupportedMethod = errors.New("unsupported method")
)
