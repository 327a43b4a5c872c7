package normal

import "errors"

var (
	// ErrInvalidParameter is returned when sigma is not a finite positive
	// number, or when mu or an evaluation point is NaN.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrLengthMismatch is returned by the batch evaluators when the input
	// and output buffers differ in length.
	ErrLengthMismatch = errors.New("length mismatch")
)
