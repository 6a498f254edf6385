package glitch

import "errors"

var (
	// ErrConfig reports an unknown selector or a malformed parameter. It is
	// always returned before any pixel is touched.
	ErrConfig = errors.New("glitch: configuration error")
	// ErrShape reports a buffer whose length does not match its dimensions, or
	// a region outside the buffer bounds.
	ErrShape = errors.New("glitch: shape mismatch")
)
