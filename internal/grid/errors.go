package grid

import "github.com/pkg/errors"

// Sentinel errors shared by every numeric package. Callers match them with
// errors.Is; producers wrap them with errors.Wrapf to attach context.
var (
	// ErrInvalidArgument covers out-of-range channels, bad dimensions,
	// malformed kernels and window sizes.
	ErrInvalidArgument = errors.New("flash: invalid argument")

	// ErrLayoutMismatch is returned when a zero-copy vector view is requested
	// over pixel memory whose byte layout differs from the vector element.
	ErrLayoutMismatch = errors.New("flash: element layout mismatch")

	// ErrDegenerateRange is returned by remapping when the source range is
	// empty (min == max).
	ErrDegenerateRange = errors.New("flash: degenerate source range")
)
