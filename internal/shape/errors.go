package shape

import "errors"

// ErrInvalidGeometry is returned by constructors for degenerate input.
var ErrInvalidGeometry = errors.New("shape: invalid geometry")
