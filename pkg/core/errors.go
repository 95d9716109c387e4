package core

import (
	"errors"
	"fmt"
)

// DegenerateVectorError reports an attempt to normalize a vector with
// zero or subnormal length, such as the direction from a hit point to a
// light sitting exactly on it.
type DegenerateVectorError struct {
	Vector Vec3
}

func (e *DegenerateVectorError) Error() string {
	return fmt.Sprintf("degenerate vector (%g, %g, %g) cannot be normalized", e.Vector.X, e.Vector.Y, e.Vector.Z)
}

// IsDegenerate reports whether err is or wraps a DegenerateVectorError
func IsDegenerate(err error) bool {
	var degenerate *DegenerateVectorError
	return errors.As(err, &degenerate)
}
