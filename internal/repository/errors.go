package repository

import (
	"errors"
	"fmt"
)

// EntityNotFoundError is the single domain error kind raised by the OrFail
// operations when zero records match or zero rows are affected. It carries
// the entity's logical name for diagnostics. All other storage failures
// propagate unmodified from the driver.
type EntityNotFoundError struct {
	Entity string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// IsNotFound reports whether err is (or wraps) an EntityNotFoundError.
func IsNotFound(err error) bool {
	var target *EntityNotFoundError
	return errors.As(err, &target)
}
