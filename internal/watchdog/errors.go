// internal/watchdog/errors.go
package watchdog

import "errors"

// FatalError means the loop could not start: no database session was acquired.
// It is the only error Run returns.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string {
	return "watchdog: cannot start: " + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is (or wraps) a FatalError.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
