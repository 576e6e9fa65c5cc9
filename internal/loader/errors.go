package loader

import (
	"errors"
	"fmt"
)

// DataUnavailableError reports a required input that is missing or
// unparsable. Callers surface it to the user instead of retrying.
type DataUnavailableError struct {
	Path string
	Err  error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("loader: data unavailable: %s: %v", e.Path, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// IsDataUnavailable reports whether err stems from a missing or unreadable
// input file.
func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}
