package allocator

import (
	"errors"
	"fmt"
)

var (
	ErrNoCourses          = errors.New("package has no courses")
	ErrNegativeCapacity   = errors.New("course capacity is negative")
	ErrDuplicateCourse    = errors.New("course id appears more than once")
	ErrDuplicateCandidate = errors.New("candidate id appears more than once")
	ErrEmptyID            = errors.New("identifier is empty")

	errStaleLedger = errors.New("ledger is missing or was used by a previous run")
)

// ConfigurationError refuses an allocation run before any seat is reserved
type ConfigurationError struct {
	// Subject is the package, course or candidate the error refers to
	Subject string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("allocation configuration error: %v", e.Err)
	}
	return fmt.Sprintf("allocation configuration error (%s): %v", e.Subject, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(subject string, err error) error {
	return &ConfigurationError{Subject: subject, Err: err}
}

// IsConfigurationError reports whether err refused the run before it started
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}
