package treebuild

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMaxAttempts is returned when a retry policy specifies a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmptyCorpus indicates build_tree was called with no chunks at
	// all (every document was blank or the chunk list was empty).
	ErrEmptyCorpus = errors.New("empty corpus")
)

// BuildAbortedError reports that a provider call exhausted its retries
// during the build, naming the failing chunk or summary identifier per
// §4.3.2.
type BuildAbortedError struct {
	Identifier string
	Cause      error
}

func (e *BuildAbortedError) Error() string {
	return fmt.Sprintf("build aborted: provider call failed for %s: %v", e.Identifier, e.Cause)
}

func (e *BuildAbortedError) Unwrap() error {
	return e.Cause
}

// PermanentError wraps a provider error that must not be retried
// (authentication failure, malformed response) per §7's error
// taxonomy.
type PermanentError struct {
	Cause error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent provider error: %v", e.Cause)
}

func (e *PermanentError) Unwrap() error {
	return e.Cause
}

// Permanent wraps err so retryWithBackoff surfaces it immediately
// instead of retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Cause: err}
}

func isPermanent(err error) bool {
	var perr *PermanentError
	return errors.As(err, &perr)
}
