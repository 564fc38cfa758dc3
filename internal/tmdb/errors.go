package tmdb

import "fmt"

// Error represents a failure looking up a single title. A lookup error
// never aborts a batch; the affected title simply produces no record.
type Error struct {
	Title   string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("tmdb error for %q: %s: %v", e.Title, e.Message, e.Cause)
	}
	return fmt.Sprintf("tmdb error for %q: %s", e.Title, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
