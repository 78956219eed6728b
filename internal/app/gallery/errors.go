package gallery

import "errors"

var (
	// ErrEmptyCollection is returned when Open is called with zero photos;
	// the caller shows an empty state instead.
	ErrEmptyCollection = errors.New("gallery: empty collection")

	// ErrStaleFetch marks a load result that resolved after the session
	// moved on or closed. Callers discard it silently.
	ErrStaleFetch = errors.New("gallery: stale fetch result")
)

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}
