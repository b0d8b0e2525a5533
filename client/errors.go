package client

import (
	"errors"
	"fmt"
)

// ErrEmptyData is returned when an envelope reports success but carries no payload.
var ErrEmptyData = errors.New("response envelope has no data")

// APIError represents a non-2xx reply from the backend.
type APIError struct {
	Status int
	Path   string
	Msg    string
}

func (e *APIError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("api error %d on %s: %s", e.Status, e.Path, e.Msg)
	}
	return fmt.Sprintf("api error %d on %s", e.Status, e.Path)
}

// IsConflict reports whether err is an APIError with HTTP 409, which the
// backend uses for duplicate resources such as an already-saved address.
func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == 409
}
