package gemini

import (
	"errors"
	"fmt"
)

var errNoImageInResponse = errors.New("response contains no image")

// APIError is an error reported by the API, either in the body or as a bare HTTP status.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gemini api error %d", e.Code)
	}
	return fmt.Sprintf("gemini api error %d: %s", e.Code, e.Message)
}
