package models

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-success response from the order service
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return e.Detail
}

// ErrorResponse is the error body the order service returns
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// IsNotFound reports whether err is an order service 404
func IsNotFound(err error) bool {
	return HasStatus(err, http.StatusNotFound)
}

// HasStatus reports whether err is an APIError with the given status code
func HasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}
