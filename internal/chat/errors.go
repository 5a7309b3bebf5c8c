package chat

import (
	"errors"
	"net/http"
)

// Domain errors for chat operations.
var (
	ErrNotFound = errors.New("conversation not found")
	ErrBusy     = errors.New("a message is already being processed")
	ErrRejected = errors.New("message rejected")
)

// MapHTTPStatus maps chat domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBusy):
		return http.StatusConflict
	case errors.Is(err, ErrRejected):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
