package recommendations

import (
	"errors"
	"net/http"
)

// Domain errors for recommendation operations.
var (
	ErrInvalidEmotion = errors.New("emotion not in vocabulary")
	ErrInvalidType    = errors.New("unknown recommendation type")
	ErrInvalidCount   = errors.New("count must be between 1 and 50")
	ErrUnauthorized   = errors.New("backend rejected credentials")
	ErrCacheMiss      = errors.New("cache miss")
)

// MapHTTPStatus maps recommendation domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrInvalidEmotion),
		errors.Is(err, ErrInvalidType),
		errors.Is(err, ErrInvalidCount):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusBadGateway
}
