package entries

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/empath/pkg/repository"
)

// Domain errors for emotion entry operations.
var (
	ErrNotFound         = errors.New("entry not found")
	ErrDuplicate        = errors.New("entry already exists")
	ErrInvalidEmotion   = errors.New("emotion not in vocabulary")
	ErrInvalidIntensity = errors.New("intensity must be within [0, 1]")
	ErrInvalidRange     = errors.New("start_date must not be after end_date")
	ErrUnauthorized     = errors.New("backend rejected credentials")
)

// MapHTTPStatus maps entry domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidEmotion),
		errors.Is(err, ErrInvalidIntensity),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, repository.ErrConstraint):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}
