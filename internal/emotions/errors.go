package emotions

import (
	"errors"

	"github.com/JaimeStill/empath/internal/failures"
)

// Validation and normalization failures. Compare with errors.Is or switch on
// failures.KindOf.
var (
	ErrEmptyInput          = failures.New(failures.EmptyInput, errors.New("text is empty"))
	ErrTooLong             = failures.New(failures.TooLong, errors.New("text exceeds maximum length"))
	ErrMissingEmotionField = failures.New(failures.MissingEmotionField, errors.New("payload has no emotion label"))
	ErrMissingConfidence   = failures.New(failures.MissingConfidence, errors.New("payload has no valid confidence"))
	ErrMalformedScores     = failures.New(failures.MalformedScores, errors.New("payload scores are malformed"))
)
