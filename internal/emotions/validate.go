package emotions

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/empath/internal/failures"
)

// MaxTextLength is the largest accepted input, in characters.
const MaxTextLength = 3000

// Validate trims text and rejects it when it is empty or longer than
// MaxTextLength characters. It returns the trimmed text on success.
func Validate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrEmptyInput
	}

	if n := utf8.RuneCountInString(trimmed); n > MaxTextLength {
		return "", failures.New(
			failures.TooLong,
			fmt.Errorf("text has %d characters, limit is %d", n, MaxTextLength),
		)
	}

	return trimmed, nil
}
