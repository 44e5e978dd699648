package classify

import "errors"

// Per-article failures. The batch driver skips the article and leaves it
// unclassified for the next run.
var (
	// ErrRateLimited means the capability asked us to slow down.
	ErrRateLimited = errors.New("classification rate limited")
	// ErrTransient covers timeouts, transport failures and 5xx answers.
	ErrTransient = errors.New("classification temporarily unavailable")
	// ErrMalformed means the answer did not follow the yes/no contract.
	ErrMalformed = errors.New("malformed classification response")
)

// Skippable reports whether err should only skip the current article.
func Skippable(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTransient) || errors.Is(err, ErrMalformed)
}
