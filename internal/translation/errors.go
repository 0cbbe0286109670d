package translation

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by all providers. The manager guarantees that
// anything reaching its callers matches one of these, so UI layers only
// ever switch on the fixed set.
var (
	// ErrInvalidInput is returned when the trimmed input text is empty.
	ErrInvalidInput = errors.New("invalid input text")

	// ErrNetwork is returned on transport-level failures.
	ErrNetwork = errors.New("network connection error")

	// ErrLanguageNotSupported is reserved for provider-specific language
	// unavailability. Part of the taxonomy; not raised by current providers.
	ErrLanguageNotSupported = errors.New("language not supported")

	// ErrUnknown is the catch-all for unclassified failures.
	ErrUnknown = errors.New("unknown translation error")
)

// FailedError carries a human-readable cause for a backend-reported failure:
// an upstream error message, a parse failure, a timeout or an HTTP status.
type FailedError struct {
	Detail string
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("translation failed: %s", e.Detail)
}

// Failed creates a FailedError with the given detail.
func Failed(detail string) error {
	return &FailedError{Detail: detail}
}

// Failedf creates a FailedError with a formatted detail.
func Failedf(format string, args ...any) error {
	return &FailedError{Detail: fmt.Sprintf(format, args...)}
}

// IsFailed reports whether err is a backend-reported translation failure.
func IsFailed(err error) bool {
	var fe *FailedError
	return errors.As(err, &fe)
}

// classify maps an arbitrary provider error onto the taxonomy. Errors that
// already belong to it pass through unchanged; everything else becomes a
// FailedError so callers never see an unclassified error.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrNetwork) ||
		errors.Is(err, ErrLanguageNotSupported) ||
		errors.Is(err, ErrUnknown) ||
		IsFailed(err) {
		return err
	}
	return Failed(err.Error())
}
