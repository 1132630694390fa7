package httputil

import (
	"errors"
	"fmt"
)

// ErrAssetNotFound is returned when a source answered but had nothing
// matching the request. Callers may try another source.
var ErrAssetNotFound = errors.New("asset not found")

// ErrElementNotFound is returned when a scraped page lacks the element a
// resolver expected. It is a kind of ErrAssetNotFound.
var ErrElementNotFound = fmt.Errorf("element not found: %w", ErrAssetNotFound)

// SourceUnavailableError is a transport failure or a non-2xx answer from
// an upstream source.
type SourceUnavailableError struct {
	URL        string
	StatusCode int
	Hint       string
	Err        error
}

func (e *SourceUnavailableError) Error() string {
	msg := fmt.Sprintf("source unavailable: %s", e.URL)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Hint != "" {
		msg += ": " + e.Hint
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

// ConfigurationError is a caller mistake, such as an invalid asset filter.
// It is raised before any network call.
type ConfigurationError struct {
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error: %s: %s", e.Reason, e.Err)
	}
	return "configuration error: " + e.Reason
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// NotFound wraps ErrAssetNotFound with a description of what was missing.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrAssetNotFound)
}

// ElementNotFound wraps ErrElementNotFound with the selector that matched nothing.
func ElementNotFound(selector, pageURL string) error {
	return fmt.Errorf("%q on %s: %w", selector, pageURL, ErrElementNotFound)
}

func IsSourceUnavailable(err error) bool {
	var target *SourceUnavailableError
	return errors.As(err, &target)
}

func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
