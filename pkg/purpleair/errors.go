package purpleair

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig matches any *ConfigError.
	ErrConfig = errors.New("purpleair: configuration error")
	// ErrTransport matches any *TransportError.
	ErrTransport = errors.New("purpleair: transport error")
	// ErrHTTPStatus matches any *HTTPError.
	ErrHTTPStatus = errors.New("purpleair: http error status")
	// ErrUnknownStatus matches any *UnknownStatusError.
	ErrUnknownStatus = errors.New("purpleair: unknown status code")
)

// ConfigError reports invalid credentials, addresses or arguments detected before any request.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "purpleair config: " + e.Msg }

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func configErrorf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// TransportError wraps a failure that prevented a response from being received.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("purpleair %s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// HTTPError is returned for a status code in the known failure set.
// Body holds the raw response text, which usually names the server-side reason.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("purpleair http status %d: %s", e.StatusCode, e.Body)
}

func (e *HTTPError) Is(target error) bool { return target == ErrHTTPStatus }

// UnknownStatusError is returned for a status code outside both the success and known failure sets.
type UnknownStatusError struct {
	StatusCode int
	Body       string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("purpleair unknown status code %d", e.StatusCode)
}

func (e *UnknownStatusError) Is(target error) bool { return target == ErrUnknownStatus }
