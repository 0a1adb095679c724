// Package errkind defines the error kinds shared across scrapekit packages.
package errkind

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Check with errors.Is.
var (
	// ErrTransport covers network failures, non-2xx responses and
	// unreadable response bodies.
	ErrTransport = errors.New("transport error")

	// ErrPolicy is returned when a fetch is disallowed by site policy
	// (robots.txt) before any network call is made.
	ErrPolicy = errors.New("disallowed by site policy")

	// ErrUnsupportedMethod is returned for HTTP verbs outside the
	// supported set.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")

	// ErrUnsupportedStrategy is returned for unknown fill strategies.
	ErrUnsupportedStrategy = errors.New("unsupported strategy")

	// ErrFormat covers malformed JSON or HTML fragments.
	ErrFormat = errors.New("format error")

	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")
)

// Wrap attaches a kind and an operation label to err. The kind stays
// visible to errors.Is through the chain.
func Wrap(err error, kind error, op string) error {
	return fmt.Errorf("%w: %s: %w", kind, op, err)
}
