package news

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies query failures for the feed's error handling.
type ErrorKind string

const (
	// KindNetworkUnavailable means connectivity was lost mid-query.
	KindNetworkUnavailable ErrorKind = "network_unavailable"

	// KindUnknown covers everything else, including malformed records.
	KindUnknown ErrorKind = "unknown"
)

// User-facing messages for the two error kinds.
const (
	msgNetwork = "Network error. Please check your connection."
	msgUnknown = "Something went wrong. Please try again."
)

// QueryError is returned by QueryService implementations. It wraps the
// underlying cause with a coarse classification the UI can act on.
type QueryError struct {
	Kind ErrorKind
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query failed (%s): %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Classify wraps err in a QueryError, detecting connectivity failures.
// Already-classified errors pass through unchanged.
func Classify(err error) *QueryError {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return &QueryError{Kind: KindNetworkUnavailable, Err: err}
	}
	return &QueryError{Kind: KindUnknown, Err: err}
}

// UserMessage maps a query failure to the message shown in the feed.
func UserMessage(err error) string {
	var qe *QueryError
	if errors.As(err, &qe) && qe.Kind == KindNetworkUnavailable {
		return msgNetwork
	}
	return msgUnknown
}
