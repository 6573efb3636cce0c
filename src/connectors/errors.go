package connectors

import (
	"errors"

	"github.com/go-resty/resty/v2"
)

// Failure classes shared by all provider clients. The order executor maps
// these onto the outcome taxonomy; connectors never decide HTTP statuses
// themselves.
var (
	// ErrConnect covers DNS, dial and TLS failures plus timeouts where no
	// byte of a response was received.
	ErrConnect = errors.New("connection failed")

	// ErrUnauthorized is returned when the remote rejects the session or
	// token; callers may re-authenticate once and retry.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBadResponse means the remote answered but with an unusable or
	// unexpected payload.
	ErrBadResponse = errors.New("unexpected provider response")

	// ErrRejected is a definitive trading-level rejection; retrying or
	// falling back to another client stack is pointless.
	ErrRejected = errors.New("order rejected by provider")
)

func isUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsConnectFailure reports whether the error is connection-level, i.e.
// worth trying again or on the fallback client stack.
func IsConnectFailure(err error) bool {
	return errors.Is(err, ErrConnect)
}

func isRetryableResp(r *resty.Response, err error) bool {
	if err != nil {
		return true
	}
	if r == nil {
		return false
	}

	code := r.StatusCode()
	if code >= 500 && code <= 599 {
		return true
	}
	return code == 429 || code == 408
}
