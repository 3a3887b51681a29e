package router

import "errors"

var (
	// ErrRouterClosed is returned by Send on a closed router and resolves
	// every reply that was still pending at teardown.
	ErrRouterClosed = errors.New("router closed")

	// ErrRequestTimeout resolves a reply whose response did not arrive
	// within the request deadline.
	ErrRequestTimeout = errors.New("request timed out")

	// ErrNilMessage is returned by Send when given a nil message.
	ErrNilMessage = errors.New("nil message")
)
