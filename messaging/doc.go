// Package messaging provides the message envelope carried between
// execution contexts by the relay router.
//
// # Message Types
//
// The package defines three message types:
//
//   - General: One-way message requiring no response
//   - Request: Expects a correlated response from the recipient
//   - Response: Reply to a previous request, correlated by RequestID
//
// # Message Construction
//
// Messages are constructed using a fluent builder API:
//
//	msg := messaging.NewMessage("status", dest, payload).
//	    Broadcast().
//	    Headers(map[string]string{"origin": "ui"}).
//	    Build()
//
// A response is always derived from the request it answers, which fixes
// its correlation id and destination:
//
//	resp := messaging.NewResponse(request, result).Build()
//
// # Routing Fields
//
// Source and Destination are addresses from the address package.
// Destination is fixed by the creator and never rewritten by intermediate
// hops; Source and ID are stamped by the sending router at send time, not
// by the builder. Name, Data and Headers are opaque to routing.
//
// # Integration
//
// This package is used by the router package for context-to-context
// communication and by the channel package's codecs for wire encoding.
package messaging
