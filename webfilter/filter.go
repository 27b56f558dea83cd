package webfilter

import (
	"context"
	"net/http"
)

// Filter wraps an http.Handler with per-request behavior.
//
// Contract:
// - Concurrency: the returned handler must be safe for concurrent use.
// - Ownership: Handler must not retain the request beyond its lifetime.
type Filter interface {
	// Handler returns a handler that runs the filter around next.
	Handler(next http.Handler) http.Handler
}

// FilterFunc adapts a middleware function to the Filter interface.
type FilterFunc func(next http.Handler) http.Handler

// Handler implements Filter.
func (f FilterFunc) Handler(next http.Handler) http.Handler {
	return f(next)
}

// DispatcherType identifies how a request entered the chain.
type DispatcherType int

const (
	// DispatchRequest is an ordinary client-initiated request.
	DispatchRequest DispatcherType = iota
	// DispatchAsync is a re-dispatch after asynchronous processing.
	DispatchAsync
	// DispatchError is a dispatch to an error handler.
	DispatchError
	// DispatchForward is an internal forward to another handler.
	DispatchForward
)

func (d DispatcherType) String() string {
	switch d {
	case DispatchRequest:
		return "REQUEST"
	case DispatchAsync:
		return "ASYNC"
	case DispatchError:
		return "ERROR"
	case DispatchForward:
		return "FORWARD"
	default:
		return "UNKNOWN"
	}
}

// DispatcherSet is a set of dispatcher types a filter applies to.
type DispatcherSet uint8

// NewDispatcherSet builds a set from the given types.
func NewDispatcherSet(types ...DispatcherType) DispatcherSet {
	var s DispatcherSet
	for _, t := range types {
		s |= 1 << uint(t)
	}
	return s
}

// Has reports whether the set contains t.
func (s DispatcherSet) Has(t DispatcherType) bool {
	return s&(1<<uint(t)) != 0
}

// Types returns the members of the set in declaration order.
func (s DispatcherSet) Types() []DispatcherType {
	var out []DispatcherType
	for _, t := range []DispatcherType{DispatchRequest, DispatchAsync, DispatchError, DispatchForward} {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

type dispatchKey struct{}

// DispatchTypeFromContext returns the dispatch type carried by ctx.
// Requests without an explicit dispatch are DispatchRequest.
func DispatchTypeFromContext(ctx context.Context) DispatcherType {
	if t, ok := ctx.Value(dispatchKey{}).(DispatcherType); ok {
		return t
	}
	return DispatchRequest
}

// WithDispatchType returns a context carrying the given dispatch type.
func WithDispatchType(ctx context.Context, t DispatcherType) context.Context {
	return context.WithValue(ctx, dispatchKey{}, t)
}

// Redispatch returns a shallow copy of the request marked with the given
// dispatch type, for driving the chain again after async completion or an
// error handler hand-off.
func Redispatch(r *http.Request, t DispatcherType) *http.Request {
	return r.WithContext(WithDispatchType(r.Context(), t))
}
