// Package webfilter models an ordered HTTP filter chain.
//
// Filters are registered with an order and a set of dispatch types they
// apply to. The chain composes them around a final handler: lower order runs
// outermost, and a filter only participates when the request's dispatch type
// is in its dispatcher set.
package webfilter
