// Package webmetrics instruments HTTP server requests.
//
// ObservationFilter is a webfilter.Filter that records the
// http.server.requests metrics for each request, tagged by a convention.
// A URITagLimiter bounds the number of distinct uri tag values so a caller
// probing arbitrary paths cannot grow the series set without bound.
package webmetrics
