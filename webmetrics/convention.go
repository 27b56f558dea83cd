package webmetrics

import (
	"net/http"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
)

// RequestContext carries the observable facts about a completed request.
type RequestContext struct {
	// Request is the incoming request as the filter saw it.
	Request *http.Request
	// Route is the matched route pattern, falling back to the raw path.
	Route string
	// StatusCode is the response status written by the handler.
	StatusCode int
}

// Convention decides the tags attached to the server request metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic; a nil RequestContext field means
//   the fact was unavailable.
type Convention interface {
	// Tags returns the attribute set for one request observation.
	Tags(rc *RequestContext) []attribute.KeyValue
}

// TagsProvider fully replaces the default tag set.
type TagsProvider interface {
	// Tags returns the complete attribute set for a request.
	Tags(rc *RequestContext) []attribute.KeyValue
}

// TagsContributor adds tags on top of whatever the convention produced.
type TagsContributor interface {
	// ContributeTags returns additional attributes for a request.
	ContributeTags(rc *RequestContext) []attribute.KeyValue
}

// DefaultConvention tags requests with method, uri, status, and outcome.
type DefaultConvention struct{}

// Tags implements Convention.
func (DefaultConvention) Tags(rc *RequestContext) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("method", rc.Request.Method),
		attribute.String("uri", rc.Route),
		attribute.String("status", strconv.Itoa(rc.StatusCode)),
		attribute.String("outcome", Outcome(rc.StatusCode)),
	}
}

// Outcome classifies a status code into its series.
func Outcome(status int) string {
	switch {
	case status >= 100 && status < 200:
		return "INFORMATIONAL"
	case status >= 200 && status < 300:
		return "SUCCESS"
	case status >= 300 && status < 400:
		return "REDIRECTION"
	case status >= 400 && status < 500:
		return "CLIENT_ERROR"
	case status >= 500 && status < 600:
		return "SERVER_ERROR"
	default:
		return "UNKNOWN"
	}
}

// ConventionAdapter adapts a user-supplied TagsProvider and TagsContributors
// into a Convention. With a provider, the provider's tags replace the
// defaults; contributors always append.
type ConventionAdapter struct {
	provider     TagsProvider
	contributors []TagsContributor
	fallback     DefaultConvention
}

// NewConventionAdapter builds an adapter. provider may be nil, in which case
// the default tags are kept and only contributors apply.
func NewConventionAdapter(provider TagsProvider, contributors ...TagsContributor) *ConventionAdapter {
	return &ConventionAdapter{provider: provider, contributors: contributors}
}

// Tags implements Convention.
func (a *ConventionAdapter) Tags(rc *RequestContext) []attribute.KeyValue {
	var tags []attribute.KeyValue
	if a.provider != nil {
		tags = a.provider.Tags(rc)
	} else {
		tags = a.fallback.Tags(rc)
	}
	for _, c := range a.contributors {
		tags = append(tags, c.ContributeTags(rc)...)
	}
	return tags
}

// RoutePattern returns the matched mux pattern for the request, stripped of
// any method prefix, falling back to the URL path when the mux recorded no
// pattern.
func RoutePattern(r *http.Request) string {
	pattern := r.Pattern
	if pattern == "" {
		return r.URL.Path
	}
	if _, path, ok := strings.Cut(pattern, " "); ok {
		return path
	}
	return pattern
}

var _ Convention = DefaultConvention{}
var _ Convention = (*ConventionAdapter)(nil)
