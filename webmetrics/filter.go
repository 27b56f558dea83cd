package webmetrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/opsfold/webobs/observe"
	"github.com/opsfold/webobs/webfilter"
)

// MetricName is the server request duration metric.
const MetricName = "http.server.requests"

// meterName scopes the instruments created by this package.
const meterName = "github.com/opsfold/webobs/webmetrics"

// ErrNilMeterProvider indicates an ObservationFilter was built without a
// meter provider.
var ErrNilMeterProvider = errors.New("webmetrics: meter provider is required")

// ObservationFilter records http.server.requests metrics for each request
// flowing through the chain.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Errors: recording is best-effort; a denied uri tag drops the observation.
type ObservationFilter struct {
	convention Convention
	limiter    *URITagLimiter
	duration   metric.Float64Histogram
	total      metric.Int64Counter
}

// Option customizes an ObservationFilter.
type Option func(*filterOptions)

type filterOptions struct {
	convention Convention
	maxURITags int
	logger     observe.Logger
}

// WithConvention replaces the default tagging convention.
func WithConvention(c Convention) Option {
	return func(o *filterOptions) { o.convention = c }
}

// WithMaxURITags caps distinct uri tag values. Zero selects the observe
// package default.
func WithMaxURITags(n int) Option {
	return func(o *filterOptions) { o.maxURITags = n }
}

// WithLogger sets the logger used for the cap-reached warning.
func WithLogger(l observe.Logger) Option {
	return func(o *filterOptions) { o.logger = l }
}

// NewObservationFilter creates the filter, registering its instruments on
// the given provider.
func NewObservationFilter(provider metric.MeterProvider, opts ...Option) (*ObservationFilter, error) {
	if provider == nil {
		return nil, ErrNilMeterProvider
	}

	o := filterOptions{
		convention: DefaultConvention{},
		maxURITags: observe.DefaultMaxURITags,
		logger:     observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxURITags <= 0 {
		o.maxURITags = observe.DefaultMaxURITags
	}

	meter := provider.Meter(meterName)

	duration, err := meter.Float64Histogram(
		MetricName,
		metric.WithDescription("Duration of HTTP server requests in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	total, err := meter.Int64Counter(
		MetricName+".total",
		metric.WithDescription("Total number of HTTP server requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	return &ObservationFilter{
		convention: o.convention,
		limiter:    NewURITagLimiter(o.maxURITags, MetricName, o.logger),
		duration:   duration,
		total:      total,
	}, nil
}

// Convention returns the tagging convention in use.
func (f *ObservationFilter) Convention() Convention {
	return f.convention
}

type observedKey struct{}

// alreadyObserved reports whether this request was recorded by an earlier
// pass through the filter (async or error re-dispatch).
func alreadyObserved(ctx context.Context) bool {
	marked, _ := ctx.Value(observedKey{}).(bool)
	return marked
}

// Handler implements webfilter.Filter. Each request is timed and recorded
// once: re-dispatches of an already-observed request pass straight through.
func (f *ObservationFilter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if alreadyObserved(r.Context()) {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), observedKey{}, true))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		f.record(r, rec.status, time.Since(start))
	})
}

func (f *ObservationFilter) record(r *http.Request, status int, elapsed time.Duration) {
	rc := &RequestContext{
		Request:    r,
		Route:      RoutePattern(r),
		StatusCode: status,
	}

	ctx := r.Context()
	if !f.limiter.Allow(ctx, rc.Route) {
		return
	}

	opt := metric.WithAttributes(f.convention.Tags(rc)...)
	f.total.Add(ctx, 1, opt)
	f.duration.Record(ctx, float64(elapsed.Nanoseconds())/1e6, opt)
}

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

var _ webfilter.Filter = (*ObservationFilter)(nil)
