package webmetrics

import (
	"context"
	"fmt"
	"sync"

	"github.com/opsfold/webobs/observe"
)

// URITagLimiter caps the number of distinct uri tag values recorded for a
// metric. Once the cap is reached, observations for unseen values are denied
// so the series set stays bounded, and a warning naming the metric is logged
// exactly once for the lifetime of the limiter.
//
// Contract:
// - Concurrency: safe for concurrent use.
type URITagLimiter struct {
	max        int
	metricName string
	logger     observe.Logger

	mu     sync.Mutex
	seen   map[string]struct{}
	logged bool
}

// NewURITagLimiter creates a limiter allowing at most max distinct values.
func NewURITagLimiter(max int, metricName string, logger observe.Logger) *URITagLimiter {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &URITagLimiter{
		max:        max,
		metricName: metricName,
		logger:     logger,
		seen:       make(map[string]struct{}, max),
	}
}

// Allow reports whether an observation tagged with the given uri value may
// be recorded. Values already admitted keep recording after the cap is hit.
func (l *URITagLimiter) Allow(ctx context.Context, uri string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[uri]; ok {
		return true
	}
	if len(l.seen) < l.max {
		l.seen[uri] = struct{}{}
		return true
	}
	if !l.logged {
		l.logged = true
		l.logger.Warn(ctx,
			fmt.Sprintf("Reached the maximum number of URI tags for '%s'", l.metricName),
			observe.Field{Key: "max_uri_tags", Value: l.max},
		)
	}
	return false
}

// Size returns the number of distinct uri values admitted so far.
func (l *URITagLimiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
