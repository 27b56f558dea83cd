package wiring

import (
	"github.com/opsfold/webobs/observe"
	"github.com/opsfold/webobs/webfilter"
	"github.com/opsfold/webobs/webmetrics"
)

// ObservationFilterName is the name of the contributed registration.
const ObservationFilterName = "webObservationFilter"

// ObservationFilterOrder positions the contributed filter: one step inside
// the absolute front of the chain, leaving room for a single outermost
// user filter.
const ObservationFilterOrder = webfilter.HighestPrecedence + 1

// ConfigureObservation contributes the request observation filter to the
// registry, unless:
//
//   - no meter provider is present (nothing to record against), or
//   - the user already supplied an ObservationFilter, bare or wrapped in a
//     registration, in which case the user's component wins.
//
// Unrelated user filters and registrations never suppress the contribution.
// A user-supplied TagsProvider or any TagsContributors switch the filter to
// the adapter convention.
func ConfigureObservation(r *Registry) error {
	if r.meterProvider == nil {
		return nil
	}
	if hasUserObservationFilter(r) {
		return nil
	}

	opts := []webmetrics.Option{
		webmetrics.WithMaxURITags(r.maxURITags),
	}
	if r.logger != nil {
		opts = append(opts, webmetrics.WithLogger(r.logger))
	}
	if r.tagsProvider != nil || len(r.contributors) > 0 {
		adapter := webmetrics.NewConventionAdapter(r.tagsProvider, r.contributors...)
		opts = append(opts, webmetrics.WithConvention(adapter))
	}

	filter, err := webmetrics.NewObservationFilter(r.meterProvider, opts...)
	if err != nil {
		return err
	}

	return r.AddRegistration(&webfilter.Registration{
		Name:        ObservationFilterName,
		Filter:      filter,
		Order:       ObservationFilterOrder,
		Dispatchers: webfilter.NewDispatcherSet(webfilter.DispatchRequest, webfilter.DispatchAsync),
	})
}

// ConfigureFromObserver populates a registry from an observer and its config
// and runs the observation wiring. Convenience for the common case.
func ConfigureFromObserver(obs observe.Observer, cfg observe.Config) (*Registry, error) {
	r := NewRegistry()
	r.SetMeterProvider(obs.MeterProvider())
	r.SetLogger(obs.Logger())
	r.SetMaxURITags(cfg.MaxURITags())
	if err := ConfigureObservation(r); err != nil {
		return nil, err
	}
	return r, nil
}

// hasUserObservationFilter reports whether the user supplied an observation
// filter themselves, either bare or inside a registration.
func hasUserObservationFilter(r *Registry) bool {
	for _, reg := range r.registrations {
		if _, ok := reg.Filter.(*webmetrics.ObservationFilter); ok {
			return true
		}
	}
	for _, nf := range r.filters {
		if _, ok := nf.filter.(*webmetrics.ObservationFilter); ok {
			return true
		}
	}
	return false
}
