package wiring

import (
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/opsfold/webobs/observe"
	"github.com/opsfold/webobs/webfilter"
	"github.com/opsfold/webobs/webmetrics"
)

// Registry errors.
var (
	// ErrDuplicateComponent indicates two components share a name.
	ErrDuplicateComponent = errors.New("wiring: duplicate component name")

	// ErrNilComponent indicates a nil component was provided.
	ErrNilComponent = errors.New("wiring: component is nil")
)

// namedFilter is a bare filter component, registered without an explicit
// order or dispatcher set.
type namedFilter struct {
	name   string
	filter webfilter.Filter
}

// Registry collects the components the application supplies before the
// observation wiring runs.
//
// Contract:
// - Concurrency: populate and configure during startup from one goroutine;
//   the assembled chain is safe to serve from afterwards.
type Registry struct {
	meterProvider metric.MeterProvider
	logger        observe.Logger
	maxURITags    int

	registrations []*webfilter.Registration
	filters       []namedFilter
	tagsProvider  webmetrics.TagsProvider
	contributors  []webmetrics.TagsContributor

	names map[string]bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{names: make(map[string]bool)}
}

// SetMeterProvider supplies the meter provider the observation filter
// records against. Without one, ConfigureObservation backs off.
func (r *Registry) SetMeterProvider(mp metric.MeterProvider) {
	r.meterProvider = mp
}

// SetLogger supplies the logger used for the uri tag cap warning.
func (r *Registry) SetLogger(l observe.Logger) {
	r.logger = l
}

// SetMaxURITags caps distinct uri tag values on the contributed filter.
// Zero selects the observe package default.
func (r *Registry) SetMaxURITags(n int) {
	r.maxURITags = n
}

// AddRegistration adds a user-supplied filter registration.
func (r *Registry) AddRegistration(reg *webfilter.Registration) error {
	if reg == nil || reg.Filter == nil {
		return ErrNilComponent
	}
	if err := r.claim(reg.Name); err != nil {
		return err
	}
	r.registrations = append(r.registrations, reg)
	return nil
}

// AddFilter adds a bare filter component. Bare filters join the chain at
// lowest precedence for request dispatches only.
func (r *Registry) AddFilter(name string, f webfilter.Filter) error {
	if f == nil {
		return ErrNilComponent
	}
	if err := r.claim(name); err != nil {
		return err
	}
	r.filters = append(r.filters, namedFilter{name: name, filter: f})
	return nil
}

// SetTagsProvider replaces the default tag set on the contributed filter.
func (r *Registry) SetTagsProvider(p webmetrics.TagsProvider) {
	r.tagsProvider = p
}

// AddTagsContributor appends tags on the contributed filter.
func (r *Registry) AddTagsContributor(c webmetrics.TagsContributor) {
	r.contributors = append(r.contributors, c)
}

// Registrations returns the explicit registrations in insertion order.
func (r *Registry) Registrations() []*webfilter.Registration {
	out := make([]*webfilter.Registration, len(r.registrations))
	copy(out, r.registrations)
	return out
}

// Registration returns the registration with the given name, or nil.
func (r *Registry) Registration(name string) *webfilter.Registration {
	for _, reg := range r.registrations {
		if reg.Name == name {
			return reg
		}
	}
	return nil
}

// Filter returns the bare filter with the given name, or nil.
func (r *Registry) Filter(name string) webfilter.Filter {
	for _, nf := range r.filters {
		if nf.name == name {
			return nf.filter
		}
	}
	return nil
}

// Chain assembles the filter chain: explicit registrations first, then bare
// filters at lowest precedence.
func (r *Registry) Chain() (*webfilter.Chain, error) {
	chain := webfilter.NewChain()
	for _, reg := range r.registrations {
		if err := chain.Add(reg); err != nil {
			return nil, err
		}
	}
	for _, nf := range r.filters {
		reg := &webfilter.Registration{
			Name:   nf.name,
			Filter: nf.filter,
			Order:  webfilter.LowestPrecedence,
		}
		if err := chain.Add(reg); err != nil {
			return nil, err
		}
	}
	return chain, nil
}

func (r *Registry) claim(name string) error {
	if name == "" {
		return nil
	}
	if r.names[name] {
		return fmt.Errorf("%w: %q", ErrDuplicateComponent, name)
	}
	r.names[name] = true
	return nil
}
