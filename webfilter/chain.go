package webfilter

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// Chain errors.
var (
	// ErrNilFilter indicates a registration without a filter.
	ErrNilFilter = errors.New("webfilter: registration has no filter")

	// ErrDuplicateName indicates two registrations share a name.
	ErrDuplicateName = errors.New("webfilter: duplicate registration name")
)

// Chain holds filter registrations and composes them around a final handler.
//
// Contract:
// - Concurrency: Add is not safe to call concurrently with Handler; assemble
//   the chain during startup, serve afterwards.
type Chain struct {
	registrations []*Registration
	names         map[string]bool
}

// NewChain creates an empty chain.
func NewChain() *Chain {
	return &Chain{names: make(map[string]bool)}
}

// Add registers a filter. Registrations with equal order keep their
// insertion order relative to each other.
func (c *Chain) Add(reg *Registration) error {
	if reg == nil || reg.Filter == nil {
		return ErrNilFilter
	}
	if reg.Name != "" {
		if c.names[reg.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateName, reg.Name)
		}
		c.names[reg.Name] = true
	}
	c.registrations = append(c.registrations, reg)
	return nil
}

// Registrations returns the registrations sorted by order.
func (c *Chain) Registrations() []*Registration {
	out := make([]*Registration, len(c.registrations))
	copy(out, c.registrations)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Order < out[j].Order
	})
	return out
}

// Lookup returns the registration with the given name, or nil.
func (c *Chain) Lookup(name string) *Registration {
	for _, reg := range c.registrations {
		if reg.Name == name {
			return reg
		}
	}
	return nil
}

// Handler composes the registered filters around final. The lowest-order
// filter ends up outermost. A filter runs only when the request's dispatch
// type is in its dispatcher set; otherwise the request passes straight
// through to the next stage.
func (c *Chain) Handler(final http.Handler) http.Handler {
	sorted := c.Registrations()

	h := final
	for i := len(sorted) - 1; i >= 0; i-- {
		reg := sorted[i]
		h = &dispatchGate{
			dispatchers: reg.EffectiveDispatchers(),
			filtered:    reg.Filter.Handler(h),
			skip:        h,
		}
	}
	return h
}

// dispatchGate routes a request through the filtered handler only when the
// dispatch type matches; otherwise the filter is bypassed.
type dispatchGate struct {
	dispatchers DispatcherSet
	filtered    http.Handler
	skip        http.Handler
}

func (g *dispatchGate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if g.dispatchers.Has(DispatchTypeFromContext(r.Context())) {
		g.filtered.ServeHTTP(w, r)
		return
	}
	g.skip.ServeHTTP(w, r)
}
