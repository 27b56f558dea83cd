package webfilter

import "math"

// Order bounds. Lower order runs earlier (outermost in the chain).
const (
	// HighestPrecedence is the lowest possible order value.
	HighestPrecedence = math.MinInt32
	// LowestPrecedence is the highest possible order value.
	LowestPrecedence = math.MaxInt32
)

// Registration binds a filter to a name, an order, and the dispatch types
// it participates in.
type Registration struct {
	// Name identifies the registration; unique within a chain.
	Name string
	// Filter is the filter to run.
	Filter Filter
	// Order positions the filter; lower runs outermost. Zero is valid and
	// sits between negative and positive orders.
	Order int
	// Dispatchers is the set of dispatch types the filter applies to.
	// Empty means DispatchRequest only.
	Dispatchers DispatcherSet
}

// EffectiveDispatchers returns the dispatcher set, defaulting to
// DispatchRequest when none were declared.
func (r *Registration) EffectiveDispatchers() DispatcherSet {
	if r.Dispatchers == 0 {
		return NewDispatcherSet(DispatchRequest)
	}
	return r.Dispatchers
}
