// Package wiring registers the request observation filter conditionally.
//
// Applications populate a Registry with whatever telemetry components they
// have (meter provider, logger, their own filters and registrations, tag
// providers and contributors) and call ConfigureObservation. The observation
// filter is contributed only when a meter provider is present and the user
// has not supplied an observation filter of their own; user-supplied
// components always win.
package wiring
