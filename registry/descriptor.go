// Package registry implements the handler registry — the component
// coupling function-id strings to user callbacks and immutable descriptor
// metadata — plus the optional session store used by the client lifecycle
// manager for reconnect bookkeeping, and the job-routing types used to pick
// among multiple registered instances of the same function.
package registry

// FunctionDescriptor is immutable metadata for a function registered with
// the Agent. Two descriptors are considered the "same" registration iff
// their ID matches; all other fields are advisory.
type FunctionDescriptor struct {
	ID       string
	Version  string
	Category string
	Risk     string
	Enabled  bool
}

// Handler is a user-supplied callback bound to a function id. ctxBytes and
// payload are opaque to the core; it makes no structural demand on their
// format.
type Handler func(ctxBytes, payload []byte) ([]byte, error)
