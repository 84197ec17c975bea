package invoker

import (
	"croupier-sdk-go/corerr"
	"croupier-sdk-go/loadbalance"
	"croupier-sdk-go/registry"
)

// RoutedInvoker picks one of several registered instances of the same
// function id for each StartJob call and reports the pick to the caller.
// The StartJob request itself still goes over the single Agent connection
// the wrapped Invoker is bound to and does not carry the chosen instance.
// It is additive: a caller that only ever has one instance per function can
// ignore this type entirely and use Invoker directly.
type RoutedInvoker struct {
	iv        *Invoker
	balancer  loadbalance.Balancer
	instances func(functionID string) []registry.ServiceInstance
}

// NewRoutedInvoker creates a RoutedInvoker that picks among the instances
// instancesFor returns for a given function id, using bal to choose one.
func NewRoutedInvoker(iv *Invoker, bal loadbalance.Balancer, instancesFor func(functionID string) []registry.ServiceInstance) *RoutedInvoker {
	return &RoutedInvoker{iv: iv, balancer: bal, instances: instancesFor}
}

// StartJob picks one instance hosting functionID via the configured
// balancer, then starts the job through the wrapped Invoker's transport.
// The chosen instance is surfaced so callers can correlate a later
// CancelJob/GetJobResult with the same peer if their transport is
// instance-addressed.
func (r *RoutedInvoker) StartJob(functionID string, ctxBytes, payload []byte) (*registry.ServiceInstance, []byte, error) {
	candidates := r.instances(functionID)
	if len(candidates) == 0 {
		return nil, nil, corerr.New(corerr.InvalidArgument, "invoker: no registered instance for %q", functionID)
	}

	instance, err := r.balancer.Pick(candidates)
	if err != nil {
		return nil, nil, corerr.Wrap(corerr.InvalidArgument, err, "invoker: pick instance for %q", functionID)
	}

	reply, err := r.iv.StartJob(functionID, ctxBytes, payload)
	if err != nil {
		return instance, nil, err
	}
	return instance, reply, nil
}
