// Package loadbalance provides strategies for picking one of several
// instances that have all registered the same function id with the Agent
// — used by invoker.RoutedInvoker.StartJob to pick among eligible workers
// instead of always hitting the same one.
//
// Three strategies are implemented:
//   - RoundRobin:      Stateless workers, equal-capacity instances
//   - WeightedRandom:  Heterogeneous instances (different CPU/memory)
//   - ConsistentHash:  Stateful jobs requiring affinity to one worker
package loadbalance

import "croupier-sdk-go/registry"

// Balancer is the interface for load balancing strategies.
// The invoker calls Pick() before each job-routed call to select a target instance.
type Balancer interface {
	// Pick selects one instance from the available list.
	// Called on every routed call — must be goroutine-safe.
	Pick(instances []registry.ServiceInstance) (*registry.ServiceInstance, error)

	// Name returns the strategy name (for logging/debugging).
	Name() string
}
