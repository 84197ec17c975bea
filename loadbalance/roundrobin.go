package loadbalance

import (
	"fmt"
	"sync/atomic"

	"croupier-sdk-go/registry"
)

// RoundRobinBalancer distributes routed jobs evenly across every instance
// currently registered for a function id, in order.
// Uses an atomic counter for lock-free, goroutine-safe operation.
//
// Best for: stateless handlers where every instance has similar capacity.
type RoundRobinBalancer struct {
	counter int64 // Atomic counter, incremented on each Pick()
}

// Pick selects the next instance hosting the function in round-robin order.
// The atomic counter ensures even distribution across repeated StartJob
// calls without locks.
func (b *RoundRobinBalancer) Pick(instances []registry.ServiceInstance) (*registry.ServiceInstance, error) {
	if len(instances) == 0 {
		return nil, fmt.Errorf("no instances available")
	}
	index := atomic.AddInt64(&b.counter, 1) % int64(len(instances))
	return &instances[index], nil
}

func (b *RoundRobinBalancer) Name() string {
	return "RoundRobin"
}
