package registry

// ServiceInstance represents one peer, reachable through the Agent, that
// hosts a given function id — the entries an invoker.jobrouting balancer
// picks among when a function has more than one registered instance.
//
// The caller supplies these through the instancesFor function given to
// invoker.NewRoutedInvoker; this SDK does not populate them itself.
type ServiceInstance struct {
	Addr    string
	Weight  int
	Version string
}
