package transport

import (
	"net"
	"strings"

	"croupier-sdk-go/corerr"
)

// Dial opens a net.Conn for address, supporting three transport-address
// schemes: "tcp://host:port", "ipc://path" (a Unix domain socket), and
// "inproc://name" (an in-process pipe registered via Listen, used by tests
// and same-process peer simulators that want to avoid binding a real
// socket).
func Dial(address string) (net.Conn, error) {
	network, target, err := splitAddress(address)
	if err != nil {
		return nil, err
	}

	if network == "inproc" {
		conn, ok := inprocDial(target)
		if !ok {
			return nil, corerr.New(corerr.Dial, "transport: no inproc listener registered for %q", target)
		}
		return conn, nil
	}

	conn, err := net.Dial(network, target)
	if err != nil {
		return nil, corerr.Wrap(corerr.Dial, err, "transport: dial %s failed", address)
	}
	return conn, nil
}

// Listen opens a net.Listener for address, using the same scheme grammar as Dial.
func Listen(address string) (net.Listener, error) {
	network, target, err := splitAddress(address)
	if err != nil {
		return nil, err
	}

	if network == "inproc" {
		return newInprocListener(target), nil
	}

	ln, err := net.Listen(network, target)
	if err != nil {
		return nil, corerr.Wrap(corerr.Bind, err, "transport: listen %s failed", address)
	}
	return ln, nil
}

func splitAddress(address string) (network, target string, err error) {
	switch {
	case strings.HasPrefix(address, "tcp://"):
		return "tcp", strings.TrimPrefix(address, "tcp://"), nil
	case strings.HasPrefix(address, "ipc://"):
		return "unix", strings.TrimPrefix(address, "ipc://"), nil
	case strings.HasPrefix(address, "inproc://"):
		return "inproc", strings.TrimPrefix(address, "inproc://"), nil
	default:
		return "", "", corerr.New(corerr.InvalidArgument, "transport: unrecognized address scheme %q", address)
	}
}
