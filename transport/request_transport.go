// Package transport implements the request-correlation transport layer:
// one outbound request/reply socket to the peer process (RequestTransport)
// and the address-scheme dialing it shares with the reply server.
//
// RequestTransport keeps one sending mutex and one monotonically increasing
// request-id counter, held across the whole send/recv pair, rather than a
// multiplexed-by-goroutine design with a background receive loop routing
// replies to concurrent callers via a pending map: a request/reply socket
// only ever has one request in flight regardless of how many goroutines
// call in, so the simpler strictly-serialized design matches the transport
// it sits on.
package transport

import (
	"net"
	"sync"
	"time"

	"croupier-sdk-go/corelog"
	"croupier-sdk-go/corerr"
	"croupier-sdk-go/protocol"
)

// RequestTransport owns one outbound request/reply socket to the peer process.
type RequestTransport struct {
	address string
	timeout time.Duration
	logger  corelog.Logger

	mu        sync.Mutex // guards conn + reqID + connected; held across the whole send/recv pair
	conn      net.Conn
	reqID     uint32
	connected bool
}

// New creates a transport for address with the given per-call timeout.
// timeout applies to both send and receive.
func New(address string, timeout time.Duration) *RequestTransport {
	return &RequestTransport{address: address, timeout: timeout, logger: corelog.Default}
}

// SetLogger overrides the default logger.
func (t *RequestTransport) SetLogger(l corelog.Logger) {
	if l != nil {
		t.logger = l
	}
}

// Connect dials address and opens the socket. The send/receive timeout is
// applied as a deadline on each Call, not here. It is idempotent: calling
// Connect while already connected is a no-op.
func (t *RequestTransport) Connect() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connected {
		return nil
	}

	conn, err := Dial(t.address)
	if err != nil {
		return err
	}
	t.conn = conn
	t.connected = true
	return nil
}

// Close closes the socket if open. It is idempotent and never returns an
// error to the caller's surprise — any close failure is logged, not
// propagated.
func (t *RequestTransport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.connected {
		return
	}
	if err := t.conn.Close(); err != nil {
		t.logger.Warnf("transport: close %s: %v", t.address, err)
	}
	t.conn = nil
	t.connected = false
}

// IsConnected reports whether the socket is currently open.
func (t *RequestTransport) IsConnected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Call atomically sends one request and waits for its paired reply.
// Concurrent callers are serialized on the same transport: the mutex is
// held across the entire send+recv pair, so a call never interleaves with
// another call on this transport.
func (t *RequestTransport) Call(msgType protocol.MessageType, body []byte) (protocol.MessageType, []byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.connected {
		return 0, nil, corerr.New(corerr.NotConnected, "transport: call on %s while not connected", t.address)
	}

	// The counter starts at 0 and is incremented before use, so the first
	// id sent is 1; uint32 wraparound is Go's native overflow behavior.
	t.reqID++
	reqID := t.reqID

	frame, err := protocol.Encode(msgType, reqID, body)
	if err != nil {
		return 0, nil, err
	}

	if err := t.conn.SetWriteDeadline(deadline(t.timeout)); err != nil {
		return 0, nil, corerr.Wrap(corerr.TransportInit, err, "transport: set write deadline")
	}
	if err := WriteFrame(t.conn, frame); err != nil {
		return 0, nil, corerr.Wrap(corerr.Timeout, err, "transport: send failed")
	}

	if err := t.conn.SetReadDeadline(deadline(t.timeout)); err != nil {
		return 0, nil, corerr.Wrap(corerr.TransportInit, err, "transport: set read deadline")
	}
	replyFrame, err := ReadFrame(t.conn)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return 0, nil, corerr.Wrap(corerr.Timeout, err, "transport: recv timed out after %s", t.timeout)
		}
		return 0, nil, corerr.Wrap(corerr.Timeout, err, "transport: recv failed")
	}

	reply, err := protocol.Decode(replyFrame)
	if err != nil {
		return 0, nil, err
	}

	// A request/reply socket makes a req_id mismatch structurally
	// impossible; if it happens anyway, log and still deliver the reply
	// rather than failing the call.
	if reply.ReqID != reqID {
		t.logger.Warnf("transport: reply req_id %d does not match sent req_id %d", reply.ReqID, reqID)
	}

	expected := protocol.PairedResponse(msgType)
	if reply.MsgID != expected {
		return 0, nil, corerr.NewProtocolViolation(uint32(reply.MsgID), uint32(expected))
	}

	return reply.MsgID, reply.Body, nil
}

func deadline(timeout time.Duration) time.Time {
	if timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(timeout)
}
