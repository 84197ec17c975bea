// Package server implements the reply server: the component that owns one
// inbound reply socket, runs a receive loop, parses envelopes, dispatches
// to a handler, and writes reply frames.
//
// The accept loop tolerates a reconnecting peer by wrapping a per-connection
// serve loop around a single bound listener, rather than spawning one
// long-lived handler per parallel connection: only one peer connection is
// ever served at a time, matching a request/reply socket's
// single-outstanding-reply discipline.
//
//	Accept one peer → recv loop (single task)
//	  → Decode → middleware chain → registry dispatch → Encode reply → send
package server

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"croupier-sdk-go/corelog"
	"croupier-sdk-go/middleware"
	"croupier-sdk-go/protocol"
	"croupier-sdk-go/transport"
)

// Handler dispatches one decoded request to its business logic and returns
// the reply body.
type Handler func(msgType protocol.MessageType, reqID uint32, body []byte) ([]byte, error)

// DefaultRecvTimeout is kept small so the serve loop polls the running flag
// often enough for Stop to be responsive.
const DefaultRecvTimeout = time.Second

// ReplyServer owns one server socket bound to a configured listen address.
type ReplyServer struct {
	address     string
	recvTimeout time.Duration
	logger      corelog.Logger
	dispatch    middleware.HandlerFunc

	extraMiddlewares []middleware.Middleware

	running atomic.Bool
	mu      sync.Mutex
	ln      net.Listener
	wg      sync.WaitGroup
}

// Option configures optional ReplyServer behavior beyond the fixed
// recv-timeout/handler pair.
type Option func(*ReplyServer)

// WithRecvTimeout overrides DefaultRecvTimeout.
func WithRecvTimeout(d time.Duration) Option {
	return func(s *ReplyServer) { s.recvTimeout = d }
}

// WithLogger overrides the default logger.
func WithLogger(l corelog.Logger) Option {
	return func(s *ReplyServer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRateLimit guards the dispatch step with a token-bucket limiter over
// inbound requests, protecting the process from an invocation flood. r is
// the refill rate in requests/second, burst the bucket size.
func WithRateLimit(r float64, burst int) Option {
	return func(s *ReplyServer) {
		s.extraMiddlewares = append(s.extraMiddlewares, middleware.RateLimit(r, burst))
	}
}

// WithHandlerTimeout bounds how long a single dispatched handler may run.
func WithHandlerTimeout(d time.Duration) Option {
	return func(s *ReplyServer) {
		s.extraMiddlewares = append(s.extraMiddlewares, middleware.Timeout(d))
	}
}

// New creates a reply server bound to address once Start is called. handler
// is invoked for every decoded request frame.
func New(address string, handler Handler, opts ...Option) *ReplyServer {
	s := &ReplyServer{
		address:     address,
		recvTimeout: DefaultRecvTimeout,
		logger:      corelog.Default,
	}

	for _, opt := range opts {
		opt(s)
	}

	h := &holder{businessHandler: handler}
	chain := middleware.Chain(append([]middleware.Middleware{middleware.Logging(s.logger)}, s.extraMiddlewares...)...)
	s.dispatch = chain(h.dispatch)
	return s
}

// holder adapts the plain business Handler into a middleware.HandlerFunc.
type holder struct {
	businessHandler Handler
}

func (h *holder) dispatch(ctx context.Context, msgType protocol.MessageType, reqID uint32, body []byte) ([]byte, error) {
	return h.businessHandler(msgType, reqID, body)
}

// Start opens the socket, binds/listens, and spawns the serve task. It is
// idempotent.
func (s *ReplyServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return nil
	}

	ln, err := transport.Listen(s.address)
	if err != nil {
		return err
	}
	s.ln = ln
	s.running.Store(true)

	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Stop sets running to false, waits for the serve task to exit, and closes
// the socket. It is idempotent.
func (s *ReplyServer) Stop() {
	s.mu.Lock()
	if !s.running.Load() {
		s.mu.Unlock()
		return
	}
	s.running.Store(false)
	ln := s.ln
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}
	s.wg.Wait()
}

// StopWithTimeout behaves like Stop but gives up waiting for the serve task
// after d and returns false instead of blocking forever. The listener is
// still closed immediately, so no new connection is accepted; a handler
// that's stuck mid-dispatch keeps running in the background and its
// goroutine is left to exit on its own. Returns true if the serve task
// drained within the deadline.
func (s *ReplyServer) StopWithTimeout(d time.Duration) bool {
	s.mu.Lock()
	if !s.running.Load() {
		s.mu.Unlock()
		return true
	}
	s.running.Store(false)
	ln := s.ln
	s.mu.Unlock()

	if ln != nil {
		_ = ln.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// IsRunning reports whether the serve task is active.
func (s *ReplyServer) IsRunning() bool { return s.running.Load() }

// LocalAddress returns the resolved listen address, useful when the
// configured address requested a kernel-assigned port.
func (s *ReplyServer) LocalAddress() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

func (s *ReplyServer) acceptLoop() {
	defer s.wg.Done()

	for s.running.Load() {
		conn, err := s.ln.Accept()
		if err != nil {
			if !s.running.Load() {
				return
			}
			s.logger.Warnf("server: accept on %s: %v", s.address, err)
			continue
		}
		s.serveConn(conn)
	}
}

func (s *ReplyServer) serveConn(conn net.Conn) {
	defer conn.Close()

	for s.running.Load() {
		if err := conn.SetReadDeadline(time.Now().Add(s.recvTimeout)); err != nil {
			return
		}
		frame, err := transport.ReadFrame(conn)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue // shutdown-check tick
			}
			return // connection broken
		}

		env, decodeErr := protocol.Decode(frame)
		if decodeErr != nil {
			s.logger.Warnf("server: %v", decodeErr)
			s.replyMalformed(conn)
			continue
		}

		replyBody, hErr := s.dispatch(context.Background(), env.MsgID, env.ReqID, env.Body)
		if hErr != nil {
			s.logger.Errorf("server: handler for %s (req %d): %v", protocol.NameOf(env.MsgID), env.ReqID, hErr)
			replyBody = nil
		}

		replyType := protocol.PairedResponse(env.MsgID)
		replyFrame, encErr := protocol.Encode(replyType, env.ReqID, replyBody)
		if encErr != nil {
			s.logger.Errorf("server: encode reply for %s: %v", protocol.NameOf(env.MsgID), encErr)
			continue
		}
		if err := transport.WriteFrame(conn, replyFrame); err != nil {
			s.logger.Warnf("server: send reply: %v", err)
			continue
		}
	}
}

// replyMalformed always sends something back rather than silently dropping
// an undecodable frame, which would wedge a caller waiting for its reply:
// MalformedSentinel with an empty body and req_id 0, since a frame short
// enough to fail Decode may not even carry a readable req_id.
func (s *ReplyServer) replyMalformed(conn net.Conn) {
	frame, err := protocol.Encode(protocol.MalformedSentinel, 0, nil)
	if err != nil {
		return
	}
	if err := transport.WriteFrame(conn, frame); err != nil {
		s.logger.Warnf("server: send malformed-sentinel reply: %v", err)
	}
}
