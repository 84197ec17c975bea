// Package client implements the client lifecycle manager: the component
// that orchestrates the registration handshake, heartbeat ticker, reconnect
// loop, and graceful stop against an Agent reached over the request
// transport and reply server packages.
//
// Call flow on Connect:
//
//	Connect() → transport.Connect() → server.Start() → handshake
//	  → Registered → heartbeat ticker running
//
// Call flow on Stop:
//
//	Stop() → ShuttingDown → server.Stop() (drains in-flight replies)
//	  → heartbeat stopped → transport.Close() → Closed
package client

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"croupier-sdk-go/codec"
	"croupier-sdk-go/corelog"
	"croupier-sdk-go/corerr"
	"croupier-sdk-go/invoker"
	"croupier-sdk-go/message"
	"croupier-sdk-go/protocol"
	"croupier-sdk-go/registry"
	"croupier-sdk-go/server"
	"croupier-sdk-go/transport"
)

// State is one of the client lifecycle manager's five states.
type State int32

const (
	Disconnected State = iota
	Connecting
	Registered
	ShuttingDown
	Closed
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "Disconnected"
	case Connecting:
		return "Connecting"
	case Registered:
		return "Registered"
	case ShuttingDown:
		return "ShuttingDown"
	case Closed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Config is the immutable set of options consumed at construction time.
type Config struct {
	GameID    string
	Env       string
	ServiceID string

	AgentAddr   string
	LocalListen string

	Insecure   bool
	CertFile   string
	KeyFile    string
	CAFile     string
	ServerName string

	AutoReconnect            bool
	ReconnectIntervalSeconds int
	ReconnectMaxAttempts     int
	BlockingConnect          bool

	HeartbeatInterval  time.Duration
	ShutdownTimeout    time.Duration
	TransportTimeout   time.Duration
	HeartbeatMissLimit int

	SessionStore registry.SessionStore
	Logger       corelog.Logger
	Codec        codec.Codec
}

// withDefaults fills zero-valued optional fields, matching the finite
// default set the lifecycle manager guarantees every Config gets.
func (c Config) withDefaults() Config {
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = 15 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
	if c.TransportTimeout <= 0 {
		c.TransportTimeout = 5 * time.Second
	}
	if c.HeartbeatMissLimit <= 0 {
		c.HeartbeatMissLimit = 3
	}
	if c.ReconnectIntervalSeconds <= 0 {
		c.ReconnectIntervalSeconds = 5
	}
	if c.SessionStore == nil {
		c.SessionStore = registry.NopSessionStore{}
	}
	if c.Logger == nil {
		c.Logger = corelog.Default
	}
	if c.Codec == nil {
		c.Codec = codec.Get(codec.TypeJSON)
	}
	return c
}

// Client is the lifecycle manager: it exclusively owns the request
// transport, reply server, and handler registry, and drives the connection
// state machine across them.
type Client struct {
	cfg Config

	transport *transport.RequestTransport
	srv       *server.ReplyServer
	registry  *registry.HandlerRegistry

	state atomic.Int32

	mu        sync.Mutex // guards sessionID, heartbeatMisses, stopHeartbeat
	sessionID string

	heartbeatMisses int
	stopHeartbeat   chan struct{}
	wg              sync.WaitGroup

	reconnectAttempts int
}

// New creates a client from cfg and an empty handler registry. Register
// functions on Registry() before calling Connect so the initial handshake
// advertises them.
func New(cfg Config) *Client {
	cfg = cfg.withDefaults()
	c := &Client{
		cfg:       cfg,
		transport: transport.New(cfg.AgentAddr, cfg.TransportTimeout),
		registry:  registry.NewHandlerRegistry(),
	}
	c.transport.SetLogger(cfg.Logger)
	c.state.Store(int32(Disconnected))
	return c
}

// Registry exposes the handler registry functions are registered on before
// (or, for a reconnect, across) Connect.
func (c *Client) Registry() *registry.HandlerRegistry { return c.registry }

// Invoker returns a facade for issuing remote invocations through the Agent
// over this client's request transport. Valid once Connect has succeeded;
// calls issued before that fail with NotConnected, same as any other use of
// the underlying transport.
func (c *Client) Invoker() *invoker.Invoker {
	return invoker.New(c.transport, c.cfg.Codec)
}

// State reports the current lifecycle state.
func (c *Client) State() State { return State(c.state.Load()) }

// IsConnected reports whether the state is Registered.
func (c *Client) IsConnected() bool { return c.State() == Registered }

// Connect starts the lifecycle manager. If cfg.BlockingConnect is true, it
// returns only once the registration handshake has succeeded or retries
// are exhausted; otherwise it returns immediately and the handshake (and
// any subsequent reconnects) run in the background.
func (c *Client) Connect() error {
	c.state.Store(int32(Connecting))

	if c.cfg.BlockingConnect {
		return c.connectLoop()
	}

	go func() {
		if err := c.connectLoop(); err != nil {
			c.cfg.Logger.Errorf("client: background connect failed: %v", err)
		}
	}()
	return nil
}

// connectLoop performs the handshake, retrying per the reconnect policy
// until it succeeds, the attempt cap is hit, or auto-reconnect is disabled.
func (c *Client) connectLoop() error {
	for {
		err := c.handshake()
		if err == nil {
			c.startHeartbeat()
			return nil
		}

		c.cfg.Logger.Warnf("client: handshake failed: %v", err)
		if !c.cfg.AutoReconnect {
			c.state.Store(int32(Disconnected))
			return err
		}

		c.reconnectAttempts++
		if c.cfg.ReconnectMaxAttempts > 0 && c.reconnectAttempts >= c.cfg.ReconnectMaxAttempts {
			c.state.Store(int32(Disconnected))
			return corerr.Wrap(corerr.NotConnected, err, "client: exhausted %d reconnect attempts", c.cfg.ReconnectMaxAttempts)
		}

		time.Sleep(time.Duration(c.cfg.ReconnectIntervalSeconds) * time.Second)
	}
}

// handshake performs the four-step registration sequence: connect the
// request transport, start the reply server, send the registration
// request, and transition to Registered on success.
func (c *Client) handshake() error {
	if err := c.transport.Connect(); err != nil {
		return corerr.Wrap(corerr.TransportInit, err, "client: connect transport")
	}

	if c.srv == nil {
		c.srv = server.New(c.cfg.LocalListen, c.dispatch, server.WithLogger(c.cfg.Logger))
	}
	if !c.srv.IsRunning() {
		if err := c.srv.Start(); err != nil {
			c.transport.Close()
			return corerr.Wrap(corerr.Bind, err, "client: start reply server")
		}
	}

	descriptors := c.registry.List()
	reqBody, err := c.cfg.Codec.Encode(message.RegisterLocalRequest{
		ServiceID:   c.cfg.ServiceID,
		Env:         c.cfg.Env,
		GameID:      c.cfg.GameID,
		LocalAddr:   c.srv.LocalAddress(),
		Descriptors: descriptors,
	})
	if err != nil {
		return corerr.Wrap(corerr.InvalidArgument, err, "client: encode registration request")
	}

	_, replyBody, err := c.transport.Call(protocol.RegisterLocalRequest, reqBody)
	if err != nil {
		return err
	}

	var reply message.RegisterLocalResponse
	if err := c.cfg.Codec.Decode(replyBody, &reply); err != nil {
		return corerr.Wrap(corerr.Malformed, err, "client: decode registration response")
	}
	if !reply.Accepted {
		return corerr.New(corerr.HandlerRejected, "client: registration rejected: %s", reply.Error)
	}
	if err := checkMinAgentVersion(reply.MinAgentVersion); err != nil {
		return err
	}

	c.mu.Lock()
	c.sessionID = reply.SessionID
	c.heartbeatMisses = 0
	c.mu.Unlock()

	c.reconnectAttempts = 0
	c.state.Store(int32(Registered))

	if err := c.cfg.SessionStore.SaveSession(context.Background(), c.cfg.ServiceID, reply.SessionID, descriptors); err != nil {
		c.cfg.Logger.Warnf("client: save session: %v", err)
	}
	return nil
}

// dispatch adapts a decoded request frame to the handler registry, looking
// up the function id carried in the invoke envelope.
func (c *Client) dispatch(msgType protocol.MessageType, reqID uint32, body []byte) ([]byte, error) {
	var env message.InvokeEnvelope
	if err := c.cfg.Codec.Decode(body, &env); err != nil {
		return nil, corerr.Wrap(corerr.Malformed, err, "client: decode invoke envelope")
	}

	_, handler, ok := c.registry.Lookup(env.FunctionID)
	if !ok {
		reply, _ := c.cfg.Codec.Encode(message.InvokeReply{Error: "unknown function: " + env.FunctionID})
		return reply, nil
	}

	payload, err := handler(env.Context, env.Payload)
	if err != nil {
		reply, _ := c.cfg.Codec.Encode(message.InvokeReply{Error: err.Error()})
		return reply, nil
	}

	reply, err := c.cfg.Codec.Encode(message.InvokeReply{Payload: payload})
	if err != nil {
		return nil, corerr.Wrap(corerr.InvalidArgument, err, "client: encode invoke reply")
	}
	return reply, nil
}

// startHeartbeat spawns the heartbeat ticker task. It is a no-op if one is
// already running.
func (c *Client) startHeartbeat() {
	c.mu.Lock()
	if c.stopHeartbeat != nil {
		c.mu.Unlock()
		return
	}
	stop := make(chan struct{})
	c.stopHeartbeat = stop
	c.mu.Unlock()

	c.wg.Add(1)
	go c.heartbeatLoop(stop)
}

func (c *Client) heartbeatLoop(stop chan struct{}) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if c.State() != Registered {
				return
			}
			if err := c.sendHeartbeat(); err != nil {
				c.cfg.Logger.Warnf("client: heartbeat: %v", err)
				c.mu.Lock()
				c.heartbeatMisses++
				misses := c.heartbeatMisses
				c.mu.Unlock()

				if misses >= c.cfg.HeartbeatMissLimit {
					c.onConnectionLost()
					return
				}
			}
		}
	}
}

func (c *Client) sendHeartbeat() error {
	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()

	body, err := c.cfg.Codec.Encode(message.HeartbeatLocalRequest{SessionID: sessionID})
	if err != nil {
		return err
	}

	_, replyBody, err := c.transport.Call(protocol.HeartbeatLocalRequest, body)
	if err != nil {
		return err
	}

	var reply message.HeartbeatLocalResponse
	if err := c.cfg.Codec.Decode(replyBody, &reply); err != nil {
		return err
	}
	if !reply.Ok {
		return corerr.New(corerr.NotConnected, "client: heartbeat rejected by agent")
	}

	c.mu.Lock()
	c.heartbeatMisses = 0
	c.mu.Unlock()
	return nil
}

// onConnectionLost reacts to a heartbeat failure by transitioning either to
// Connecting (and relaunching the connect loop, which preserves the
// registry across the reconnect) or to Disconnected.
func (c *Client) onConnectionLost() {
	if c.State() == ShuttingDown || c.State() == Closed {
		return
	}

	c.mu.Lock()
	c.stopHeartbeat = nil
	c.mu.Unlock()

	if !c.cfg.AutoReconnect {
		c.state.Store(int32(Disconnected))
		return
	}

	c.state.Store(int32(Connecting))
	go func() {
		if err := c.connectLoop(); err != nil {
			c.cfg.Logger.Errorf("client: reconnect failed: %v", err)
		}
	}()
}

// Stop performs the graceful-stop sequence: stop accepting new work, drain
// the reply-serve task, stop the heartbeat, close the transport, and
// transition to Closed. Waiting for the reply-serve task and the heartbeat
// task is bounded by cfg.ShutdownTimeout: a handler that's hung mid-dispatch
// can't block Stop forever, since past the deadline Stop stops waiting for
// it. The transport is then closed; Close waits for any in-flight Call to
// finish or reach its own timeout, it does not interrupt it.
func (c *Client) Stop() {
	prev := State(c.state.Swap(int32(ShuttingDown)))
	if prev == Closed {
		c.state.Store(int32(Closed))
		return
	}

	deadline := time.Now().Add(c.cfg.ShutdownTimeout)
	drained := true

	if c.srv != nil {
		if !c.srv.StopWithTimeout(time.Until(deadline)) {
			drained = false
			c.cfg.Logger.Warnf("client: shutdown_timeout elapsed waiting for reply-serve task to drain")
		}
	}

	c.mu.Lock()
	stop := c.stopHeartbeat
	c.stopHeartbeat = nil
	c.mu.Unlock()
	if stop != nil {
		close(stop)
	}

	if !waitWithDeadline(&c.wg, time.Until(deadline)) {
		drained = false
		c.cfg.Logger.Warnf("client: shutdown_timeout elapsed waiting for heartbeat task to stop")
	}

	if !drained {
		// A task is still running past the deadline; the transport is closed
		// below regardless, once any in-flight Call has released it.
		c.cfg.Logger.Warnf("client: forcing transport close after shutdown_timeout")
	}
	c.transport.Close()

	c.mu.Lock()
	sessionID := c.sessionID
	c.mu.Unlock()
	if sessionID != "" {
		if err := c.cfg.SessionStore.ClearSession(context.Background(), c.cfg.ServiceID); err != nil {
			c.cfg.Logger.Warnf("client: clear session: %v", err)
		}
	}

	c.state.Store(int32(Closed))
}

// waitWithDeadline waits for wg to drain, giving up after d and returning
// false instead of blocking past it. The spawned goroutine outlives the
// call on timeout but exits harmlessly once wg eventually completes.
func waitWithDeadline(wg *sync.WaitGroup, d time.Duration) bool {
	if d <= 0 {
		d = 0
	}
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}
