package client

import (
	"sync/atomic"
	"testing"
	"time"

	"croupier-sdk-go/codec"
	"croupier-sdk-go/message"
	"croupier-sdk-go/protocol"
	"croupier-sdk-go/registry"
	"croupier-sdk-go/server"
)

// newTestReplyServer starts a reply server bound to addr, handing each
// decoded request to handle. Callers are responsible for stopping it.
func newTestReplyServer(t *testing.T, addr string, handle server.Handler) *server.ReplyServer {
	t.Helper()
	srv := server.New(addr, handle)
	if err := srv.Start(); err != nil {
		t.Fatalf("start fake agent reply server on %s: %v", addr, err)
	}
	return srv
}

// fakeAgent answers RegisterLocalRequest and HeartbeatLocalRequest over an
// inproc reply socket, standing in for a real Agent process.
type fakeAgent struct {
	c            codec.Codec
	acceptedOk   bool
	heartbeatsOk atomic.Bool
	registerHits atomic.Int32
}

func newFakeAgent() *fakeAgent {
	a := &fakeAgent{c: codec.Get(codec.TypeJSON), acceptedOk: true}
	a.heartbeatsOk.Store(true)
	return a
}

func (a *fakeAgent) handle(msgType protocol.MessageType, reqID uint32, body []byte) ([]byte, error) {
	switch msgType {
	case protocol.RegisterLocalRequest:
		a.registerHits.Add(1)
		var req message.RegisterLocalRequest
		_ = a.c.Decode(body, &req)
		reply, _ := a.c.Encode(message.RegisterLocalResponse{
			SessionID: "session-1",
			Accepted:  a.acceptedOk,
		})
		return reply, nil
	case protocol.HeartbeatLocalRequest:
		reply, _ := a.c.Encode(message.HeartbeatLocalResponse{Ok: a.heartbeatsOk.Load()})
		return reply, nil
	default:
		reply, _ := a.c.Encode(message.InvokeReply{Error: "unsupported in test agent"})
		return reply, nil
	}
}

func TestConnectPerformsHandshakeAndReachesRegistered(t *testing.T) {
	addr := "inproc://client-test-connect"
	agent := newFakeAgent()
	agentSrv := newTestReplyServer(t, addr, agent.handle)
	defer agentSrv.Stop()

	cli := New(Config{
		ServiceID:       "svc-1",
		AgentAddr:       addr,
		LocalListen:     "inproc://client-test-connect-local",
		BlockingConnect: true,
	})
	if err := cli.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer cli.Stop()

	if cli.State() != Registered {
		t.Fatalf("state = %v, want Registered", cli.State())
	}
	if !cli.IsConnected() {
		t.Fatalf("IsConnected() = false, want true")
	}
}

func TestConnectFailsWhenRegistrationRejected(t *testing.T) {
	addr := "inproc://client-test-reject"
	agent := newFakeAgent()
	agent.acceptedOk = false
	agentSrv := newTestReplyServer(t, addr, agent.handle)
	defer agentSrv.Stop()

	cli := New(Config{
		ServiceID:       "svc-1",
		AgentAddr:       addr,
		LocalListen:     "inproc://client-test-reject-local",
		BlockingConnect: true,
	})
	if err := cli.Connect(); err == nil {
		t.Fatalf("expected Connect to fail on rejected registration")
	}
	if cli.State() != Disconnected {
		t.Fatalf("state = %v, want Disconnected", cli.State())
	}
}

func TestStopIsIdempotentAndTransitionsToClosed(t *testing.T) {
	addr := "inproc://client-test-stop"
	agent := newFakeAgent()
	agentSrv := newTestReplyServer(t, addr, agent.handle)
	defer agentSrv.Stop()

	cli := New(Config{
		ServiceID:       "svc-1",
		AgentAddr:       addr,
		LocalListen:     "inproc://client-test-stop-local",
		BlockingConnect: true,
	})
	if err := cli.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	cli.Stop()
	cli.Stop() // idempotent

	if cli.State() != Closed {
		t.Fatalf("state = %v, want Closed", cli.State())
	}
}

func TestRegisteredFunctionsAreAdvertisedOnConnect(t *testing.T) {
	addr := "inproc://client-test-advertise"
	agent := newFakeAgent()
	agentSrv := newTestReplyServer(t, addr, agent.handle)
	defer agentSrv.Stop()

	cli := New(Config{
		ServiceID:       "svc-1",
		AgentAddr:       addr,
		LocalListen:     "inproc://client-test-advertise-local",
		BlockingConnect: true,
	})
	cli.Registry().Register(registry.FunctionDescriptor{ID: "player.ban"}, func(ctxBytes, payload []byte) ([]byte, error) {
		return payload, nil
	})

	if err := cli.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer cli.Stop()

	if agent.registerHits.Load() != 1 {
		t.Fatalf("registerHits = %d, want 1", agent.registerHits.Load())
	}
}

func TestHeartbeatFailureTriggersReconnectWhenAutoReconnectEnabled(t *testing.T) {
	addr := "inproc://client-test-reconnect"
	agent := newFakeAgent()
	agentSrv := newTestReplyServer(t, addr, agent.handle)
	defer agentSrv.Stop()

	cli := New(Config{
		ServiceID:                "svc-1",
		AgentAddr:                addr,
		LocalListen:              "inproc://client-test-reconnect-local",
		BlockingConnect:          true,
		AutoReconnect:            true,
		HeartbeatInterval:        20 * time.Millisecond,
		HeartbeatMissLimit:       1,
		ReconnectIntervalSeconds: 1,
	})
	if err := cli.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer cli.Stop()

	agent.heartbeatsOk.Store(false)

	// The fake agent still accepts registration, so a lost heartbeat should
	// drive a full reconnect: a second RegisterLocalRequest lands, and the
	// client ends up back in Registered rather than stuck in Connecting.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if agent.registerHits.Load() >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if agent.registerHits.Load() < 2 {
		t.Fatalf("client never re-registered after heartbeat failures, registerHits=%d", agent.registerHits.Load())
	}
	if cli.State() != Registered {
		t.Fatalf("state after reconnect = %v, want Registered", cli.State())
	}
}
