package test

import (
	"testing"
	"time"

	"croupier-sdk-go/codec"
	"croupier-sdk-go/message"
	"croupier-sdk-go/protocol"
	"croupier-sdk-go/server"
	"croupier-sdk-go/transport"
)

// BenchmarkSerialCall measures one goroutine issuing sequential echo calls
// over a single request transport.
func BenchmarkSerialCall(b *testing.B) {
	addr := "inproc://bench-serial"
	srv := server.New(addr, echoHandler)
	if err := srv.Start(); err != nil {
		b.Fatal(err)
	}
	b.Cleanup(srv.Stop)

	tr := transport.New(addr, time.Second)
	if err := tr.Connect(); err != nil {
		b.Fatal(err)
	}
	b.Cleanup(tr.Close)

	payload := []byte(`{"A":1,"B":2}`)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := tr.Call(protocol.InvokeRequest, payload); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkConcurrentCall measures many goroutines sharing one reply server,
// each with its own request transport (the reply server's single bound
// socket accepts one peer connection at a time, so concurrency here comes
// from parallel transports, not from multiplexing a single connection).
func BenchmarkConcurrentCall(b *testing.B) {
	addr := "inproc://bench-concurrent"
	srv := server.New(addr, echoHandler)
	if err := srv.Start(); err != nil {
		b.Fatal(err)
	}
	b.Cleanup(srv.Stop)

	payload := []byte(`{"A":1,"B":2}`)
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tr := transport.New(addr, time.Second)
			if err := tr.Connect(); err != nil {
				b.Error(err)
				return
			}
			if _, _, err := tr.Call(protocol.InvokeRequest, payload); err != nil {
				tr.Close()
				b.Error(err)
				return
			}
			tr.Close()
		}
	})
}

// BenchmarkCodecJSON measures the default control-plane codec round-tripping
// a heartbeat body, with no network involved.
func BenchmarkCodecJSON(b *testing.B) {
	c := codec.Get(codec.TypeJSON)
	msg := message.HeartbeatLocalRequest{SessionID: "session-1234"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data, _ := c.Encode(msg)
		var out message.HeartbeatLocalRequest
		c.Decode(data, &out)
	}
}

// BenchmarkCodecBinary measures the same round trip through BinaryCodec,
// which heartbeat traffic can opt into for its lower allocation cost.
func BenchmarkCodecBinary(b *testing.B) {
	c := codec.Get(codec.TypeBinary)
	msg := message.HeartbeatLocalRequest{SessionID: "session-1234"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		data, _ := c.Encode(msg)
		var out message.HeartbeatLocalRequest
		c.Decode(data, &out)
	}
}
