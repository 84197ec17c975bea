// Package message defines the control-plane body structures the client
// lifecycle manager and invoker facade exchange with the Agent — the
// handshake, heartbeat, and invoke envelopes. Everything else (the actual
// handler payload bytes) stays opaque to the core and is never represented
// as a Go struct here. Each message family gets its own narrow body struct
// rather than one shared envelope type, since the families carry
// unrelated fields.
package message

import "croupier-sdk-go/registry"

// RegisterLocalRequest is the body of protocol.RegisterLocalRequest.
type RegisterLocalRequest struct {
	ServiceID   string                        `json:"service_id"`
	Env         string                        `json:"env"`
	GameID      string                        `json:"game_id"`
	LocalAddr   string                        `json:"local_addr"`
	Descriptors []registry.FunctionDescriptor `json:"descriptors"`
}

// RegisterLocalResponse is the body of protocol.RegisterLocalResponse.
type RegisterLocalResponse struct {
	SessionID       string `json:"session_id"`
	Accepted        bool   `json:"accepted"`
	Error           string `json:"error,omitempty"`
	MinAgentVersion string `json:"min_agent_version,omitempty"`
}

// HeartbeatLocalRequest is the body of protocol.HeartbeatLocalRequest.
type HeartbeatLocalRequest struct {
	SessionID string `json:"session_id"`
}

// HeartbeatLocalResponse is the body of protocol.HeartbeatLocalResponse.
type HeartbeatLocalResponse struct {
	Ok bool `json:"ok"`
}

// ListLocalRequest is the body of protocol.ListLocalRequest.
type ListLocalRequest struct {
	SessionID string `json:"session_id"`
}

// ListLocalResponse is the body of protocol.ListLocalResponse.
type ListLocalResponse struct {
	Descriptors []registry.FunctionDescriptor `json:"descriptors"`
}

// InvokeEnvelope is the body the invoker facade packs into
// protocol.InvokeRequest (and its StartJob/CancelJob/GetJobResult
// siblings): the function id plus two opaque byte blobs, context and
// payload.
type InvokeEnvelope struct {
	FunctionID string `json:"function_id"`
	Context    []byte `json:"context,omitempty"`
	Payload    []byte `json:"payload,omitempty"`
}

// InvokeReply is the body returned in protocol.InvokeResponse and its
// siblings.
type InvokeReply struct {
	Payload []byte `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}
