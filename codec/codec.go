// Package codec provides the serialization layer used by the SDK's own
// control-plane bodies (registration handshake, heartbeat, invoke
// envelopes) — the one place the core is not fully agnostic to payload
// contents, since it must itself assemble those bodies. Everything beyond
// the control plane (arbitrary handler payloads) stays opaque []byte.
//
// A pluggable Type/Codec/Get shape keeps the wire format a configuration
// choice rather than something baked into every caller.
package codec

// Type identifies the serialization format used for a control-plane body.
type Type byte

const (
	// TypeJSON is human-readable and the default: easy to inspect on the
	// wire, cross-language, matches what an Agent written in another
	// language will expect for the handshake/heartbeat bodies.
	TypeJSON Type = 0
	// TypeBinary is the compact per-type binary format (see BinaryCodec),
	// for hosts that want to shave allocation/parsing cost off
	// high-frequency heartbeat traffic.
	TypeBinary Type = 1
)

// Codec serializes and deserializes a control-plane body.
type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
	Type() Type
}

// Get returns the codec implementation for t, defaulting to JSON for any
// unrecognized type rather than failing.
func Get(t Type) Codec {
	if t == TypeBinary {
		return &BinaryCodec{}
	}
	return &JSONCodec{}
}
