package message

import (
	"encoding/binary"
	"fmt"
)

// MarshalBinary/UnmarshalBinary on the heartbeat pair give codec.BinaryCodec
// a concrete type to serialize: heartbeats are the highest-frequency
// control-plane traffic a long-lived connection generates, so they're the
// body type most worth a compact, allocation-light encoding over JSON's
// generic reflection-based one.

// MarshalBinary encodes SessionID as a uint16 length prefix followed by its
// UTF-8 bytes.
func (r HeartbeatLocalRequest) MarshalBinary() ([]byte, error) {
	if len(r.SessionID) > 0xFFFF {
		return nil, fmt.Errorf("message: session_id too long to encode (%d bytes)", len(r.SessionID))
	}
	buf := make([]byte, 2+len(r.SessionID))
	binary.BigEndian.PutUint16(buf[:2], uint16(len(r.SessionID)))
	copy(buf[2:], r.SessionID)
	return buf, nil
}

// UnmarshalBinary is the inverse of MarshalBinary.
func (r *HeartbeatLocalRequest) UnmarshalBinary(data []byte) error {
	if len(data) < 2 {
		return fmt.Errorf("message: heartbeat request too short (%d bytes)", len(data))
	}
	n := binary.BigEndian.Uint16(data[:2])
	if len(data) < 2+int(n) {
		return fmt.Errorf("message: heartbeat request truncated session_id")
	}
	r.SessionID = string(data[2 : 2+n])
	return nil
}

// MarshalBinary encodes Ok as a single byte.
func (r HeartbeatLocalResponse) MarshalBinary() ([]byte, error) {
	if r.Ok {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

// UnmarshalBinary is the inverse of MarshalBinary.
func (r *HeartbeatLocalResponse) UnmarshalBinary(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("message: heartbeat response must be exactly 1 byte, got %d", len(data))
	}
	r.Ok = data[0] != 0
	return nil
}
