package codec

import (
	"encoding"
	"fmt"
)

// BinaryCodec delegates to the standard encoding.BinaryMarshaler /
// encoding.BinaryUnmarshaler interfaces, so it works with any body type that
// implements MarshalBinary/UnmarshalBinary with its own compact layout. In
// the message package only HeartbeatLocalRequest and HeartbeatLocalResponse
// do; encoding or decoding any other body returns an error.
type BinaryCodec struct{}

func (c *BinaryCodec) Encode(v any) ([]byte, error) {
	m, ok := v.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("codec: %T does not implement encoding.BinaryMarshaler", v)
	}
	return m.MarshalBinary()
}

func (c *BinaryCodec) Decode(data []byte, v any) error {
	m, ok := v.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("codec: %T does not implement encoding.BinaryUnmarshaler", v)
	}
	return m.UnmarshalBinary(data)
}

func (c *BinaryCodec) Type() Type { return TypeBinary }
