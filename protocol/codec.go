package protocol

import (
	"encoding/binary"

	"croupier-sdk-go/corerr"
)

// HeaderSize is the fixed envelope header: Version(1) + MsgID(3) + ReqID(4).
//
// There is no magic number and no explicit body-length field: the
// underlying transport is a message-oriented request/reply socket that
// delivers exactly one frame per receive, so the body is simply everything
// after the header.
const HeaderSize = 8

// Envelope is the decoded form of one wire frame.
type Envelope struct {
	Version uint8
	MsgID   MessageType
	ReqID   uint32
	Body    []byte
}

// Version1 is the envelope version this codec emits. Decode reports the
// received version byte as-is and does not reject other values.
const Version1 uint8 = 1

// Encode writes the 8-byte envelope header followed by body into a single
// frame. msgID must fit in 24 bits.
func Encode(msgID MessageType, reqID uint32, body []byte) ([]byte, error) {
	if msgID > MaxMessageType {
		return nil, corerr.New(corerr.InvalidArgument, "protocol: msg_id %#x exceeds 24 bits", uint32(msgID))
	}

	frame := make([]byte, HeaderSize+len(body))
	frame[0] = Version1
	putMsgID(frame[1:4], msgID)
	binary.BigEndian.PutUint32(frame[4:8], reqID)
	copy(frame[HeaderSize:], body)
	return frame, nil
}

// Decode parses a single received frame into its envelope components. The
// frame is a complete message (not a stream) because the transport is
// message-oriented; frames shorter than HeaderSize are rejected.
func Decode(frame []byte) (Envelope, error) {
	if len(frame) < HeaderSize {
		return Envelope{}, corerr.New(corerr.Malformed, "protocol: frame length %d below header size %d", len(frame), HeaderSize)
	}

	env := Envelope{
		Version: frame[0],
		MsgID:   getMsgID(frame[1:4]),
		ReqID:   binary.BigEndian.Uint32(frame[4:8]),
	}
	if len(frame) > HeaderSize {
		body := make([]byte, len(frame)-HeaderSize)
		copy(body, frame[HeaderSize:])
		env.Body = body
	}
	return env, nil
}

func putMsgID(buf []byte, msgID MessageType) {
	buf[0] = byte(msgID >> 16)
	buf[1] = byte(msgID >> 8)
	buf[2] = byte(msgID)
}

func getMsgID(buf []byte) MessageType {
	return MessageType(buf[0])<<16 | MessageType(buf[1])<<8 | MessageType(buf[2])
}
