package transport

import (
	"encoding/binary"
	"io"
)

// A message-oriented request/reply socket delivers exactly one message per
// receive, with no application-visible length prefix. Go's net.Conn streams
// (TCP, Unix domain sockets, net.Pipe) have no such boundary, so this file
// supplies a minimal length-prefixed socket framing purely as a delivery
// mechanism — it carries exactly one protocol.Encode'd envelope per
// write/read and is never itself part of the logical wire format
// protocol.Decode parses. This keeps protocol.Envelope free of any length
// field while still running over ordinary Go stream sockets.
const maxFrameSize = 64 << 20 // 64MiB, generous upper bound against a corrupt length prefix

// WriteFrame writes payload to w prefixed with its 4-byte big-endian length.
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// ReadFrame reads one length-prefixed payload written by WriteFrame.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameSize {
		return nil, io.ErrUnexpectedEOF
	}
	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}
