package protocol

import (
	"bytes"
	"testing"

	"croupier-sdk-go/corerr"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name   string
		msgID  MessageType
		reqID  uint32
		body   []byte
	}{
		{"with body", InvokeRequest, 42, []byte("hello world")},
		{"empty body", HeartbeatRequest, 1, nil},
		{"max msg id", MaxMessageType, 0xFFFFFFFF, []byte{0xff}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			frame, err := Encode(tc.msgID, tc.reqID, tc.body)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			env, err := Decode(frame)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if env.Version != Version1 {
				t.Errorf("Version = %d, want %d", env.Version, Version1)
			}
			if env.MsgID != tc.msgID {
				t.Errorf("MsgID = %#x, want %#x", env.MsgID, tc.msgID)
			}
			if env.ReqID != tc.reqID {
				t.Errorf("ReqID = %d, want %d", env.ReqID, tc.reqID)
			}
			if !bytes.Equal(env.Body, tc.body) {
				t.Errorf("Body = %v, want %v", env.Body, tc.body)
			}
		})
	}
}

func TestEncodeRejectsOversizeMsgID(t *testing.T) {
	_, err := Encode(MaxMessageType+1, 1, nil)
	if !corerr.Is(err, corerr.InvalidArgument) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
}

func TestDecodeRejectsShortFrame(t *testing.T) {
	for n := 0; n < HeaderSize; n++ {
		_, err := Decode(make([]byte, n))
		if !corerr.Is(err, corerr.Malformed) {
			t.Fatalf("len=%d: expected Malformed, got %v", n, err)
		}
	}
}

func TestDecodeExactHeaderSizeHasNilBody(t *testing.T) {
	frame, err := Encode(InvokeRequest, 1, nil)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(frame) != HeaderSize {
		t.Fatalf("frame length = %d, want %d", len(frame), HeaderSize)
	}
	env, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(env.Body) != 0 {
		t.Fatalf("Body = %v, want empty", env.Body)
	}
}

func BenchmarkEncode(b *testing.B) {
	body := []byte("benchmark payload")
	for i := 0; i < b.N; i++ {
		if _, err := Encode(InvokeRequest, uint32(i), body); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	frame, _ := Encode(InvokeRequest, 1, []byte("benchmark payload"))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Decode(frame); err != nil {
			b.Fatal(err)
		}
	}
}
