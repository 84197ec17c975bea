// Package invoker implements the thin facade a client uses to issue
// invocations through the Agent: Invoke and its StartJob/CancelJob/
// GetJobResult siblings, each packing an opaque function id plus two byte
// blobs into the corresponding request type and unpacking the matching
// reply.
package invoker

import (
	"croupier-sdk-go/codec"
	"croupier-sdk-go/corerr"
	"croupier-sdk-go/message"
	"croupier-sdk-go/protocol"
)

// Transport is the subset of transport.RequestTransport the invoker needs.
// A narrow interface keeps this package testable without a real socket.
type Transport interface {
	Call(msgType protocol.MessageType, body []byte) (protocol.MessageType, []byte, error)
}

// Invoker packs and sends invocation requests over a Transport.
type Invoker struct {
	transport Transport
	codec     codec.Codec
}

// New creates an Invoker that encodes control-plane bodies with c. Passing
// a nil Codec defaults to JSON.
func New(transport Transport, c codec.Codec) *Invoker {
	if c == nil {
		c = codec.Get(codec.TypeJSON)
	}
	return &Invoker{transport: transport, codec: c}
}

func (iv *Invoker) call(reqType protocol.MessageType, functionID string, ctxBytes, payload []byte) ([]byte, error) {
	body, err := iv.codec.Encode(message.InvokeEnvelope{
		FunctionID: functionID,
		Context:    ctxBytes,
		Payload:    payload,
	})
	if err != nil {
		return nil, corerr.Wrap(corerr.InvalidArgument, err, "invoker: encode envelope for %s", functionID)
	}

	_, replyBody, err := iv.transport.Call(reqType, body)
	if err != nil {
		return nil, err
	}

	var reply message.InvokeReply
	if err := iv.codec.Decode(replyBody, &reply); err != nil {
		return nil, corerr.Wrap(corerr.Malformed, err, "invoker: decode reply for %s", functionID)
	}
	if reply.Error != "" {
		return nil, corerr.New(corerr.HandlerError, "invoker: %s: %s", functionID, reply.Error)
	}
	return reply.Payload, nil
}

// Invoke performs a synchronous remote invocation of functionID through the
// Agent, returning the opaque reply payload.
func (iv *Invoker) Invoke(functionID string, ctxBytes, payload []byte) ([]byte, error) {
	return iv.call(protocol.InvokeRequest, functionID, ctxBytes, payload)
}

// StartJob starts an asynchronous job for functionID, returning whatever
// opaque job handle the Agent encodes in its reply payload.
func (iv *Invoker) StartJob(functionID string, ctxBytes, payload []byte) ([]byte, error) {
	return iv.call(protocol.StartJobRequest, functionID, ctxBytes, payload)
}

// CancelJob requests cancellation of a previously started job. payload
// carries the opaque job handle.
func (iv *Invoker) CancelJob(functionID string, ctxBytes, payload []byte) ([]byte, error) {
	return iv.call(protocol.CancelJobRequest, functionID, ctxBytes, payload)
}

// GetJobResult polls for the result of a previously started job. payload
// carries the opaque job handle.
func (iv *Invoker) GetJobResult(functionID string, ctxBytes, payload []byte) ([]byte, error) {
	return iv.call(protocol.GetJobResultRequest, functionID, ctxBytes, payload)
}
