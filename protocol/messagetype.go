// Package protocol implements the Croupier Agent wire protocol: the fixed
// 8-byte envelope header, the 24-bit message-type namespace, and the
// request/response pairing rules that the transport and reply server rely
// on to demultiplex frames.
package protocol

import "fmt"

// MessageType is a 24-bit identifier assigning semantics to a frame. The
// high byte selects a service family; within a family the low byte is even
// for responses and odd for requests, with two one-way exceptions (JobEvent,
// MetricEvent) that are neither.
type MessageType uint32

// MaxMessageType is the largest value that fits in 24 bits.
const MaxMessageType MessageType = 0xFFFFFF

// Control family (0x01xx).
const (
	RegisterRequest             MessageType = 0x010101
	RegisterResponse            MessageType = 0x010102
	HeartbeatRequest            MessageType = 0x010103
	HeartbeatResponse           MessageType = 0x010104
	RegisterCapabilitiesRequest MessageType = 0x010105
	RegisterCapabilitiesResponse MessageType = 0x010106
)

// Client family (0x02xx).
const (
	RegisterClientRequest      MessageType = 0x020101
	RegisterClientResponse     MessageType = 0x020102
	ClientHeartbeatRequest     MessageType = 0x020103
	ClientHeartbeatResponse    MessageType = 0x020104
	ListClientsRequest         MessageType = 0x020105
	ListClientsResponse        MessageType = 0x020106
	GetJobResultRequest        MessageType = 0x020107
	GetJobResultResponse       MessageType = 0x020108
)

// Invoker family (0x03xx).
const (
	InvokeRequest     MessageType = 0x030101
	InvokeResponse    MessageType = 0x030102
	StartJobRequest   MessageType = 0x030103
	StartJobResponse  MessageType = 0x030104
	StreamJobRequest  MessageType = 0x030105
	JobEvent          MessageType = 0x030106 // one-way notification; neither request nor response
	CancelJobRequest  MessageType = 0x030107
	CancelJobResponse MessageType = 0x030108
)

// Ops family (0x04xx).
const (
	GetSystemInfoRequest      MessageType = 0x040101
	GetSystemInfoResponse     MessageType = 0x040102
	ListProcessesRequest      MessageType = 0x040103
	ListProcessesResponse     MessageType = 0x040104
	ReportMetricsRequest      MessageType = 0x040105
	ReportMetricsResponse     MessageType = 0x040106
	StreamMetricsRequest      MessageType = 0x040107
	MetricEvent               MessageType = 0x040108 // one-way notification; neither request nor response
	RestartProcessRequest     MessageType = 0x040109
	RestartProcessResponse    MessageType = 0x04010A
	StopProcessRequest        MessageType = 0x04010B
	StopProcessResponse       MessageType = 0x04010C
	StartProcessRequest       MessageType = 0x04010D
	StartProcessResponse      MessageType = 0x04010E
	ExecuteCommandRequest     MessageType = 0x04010F
	ExecuteCommandResponse    MessageType = 0x040110
	ListServicesRequest       MessageType = 0x040111
	ListServicesResponse      MessageType = 0x040112
	GetServiceStatusRequest   MessageType = 0x040113
	GetServiceStatusResponse  MessageType = 0x040114
)

// LocalControl family (0x05xx) — Agent-side registration of local functions.
const (
	RegisterLocalRequest   MessageType = 0x050101
	RegisterLocalResponse  MessageType = 0x050102
	HeartbeatLocalRequest  MessageType = 0x050103
	HeartbeatLocalResponse MessageType = 0x050104
	ListLocalRequest       MessageType = 0x050105
	ListLocalResponse      MessageType = 0x050106
)

// MalformedSentinel is the reply type the reply server uses when it cannot
// decode an incoming frame well enough to pair a real response (see Decode's
// callers in the server package). It is chosen outside every assigned
// family's request/response range so it can never collide with a real
// response type.
const MalformedSentinel MessageType = 0x0100FE

// oneWay holds the message types that are neither requests nor responses
// despite their parity.
var oneWay = map[MessageType]bool{
	JobEvent:    true,
	MetricEvent: true,
}

// IsRequest reports whether msgID denotes a request frame: odd, and not one
// of the one-way notification exceptions.
func IsRequest(msgID MessageType) bool {
	if oneWay[msgID] {
		return false
	}
	return msgID%2 == 1
}

// IsResponse reports whether msgID denotes a response frame: even, and not
// one of the one-way notification exceptions.
func IsResponse(msgID MessageType) bool {
	if oneWay[msgID] {
		return false
	}
	return msgID%2 == 0
}

// PairedResponse returns the response type paired with request type msgID.
// Per the protocol invariant, the paired response is always msgID+1.
func PairedResponse(msgID MessageType) MessageType {
	return msgID + 1
}

var names = map[MessageType]string{
	RegisterRequest:              "RegisterRequest",
	RegisterResponse:             "RegisterResponse",
	HeartbeatRequest:             "HeartbeatRequest",
	HeartbeatResponse:            "HeartbeatResponse",
	RegisterCapabilitiesRequest:  "RegisterCapabilitiesRequest",
	RegisterCapabilitiesResponse: "RegisterCapabilitiesResponse",
	RegisterClientRequest:        "RegisterClientRequest",
	RegisterClientResponse:       "RegisterClientResponse",
	ClientHeartbeatRequest:       "ClientHeartbeatRequest",
	ClientHeartbeatResponse:      "ClientHeartbeatResponse",
	ListClientsRequest:           "ListClientsRequest",
	ListClientsResponse:          "ListClientsResponse",
	GetJobResultRequest:          "GetJobResultRequest",
	GetJobResultResponse:         "GetJobResultResponse",
	InvokeRequest:                "InvokeRequest",
	InvokeResponse:               "InvokeResponse",
	StartJobRequest:              "StartJobRequest",
	StartJobResponse:             "StartJobResponse",
	StreamJobRequest:             "StreamJobRequest",
	JobEvent:                     "JobEvent",
	CancelJobRequest:             "CancelJobRequest",
	CancelJobResponse:            "CancelJobResponse",
	GetSystemInfoRequest:         "GetSystemInfoRequest",
	GetSystemInfoResponse:        "GetSystemInfoResponse",
	ListProcessesRequest:         "ListProcessesRequest",
	ListProcessesResponse:        "ListProcessesResponse",
	ReportMetricsRequest:         "ReportMetricsRequest",
	ReportMetricsResponse:        "ReportMetricsResponse",
	StreamMetricsRequest:         "StreamMetricsRequest",
	MetricEvent:                  "MetricEvent",
	RestartProcessRequest:        "RestartProcessRequest",
	RestartProcessResponse:       "RestartProcessResponse",
	StopProcessRequest:           "StopProcessRequest",
	StopProcessResponse:          "StopProcessResponse",
	StartProcessRequest:          "StartProcessRequest",
	StartProcessResponse:         "StartProcessResponse",
	ExecuteCommandRequest:        "ExecuteCommandRequest",
	ExecuteCommandResponse:       "ExecuteCommandResponse",
	ListServicesRequest:          "ListServicesRequest",
	ListServicesResponse:         "ListServicesResponse",
	GetServiceStatusRequest:      "GetServiceStatusRequest",
	GetServiceStatusResponse:     "GetServiceStatusResponse",
	RegisterLocalRequest:         "RegisterLocalRequest",
	RegisterLocalResponse:        "RegisterLocalResponse",
	HeartbeatLocalRequest:        "HeartbeatLocalRequest",
	HeartbeatLocalResponse:       "HeartbeatLocalResponse",
	ListLocalRequest:             "ListLocalRequest",
	ListLocalResponse:            "ListLocalResponse",
	MalformedSentinel:            "MalformedSentinel",
}

// NameOf returns a human-readable identifier for msgID, for use in logs.
// Unknown types fall back to "Unknown(0x%X)".
func NameOf(msgID MessageType) string {
	if name, ok := names[msgID]; ok {
		return name
	}
	return fmt.Sprintf("Unknown(0x%X)", uint32(msgID))
}
