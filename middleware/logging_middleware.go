package middleware

import (
	"context"
	"time"

	"croupier-sdk-go/corelog"
	"croupier-sdk-go/protocol"
)

// Logging records the message type and duration of every dispatched
// request against the pluggable corelog.Logger.
func Logging(logger corelog.Logger) Middleware {
	if logger == nil {
		logger = corelog.Default
	}
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msgType protocol.MessageType, reqID uint32, body []byte) ([]byte, error) {
			start := time.Now()
			reply, err := next(ctx, msgType, reqID, body)
			logger.Infof("msg=%s req_id=%d duration=%s", protocol.NameOf(msgType), reqID, time.Since(start))
			if err != nil {
				logger.Errorf("msg=%s req_id=%d error=%v", protocol.NameOf(msgType), reqID, err)
			}
			return reply, err
		}
	}
}
