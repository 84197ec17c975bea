package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"croupier-sdk-go/corerr"
	"croupier-sdk-go/protocol"
)

// RateLimit guards the reply server's dispatch step with a token-bucket
// limiter, protecting a process from being invocation-flooded by a
// misbehaving or compromised peer.
//
// The limiter is created once in the outer closure, not per request —
// per-request construction would hand every request a fresh full bucket
// and defeat the limiter entirely.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msgType protocol.MessageType, reqID uint32, body []byte) ([]byte, error) {
			if !limiter.Allow() {
				return nil, corerr.New(corerr.HandlerError, "rate limit exceeded for %s", protocol.NameOf(msgType))
			}
			return next(ctx, msgType, reqID, body)
		}
	}
}
