package middleware

import (
	"context"
	"time"

	"croupier-sdk-go/corerr"
	"croupier-sdk-go/protocol"
)

// Timeout bounds how long a dispatched handler may run before the reply
// server gives up waiting and returns a HandlerError instead.
//
// The handler goroutine is not forcibly cancelled on timeout — only the
// caller stops waiting for it; a well-behaved handler should itself observe
// ctx.Done().
func Timeout(d time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, msgType protocol.MessageType, reqID uint32, body []byte) ([]byte, error) {
			if d <= 0 {
				return next(ctx, msgType, reqID, body)
			}

			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			type result struct {
				reply []byte
				err   error
			}
			done := make(chan result, 1)
			go func() {
				reply, err := next(ctx, msgType, reqID, body)
				done <- result{reply, err}
			}()

			select {
			case r := <-done:
				return r.reply, r.err
			case <-ctx.Done():
				return nil, corerr.New(corerr.HandlerError, "handler for %s timed out after %s", protocol.NameOf(msgType), d)
			}
		}
	}
}
