// Package middleware implements the onion-model chain the reply server
// wraps around a dispatched handler call: each middleware can run pre/post
// logic around next() or short-circuit without calling it at all.
package middleware

import (
	"context"

	"croupier-sdk-go/protocol"
)

// HandlerFunc dispatches one decoded request frame to its handler and
// returns the reply body (or an error, which the reply server turns into
// an empty-bodied reply).
type HandlerFunc func(ctx context.Context, msgType protocol.MessageType, reqID uint32, body []byte) ([]byte, error)

// Middleware wraps a HandlerFunc with additional behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares into one: Chain(A, B, C)(handler) ==
// A(B(C(handler))), so request processing runs A.before, B.before,
// C.before, handler, then unwinds in reverse.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
