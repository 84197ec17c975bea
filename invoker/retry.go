package invoker

import (
	"time"

	"croupier-sdk-go/corerr"
)

// RetryableKinds lists the corerr.Kind values RetryingInvoker treats as
// transient. A HandlerError or InvalidArgument is a property of the call
// itself and retrying it would just reproduce the same failure; a Timeout,
// Dial, or NotConnected can plausibly succeed on a second attempt once the
// Agent connection recovers.
var RetryableKinds = []corerr.Kind{
	corerr.Timeout,
	corerr.Dial,
	corerr.NotConnected,
}

// Caller is the subset of Invoker's public surface RetryingInvoker retries
// around. Both *Invoker and *RetryingInvoker satisfy it, so either can be
// passed wherever a Caller is expected; APIs that take a concrete *Invoker
// (such as NewRoutedInvoker) do not accept a RetryingInvoker.
type Caller interface {
	Invoke(functionID string, ctxBytes, payload []byte) ([]byte, error)
	StartJob(functionID string, ctxBytes, payload []byte) ([]byte, error)
	CancelJob(functionID string, ctxBytes, payload []byte) ([]byte, error)
	GetJobResult(functionID string, ctxBytes, payload []byte) ([]byte, error)
}

// RetryingInvoker wraps a Caller and retries a call on a transient error up
// to MaxRetries times, waiting BaseDelay before the first retry and doubling
// the wait before each further one.
// Whether an error is transient is decided by corerr.Is against
// RetryableKinds rather than by matching substrings in the error text.
type RetryingInvoker struct {
	next       Caller
	MaxRetries int
	BaseDelay  time.Duration
}

// NewRetryingInvoker wraps next with exponential-backoff retry.
// maxRetries <= 0 disables retrying entirely (the call always happens
// exactly once).
func NewRetryingInvoker(next Caller, maxRetries int, baseDelay time.Duration) *RetryingInvoker {
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &RetryingInvoker{next: next, MaxRetries: maxRetries, BaseDelay: baseDelay}
}

func isRetryable(err error) bool {
	for _, k := range RetryableKinds {
		if corerr.Is(err, k) {
			return true
		}
	}
	return false
}

// retry runs call, retrying it while the returned error is retryable and
// the attempt budget remains, sleeping BaseDelay*2^(attempt-1) before
// attempt number attempt (attempt 0 is the first call and does not sleep).
func (r *RetryingInvoker) retry(call func() ([]byte, error)) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= r.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(r.BaseDelay * (1 << uint(attempt-1)))
		}
		payload, err := call()
		if err == nil {
			return payload, nil
		}
		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

func (r *RetryingInvoker) Invoke(functionID string, ctxBytes, payload []byte) ([]byte, error) {
	return r.retry(func() ([]byte, error) { return r.next.Invoke(functionID, ctxBytes, payload) })
}

func (r *RetryingInvoker) StartJob(functionID string, ctxBytes, payload []byte) ([]byte, error) {
	return r.retry(func() ([]byte, error) { return r.next.StartJob(functionID, ctxBytes, payload) })
}

func (r *RetryingInvoker) CancelJob(functionID string, ctxBytes, payload []byte) ([]byte, error) {
	return r.retry(func() ([]byte, error) { return r.next.CancelJob(functionID, ctxBytes, payload) })
}

func (r *RetryingInvoker) GetJobResult(functionID string, ctxBytes, payload []byte) ([]byte, error) {
	return r.retry(func() ([]byte, error) { return r.next.GetJobResult(functionID, ctxBytes, payload) })
}
