package invoker

import (
	"testing"
	"time"

	"croupier-sdk-go/corerr"
)

// countingCaller returns errs[i] on the i-th call, then succeeds.
type countingCaller struct {
	errs  []error
	calls int
}

func (c *countingCaller) next() ([]byte, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) {
		return nil, c.errs[i]
	}
	return []byte("ok"), nil
}

func (c *countingCaller) Invoke(string, []byte, []byte) ([]byte, error)       { return c.next() }
func (c *countingCaller) StartJob(string, []byte, []byte) ([]byte, error)     { return c.next() }
func (c *countingCaller) CancelJob(string, []byte, []byte) ([]byte, error)    { return c.next() }
func (c *countingCaller) GetJobResult(string, []byte, []byte) ([]byte, error) { return c.next() }

func TestRetryingInvokerRetriesTransientErrors(t *testing.T) {
	c := &countingCaller{errs: []error{
		corerr.New(corerr.Timeout, "recv timed out"),
		corerr.New(corerr.Dial, "connect refused"),
	}}
	r := NewRetryingInvoker(c, 3, time.Millisecond)

	payload, err := r.Invoke("echo", nil, nil)
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if string(payload) != "ok" {
		t.Fatalf("got payload %q, want %q", payload, "ok")
	}
	if c.calls != 3 {
		t.Fatalf("expected 3 attempts (2 failures + 1 success), got %d", c.calls)
	}
}

func TestRetryingInvokerDoesNotRetryNonTransientErrors(t *testing.T) {
	c := &countingCaller{errs: []error{
		corerr.New(corerr.HandlerError, "function panicked"),
	}}
	r := NewRetryingInvoker(c, 3, time.Millisecond)

	_, err := r.StartJob("crashy", nil, nil)
	if err == nil {
		t.Fatal("expected error to surface")
	}
	if !corerr.Is(err, corerr.HandlerError) {
		t.Fatalf("expected HandlerError to survive unwrapped, got %v", err)
	}
	if c.calls != 1 {
		t.Fatalf("expected exactly 1 attempt for a non-retryable error, got %d", c.calls)
	}
}

func TestRetryingInvokerGivesUpAfterMaxRetries(t *testing.T) {
	c := &countingCaller{errs: []error{
		corerr.New(corerr.Timeout, "1"),
		corerr.New(corerr.Timeout, "2"),
		corerr.New(corerr.Timeout, "3"),
	}}
	r := NewRetryingInvoker(c, 2, time.Millisecond)

	_, err := r.GetJobResult("slow-job", nil, nil)
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if !corerr.Is(err, corerr.Timeout) {
		t.Fatalf("expected last Timeout error to surface, got %v", err)
	}
	if c.calls != 3 {
		t.Fatalf("expected 1 initial + 2 retries = 3 attempts, got %d", c.calls)
	}
}

func TestRetryingInvokerZeroMaxRetriesCallsOnce(t *testing.T) {
	c := &countingCaller{errs: []error{corerr.New(corerr.NotConnected, "down")}}
	r := NewRetryingInvoker(c, 0, time.Millisecond)

	_, err := r.CancelJob("job", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if c.calls != 1 {
		t.Fatalf("expected exactly 1 call with MaxRetries=0, got %d", c.calls)
	}
}
