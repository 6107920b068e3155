package upstream

import (
	"context"
	"sync"

	"github.com/wayfarer-ai/roc/domain"
)

// FakeClient is an injectable Client for tests: it returns CannedResult
// for every call, optionally delayed, and records every spec it saw.
// Safe for concurrent use so it can stand in for a real client under
// collector's fan-out.
type FakeClient struct {
	CannedResult func(spec domain.ServiceCallSpec) domain.ServiceResult
	Delay        func(spec domain.ServiceCallSpec) <-chan struct{}

	mu    sync.Mutex
	Calls []domain.ServiceCallSpec
}

// Call implements Client.
func (f *FakeClient) Call(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult {
	f.mu.Lock()
	f.Calls = append(f.Calls, spec)
	f.mu.Unlock()

	if f.Delay != nil {
		select {
		case <-ctx.Done():
			return ctxErrResult(ctx, spec)
		case <-f.Delay(spec):
		}
	}

	if ctx.Err() != nil {
		return ctxErrResult(ctx, spec)
	}

	if f.CannedResult != nil {
		return f.CannedResult(spec)
	}
	return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, OK: true, Payload: "ok"}
}

// ctxErrResult reports a done ctx the way httpJSONCall does: a passed
// deadline is ErrorTimeout, any other cancellation ErrorCanceled.
func ctxErrResult(ctx context.Context, spec domain.ServiceCallSpec) domain.ServiceResult {
	kind := domain.ErrorCanceled
	if ctx.Err() == context.DeadlineExceeded {
		kind = domain.ErrorTimeout
	}
	return domain.ServiceResult{Kind: spec.Kind, Key: spec.Key, ErrKind: kind, Detail: ctx.Err().Error()}
}

// CallCount returns the number of recorded calls, safe under concurrent
// dispatch.
func (f *FakeClient) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
