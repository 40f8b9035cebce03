package async

import (
	"context"

	"github.com/bugnest/bugnest/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch runs handler in a new goroutine detached from ctx cancellation.
// The logger carried by ctx is kept. The returned channel receives the handler
// result (nil on success) exactly once and is then closed; callers that do not
// care may drop it.
func Dispatch(ctx context.Context, task string, handler func(ctx context.Context) error) <-chan error {
	bgCtx := context.WithoutCancel(ctx)
	bgCtx = logging.With(bgCtx, logging.From(ctx).With("task", task))

	done := make(chan error, 1)
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async task", "panic", r)
				done <- goerr.New("panic in async task", goerr.V("task", task), goerr.V("panic", r))
			}
		}()

		err := handler(bgCtx)
		if err != nil {
			logging.From(bgCtx).Error("async task failed", "error", err.Error())
		}
		done <- err
	}()

	return done
}
