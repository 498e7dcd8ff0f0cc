package policeoffice

import (
	"context"

	"github.com/policeoffice/policeoffice/internal/app"
)

// Outcome is the eventual result of work that is already running.
type Outcome[T any] struct {
	Value T
	Err   error
}

// TryCatch runs work and returns its value. If work returns an error or
// panics, the failure is reported through c with fields added to the error
// properties; TryCatch then returns the zero value and a nil error, or the
// original error when WithRethrow is given. A failure to write the fallback
// log is always returned.
func TryCatch[T any](ctx context.Context, c *Client, work func(ctx context.Context) (T, error), fields map[string]any, opts ...GuardOption) (T, error) {
	return app.Run(ctx, c.reporter, work, fields, opts...)
}

// Await is TryCatch for work that is already running and delivers one
// Outcome on pending. A closed channel or a cancelled ctx is reported as
// a failure.
func Await[T any](ctx context.Context, c *Client, pending <-chan Outcome[T], fields map[string]any, opts ...GuardOption) (T, error) {
	return app.Run(ctx, c.reporter, func(ctx context.Context) (T, error) {
		var zero T
		select {
		case o, ok := <-pending:
			if !ok {
				return zero, ErrNoOutcome
			}
			return o.Value, o.Err
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}, fields, opts...)
}

// Go starts work in a new goroutine and returns the channel Await expects.
// A panic in work is delivered as a *PanicError outcome.
func Go[T any](ctx context.Context, work func(ctx context.Context) (T, error)) <-chan Outcome[T] {
	ch := make(chan Outcome[T], 1)
	go func() {
		v, err := app.Invoke(ctx, work)
		ch <- Outcome[T]{Value: v, Err: err}
		close(ch)
	}()
	return ch
}
