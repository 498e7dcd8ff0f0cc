package app

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/policeoffice/policeoffice/internal/domain"
)

// Catcher reports error properties. *Reporter satisfies it.
type Catcher interface {
	Catch(ctx context.Context, props domain.ErrorProperties) (domain.Result, error)
}

// GuardOption configures a guarded call.
type GuardOption func(*guardOptions)

type guardOptions struct {
	rethrow bool
}

// WithRethrow makes a guarded call return the original error after it has
// been reported. By default the error is swallowed.
func WithRethrow() GuardOption {
	return func(o *guardOptions) { o.rethrow = true }
}

// Run invokes work and returns its value. If work returns an error or
// panics, the failure is reported through c with fields merged into the
// error properties, and Run returns the zero value with a nil error, or
// with the original error under WithRethrow. An error from c itself is
// always returned.
func Run[T any](ctx context.Context, c Catcher, work func(ctx context.Context) (T, error), fields map[string]any, opts ...GuardOption) (T, error) {
	v, err := Invoke(ctx, work)
	return settle(ctx, c, v, err, fields, opts)
}

// Invoke calls work, converting a panic into a *domain.PanicError carrying
// the recovered value and the goroutine stack.
func Invoke[T any](ctx context.Context, work func(ctx context.Context) (T, error)) (v T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			var zero T
			v, err = zero, &domain.PanicError{Value: rec, Stack: string(debug.Stack())}
		}
	}()
	return work(ctx)
}

func settle[T any](ctx context.Context, c Catcher, v T, err error, fields map[string]any, opts []GuardOption) (T, error) {
	if err == nil {
		return v, nil
	}

	var o guardOptions
	for _, opt := range opts {
		opt(&o)
	}

	var zero T
	if _, cerr := c.Catch(ctx, Properties(err, fields)); cerr != nil {
		return zero, cerr
	}
	if o.rethrow {
		return zero, err
	}
	return zero, nil
}

// Properties builds the error properties reported for err.
//
// The name is taken from a Name() string method when err (or anything it
// wraps) has one, otherwise it is the dynamic Go type. The stack comes from
// a StackTrace() string method when present. fields are laid over the result.
func Properties(err error, fields map[string]any) domain.ErrorProperties {
	props := domain.ErrorProperties{
		Name:    fmt.Sprintf("%T", err),
		Message: err.Error(),
	}

	var named interface{ Name() string }
	if errors.As(err, &named) {
		props.Name = named.Name()
	}
	var traced interface{ StackTrace() string }
	if errors.As(err, &traced) {
		props.Stack = traced.StackTrace()
	}

	if len(fields) > 0 {
		props.Fields = make(map[string]any, len(fields))
		for k, v := range fields {
			props.Fields[k] = v
		}
	}
	return props
}
