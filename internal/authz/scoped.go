package authz

import (
	"context"
)

// Scoped runs fn with p installed as the acting principal.
//
// The principal lives on the derived context passed to fn and on nothing
// else, so release is guaranteed on every exit path: when fn returns, the
// derived context simply goes out of scope, errors and panics included.
func Scoped(ctx context.Context, p Principal, fn func(ctx context.Context) error) error {
	scopedCtx, err := WithPrincipal(ctx, p)
	if err != nil {
		return err
	}

	return fn(scopedCtx)
}

// ScopedResult is Scoped for units of work that produce a value.
func ScopedResult[T any](ctx context.Context, p Principal, fn func(ctx context.Context) (T, error)) (T, error) {
	scopedCtx, err := WithPrincipal(ctx, p)
	if err != nil {
		var zero T
		return zero, err
	}

	return fn(scopedCtx)
}
