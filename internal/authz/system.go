package authz

import (
	"context"
	"fmt"
)

// NewSystemContext creates context with a system principal (for background
// jobs). System writes stamp a nil actor on audit fields.
func NewSystemContext(ctx context.Context) context.Context {
	scopedCtx, err := WithPrincipal(ctx, Principal{Type: PrincipalTypeSystem})
	if err != nil {
		// A background job deriving from an already-principaled chain is a
		// programming error; fail loud like any other set-twice.
		panic(err)
	}

	return scopedCtx
}

// RequireSystemPrincipal checks if current principal is System, otherwise
// returns an error. Used to protect sensitive background operations.
func RequireSystemPrincipal(ctx context.Context) error {
	p, ok := GetPrincipal(ctx)
	if !ok {
		return fmt.Errorf("authz: no principal in context")
	}

	if !p.IsSystem() {
		return fmt.Errorf("authz: operation requires system principal, got %s", p.String())
	}

	return nil
}
