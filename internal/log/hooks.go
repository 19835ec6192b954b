package log

import (
	"context"

	"github.com/hearthsoft/orgcore/internal/contexts"
)

// Hook derives extra fields from the context for every record.
type Hook interface {
	Apply(ctx context.Context, msg string) []Field
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, msg string) []Field

// Apply implements Hook.
func (f HookFunc) Apply(ctx context.Context, msg string) []Field {
	return f(ctx, msg)
}

var hooks = []Hook{
	HookFunc(traceFields),
}

// traceFields attaches the per-operation trace id, operation name, and
// the organization the operation was authorized against.
func traceFields(ctx context.Context, _ string) []Field {
	if ctx == nil {
		return nil
	}

	var fields []Field

	if traceID, ok := contexts.GetTraceID(ctx); ok {
		fields = append(fields, String("trace_id", traceID))
	}

	if name, ok := contexts.GetOperationName(ctx); ok {
		fields = append(fields, String("operation_name", name))
	}

	if orgID, ok := contexts.GetOrganizationID(ctx); ok {
		fields = append(fields, String("organization_id", orgID.String()))
	}

	return fields
}
