// Package contexts carries per-operation values through the context.
//
// Each inbound operation (request or background job) gets its own container;
// values set in one operation are never visible to another.
package contexts

import (
	"context"

	"github.com/google/uuid"
)

// ContextKey defines the context key type.
type ContextKey string

const (
	// containerContextKey is used to store the context container in the context.
	containerContextKey ContextKey = "context_container"
)

// WithTraceID stores the trace id in the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	container := getContainer(ctx)
	container.TraceID = &traceID

	return withContainer(ctx, container)
}

// GetTraceID retrieves the trace id from the context.
func GetTraceID(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.TraceID != nil {
		return *container.TraceID, true
	}

	return "", false
}

// WithOperationName stores the operation name in the context.
func WithOperationName(ctx context.Context, name string) context.Context {
	container := getContainer(ctx)
	container.OperationName = &name

	return withContainer(ctx, container)
}

// GetOperationName retrieves the operation name from the context.
func GetOperationName(ctx context.Context) (string, bool) {
	container := getContainer(ctx)
	if container.OperationName != nil {
		return *container.OperationName, true
	}

	return "", false
}

// WithOrganizationID stores the resolved organization ID in the context.
func WithOrganizationID(ctx context.Context, orgID uuid.UUID) context.Context {
	container := getContainer(ctx)
	container.OrganizationID = &orgID

	return withContainer(ctx, container)
}

// GetOrganizationID retrieves the organization ID from the context.
func GetOrganizationID(ctx context.Context) (uuid.UUID, bool) {
	container := getContainer(ctx)
	if container.OrganizationID != nil {
		return *container.OrganizationID, true
	}

	return uuid.Nil, false
}
