package contexts

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	_, ok := GetTraceID(ctx)
	assert.False(t, ok)

	ctx = WithTraceID(ctx, "trace-1")

	got, ok := GetTraceID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "trace-1", got)
}

func TestOperationName(t *testing.T) {
	ctx := WithOperationName(context.Background(), "CreateTag")

	got, ok := GetOperationName(ctx)
	assert.True(t, ok)
	assert.Equal(t, "CreateTag", got)
}

func TestOrganizationID(t *testing.T) {
	orgID := uuid.New()
	ctx := WithOrganizationID(context.Background(), orgID)

	got, ok := GetOrganizationID(ctx)
	assert.True(t, ok)
	assert.Equal(t, orgID, got)

	_, ok = GetOrganizationID(context.Background())
	assert.False(t, ok)
}

func TestContainerSharedAcrossValues(t *testing.T) {
	ctx := WithTraceID(context.Background(), "trace-1")
	ctx = WithOperationName(ctx, "ListMembers")

	trace, ok := GetTraceID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "trace-1", trace)

	op, ok := GetOperationName(ctx)
	assert.True(t, ok)
	assert.Equal(t, "ListMembers", op)
}

func TestIndependentContainers(t *testing.T) {
	a := WithTraceID(context.Background(), "trace-a")
	b := WithTraceID(context.Background(), "trace-b")

	gotA, _ := GetTraceID(a)
	gotB, _ := GetTraceID(b)
	assert.Equal(t, "trace-a", gotA)
	assert.Equal(t, "trace-b", gotB)
}
