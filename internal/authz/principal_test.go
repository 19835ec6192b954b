package authz

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrincipalType_String(t *testing.T) {
	tests := []struct {
		name string
		p    PrincipalType
		want string
	}{
		{"system", PrincipalTypeSystem, "system"},
		{"user", PrincipalTypeUser, "user"},
		{"unknown", PrincipalType(999), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.String())
		})
	}
}

func TestWithPrincipal_SetOnce(t *testing.T) {
	userID := uuid.New()

	ctx, err := WithPrincipal(context.Background(), UserPrincipal(userID))
	require.NoError(t, err)

	got, ok := GetPrincipal(ctx)
	require.True(t, ok)
	assert.Equal(t, PrincipalTypeUser, got.Type)
	assert.Equal(t, userID, *got.UserID)

	// A second installation fails, even for the same principal.
	_, err = WithPrincipal(ctx, UserPrincipal(userID))
	assert.ErrorIs(t, err, ErrPrincipalAlreadySet)

	_, err = WithPrincipal(ctx, UserPrincipal(uuid.New()))
	assert.ErrorIs(t, err, ErrPrincipalAlreadySet)
}

func TestGetPrincipal_Unset(t *testing.T) {
	_, ok := GetPrincipal(context.Background())
	assert.False(t, ok)

	_, ok = GetPrincipal(nil) //nolint:staticcheck // exercising the nil guard.
	assert.False(t, ok)
}

func TestScoped_ReleasesOnEveryExit(t *testing.T) {
	outer := context.Background()
	userID := uuid.New()

	err := Scoped(outer, UserPrincipal(userID), func(ctx context.Context) error {
		p, ok := GetPrincipal(ctx)
		require.True(t, ok)
		assert.Equal(t, userID, *p.UserID)

		return nil
	})
	require.NoError(t, err)

	// The outer chain never saw the principal.
	_, ok := GetPrincipal(outer)
	assert.False(t, ok)

	// Error exit path: the principal still never leaks to the outer chain.
	wantErr := errors.New("unit of work failed")
	err = Scoped(outer, UserPrincipal(userID), func(ctx context.Context) error {
		return wantErr
	})
	assert.ErrorIs(t, err, wantErr)

	_, ok = GetPrincipal(outer)
	assert.False(t, ok)
}

func TestScoped_PanicExit(t *testing.T) {
	outer := context.Background()

	assert.Panics(t, func() {
		_ = Scoped(outer, UserPrincipal(uuid.New()), func(ctx context.Context) error {
			panic("boom")
		})
	})

	_, ok := GetPrincipal(outer)
	assert.False(t, ok)
}

func TestScopedResult(t *testing.T) {
	userID := uuid.New()

	got, err := ScopedResult(context.Background(), UserPrincipal(userID), func(ctx context.Context) (string, error) {
		return MustGetPrincipal(ctx).String(), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "user:"+userID.String(), got)
}

// Two concurrently executing operations must each observe their own
// principal throughout, with no cross-contamination.
func TestConcurrentOperationsObserveIndependentPrincipals(t *testing.T) {
	alice := uuid.New()
	bob := uuid.New()

	var wg sync.WaitGroup

	start := make(chan struct{})

	run := func(userID uuid.UUID) {
		defer wg.Done()
		<-start

		err := Scoped(context.Background(), UserPrincipal(userID), func(ctx context.Context) error {
			for i := 0; i < 1000; i++ {
				p, ok := GetPrincipal(ctx)
				if !ok || *p.UserID != userID {
					return errors.New("observed foreign principal")
				}
			}

			return nil
		})
		assert.NoError(t, err)
	}

	wg.Add(2)

	go run(alice)
	go run(bob)

	close(start)
	wg.Wait()
}

func TestActorID(t *testing.T) {
	assert.Nil(t, ActorID(context.Background()))
	assert.Nil(t, ActorID(NewSystemContext(context.Background())))

	userID := uuid.New()
	ctx, err := NewUserContext(context.Background(), userID)
	require.NoError(t, err)

	actor := ActorID(ctx)
	require.NotNil(t, actor)
	assert.Equal(t, userID, *actor)
}

func TestRequireSystemPrincipal(t *testing.T) {
	assert.Error(t, RequireSystemPrincipal(context.Background()))

	ctx, err := NewUserContext(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Error(t, RequireSystemPrincipal(ctx))

	assert.NoError(t, RequireSystemPrincipal(NewSystemContext(context.Background())))
}
