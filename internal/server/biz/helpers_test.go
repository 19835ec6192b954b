package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hearthsoft/orgcore/internal/authz"
	"github.com/hearthsoft/orgcore/internal/orgs"
	"github.com/hearthsoft/orgcore/internal/scopes"
	"github.com/hearthsoft/orgcore/internal/store"
)

type testEnv struct {
	store         *store.Store
	organizations *OrganizationService
	users         *UserService
	memberships   *MembershipService
	tags          *TagService
	projects      *ProjectService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	s, err := store.Open(store.Config{Path: ":memory:"})
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	guard := scopes.NewGuard(s.Organizations, s.Memberships)

	return &testEnv{
		store:         s,
		organizations: NewOrganizationService(OrganizationServiceParams{Store: s, Guard: guard}),
		users:         NewUserService(UserServiceParams{Store: s, Guard: guard}),
		memberships:   NewMembershipService(MembershipServiceParams{Store: s, Guard: guard}),
		tags:          NewTagService(TagServiceParams{Store: s, Guard: guard}),
		projects:      NewProjectService(ProjectServiceParams{Store: s, Guard: guard}),
	}
}

func (e *testEnv) newUser(t *testing.T, email string) (*orgs.User, context.Context) {
	t.Helper()

	sysCtx := authz.NewSystemContext(context.Background())

	user, err := e.users.CreateUser(sysCtx, CreateUserInput{Email: email, FullName: "Test User"})
	require.NoError(t, err)

	ctx, err := authz.NewUserContext(context.Background(), user.ID)
	require.NoError(t, err)

	return user, ctx
}
