package biz

import (
	"go.uber.org/fx"
)

var Module = fx.Module("biz",
	fx.Provide(NewOrganizationService),
	fx.Provide(NewUserService),
	fx.Provide(NewMembershipService),
	fx.Provide(NewTagService),
	fx.Provide(NewProjectService),
)
