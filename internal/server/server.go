// Package server assembles the application: configuration, logging,
// storage, the access guard, and the service layer, wired through fx.
package server

import (
	"context"

	"go.uber.org/fx"

	"github.com/hearthsoft/orgcore/conf"
	"github.com/hearthsoft/orgcore/internal/compliance"
	"github.com/hearthsoft/orgcore/internal/log"
	"github.com/hearthsoft/orgcore/internal/scopes"
	"github.com/hearthsoft/orgcore/internal/server/biz"
	"github.com/hearthsoft/orgcore/internal/store"
)

func NewGuard(s *store.Store) *scopes.Guard {
	return scopes.NewGuard(s.Organizations, s.Memberships)
}

// Run boots the application and blocks until shutdown. Additional fx
// options are appended after the base assembly, so callers can override
// the fx logger or provide conf.Load replacements.
func Run(opts ...fx.Option) {
	constructors := []any{
		func(cfg *conf.Config) log.Config { return cfg.Log },
		func(cfg *conf.Config) store.Config { return cfg.Store },
		func(cfg *conf.Config) compliance.Config { return cfg.Compliance },
		store.Open,
		NewGuard,
	}

	app := fx.New(
		append([]fx.Option{
			fx.NopLogger,
			fx.Provide(constructors...),
			biz.Module,
			fx.Invoke(func(cfg log.Config) {
				log.Init(cfg)
			}),
			// PII declarations are checked before any service is built; a
			// violation aborts startup.
			fx.Invoke(ValidateCompliance),
			fx.Invoke(func(
				*biz.OrganizationService,
				*biz.UserService,
				*biz.MembershipService,
				*biz.TagService,
				*biz.ProjectService,
			) {
			}),
			fx.Invoke(func(lc fx.Lifecycle, s *store.Store) {
				lc.Append(fx.Hook{
					OnStop: func(ctx context.Context) error {
						_ = log.Sync()

						return s.Close()
					},
				})
			}),
		}, opts...)...,
	)
	app.Run()
}

// ValidateCompliance runs the startup PII declaration check and logs the
// outcome. Returning an error makes fx abort the boot.
func ValidateCompliance(cfg compliance.Config) error {
	ctx := context.Background()

	report, err := compliance.ValidateRegisteredTypes(ctx, cfg)
	if err != nil {
		return err
	}

	log.Info(ctx, "compliance declarations verified",
		log.Int("types_checked", report.Checked),
		log.Int("warnings", len(report.Warnings)),
	)

	return nil
}
