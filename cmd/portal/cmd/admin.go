package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/senado-bo/portal-api/internal/core/service"
	"github.com/senado-bo/portal-api/internal/infrastructure/security"
)

var bootstrapAdminCmd = &cobra.Command{
	Use:   "bootstrap-admin",
	Short: "Create the configured super admin if it does not exist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), newApp, bootstrapAdmin)
	},
}

var ensureIndexesCmd = &cobra.Command{
	Use:   "ensure-indexes",
	Short: "Create the MongoDB indexes and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd.Context(), newApp, func(ctx context.Context, a *app) error {
			return a.ensureIndexes(ctx)
		})
	},
}

func bootstrapAdmin(ctx context.Context, a *app) error {
	if err := a.ensureIndexes(ctx); err != nil {
		return err
	}
	result, err := service.EnsureSuperAdmin(ctx, a.users,
		security.NewBcryptHasher(a.cfg.Security.BcryptCost),
		service.SuperAdminConfig{Email: a.cfg.SuperAdmin.Email, Password: a.cfg.SuperAdmin.Password},
		a.log)
	if err != nil {
		return err
	}
	a.log.Info().Str("result", string(result)).Msg("bootstrap finished")
	return nil
}

func init() {
	rootCmd.AddCommand(bootstrapAdminCmd)
	rootCmd.AddCommand(ensureIndexesCmd)
}
