package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/foodz/foodz-api/internal/auth"
	"github.com/foodz/foodz-api/internal/seeder"
)

var clearMenu bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Apply the schema and seed brands, menus and the admin user",
	Long: `Creates the tables if needed, upserts the built-in brands and their menus,
and creates or refreshes the admin account from ADMIN_USERNAME and
ADMIN_PASSWORD. Safe to run repeatedly.`,
	RunE: runSeed,
}

var verifyCountsCmd = &cobra.Command{
	Use:   "verify-counts",
	Short: "Print brand, menu item and category counts",
	RunE:  runVerifyCounts,
}

func init() {
	seedCmd.Flags().BoolVar(&clearMenu, "clear-menu", false, "delete menu items no order references before seeding")
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pool, err := connectPostgres(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := seeder.Migrate(ctx, pool); err != nil {
		return err
	}
	if clearMenu {
		n, err := seeder.ClearUnreferencedMenu(ctx, pool)
		if err != nil {
			return err
		}
		logger.Info("cleared unreferenced menu items", zap.Int64("deleted", n))
	}
	if err := seeder.SeedCatalog(ctx, pool, logger); err != nil {
		return err
	}
	if err := seeder.SeedAdmin(ctx, auth.NewPostgresStore(pool), cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		return err
	}
	logger.Info("seeding complete")
	return nil
}

func runVerifyCounts(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	pool, err := connectPostgres(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	report, err := seeder.Counts(ctx, pool)
	if err != nil {
		return err
	}
	report.Write(cmd.OutOrStdout())
	return nil
}
