package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/migrations"
	"github.com/pay4skill/server/pkg/config"
	"github.com/pay4skill/server/pkg/database"
	"github.com/pay4skill/server/pkg/logger"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the Pay4Skill database schema",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(upCmd(), seedBadgesCmd())
	return root
}

func upCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create or update every table and index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *gorm.DB) error {
				if err := migrations.Run(ctx, db); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations completed")
				if !seed {
					return nil
				}
				return seedBadges(ctx, cmd, db)
			})
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "also install the default badges")
	return cmd
}

func seedBadgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-badges",
		Short: "Install the default badge catalogue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), func(ctx context.Context, db *gorm.DB) error {
				return seedBadges(ctx, cmd, db)
			})
		},
	}
}

func seedBadges(ctx context.Context, cmd *cobra.Command, db *gorm.DB) error {
	n, err := migrations.SeedBadges(ctx, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d badges created\n", n)
	return nil
}

func withDB(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.OpenPostgres(ctx, cfg.DatabaseURL, log, database.DefaultOptions(cfg.AppEnv))
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(ctx, db)
}
