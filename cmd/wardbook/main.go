package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/spf13/cobra"
	"github.com/wardbooklabs/wardbook/internal/authz"
	"github.com/wardbooklabs/wardbook/internal/billing"
	"github.com/wardbooklabs/wardbook/internal/bootstrap"
	"github.com/wardbooklabs/wardbook/internal/charges"
	"github.com/wardbooklabs/wardbook/internal/clock"
	"github.com/wardbooklabs/wardbook/internal/config"
	"github.com/wardbooklabs/wardbook/internal/encounter"
	"github.com/wardbooklabs/wardbook/internal/invoice"
	"github.com/wardbooklabs/wardbook/internal/migration"
	"github.com/wardbooklabs/wardbook/internal/observability"
	"github.com/wardbooklabs/wardbook/internal/payment"
	"github.com/wardbooklabs/wardbook/internal/ratecard"
	"github.com/wardbooklabs/wardbook/internal/redis"
	"github.com/wardbooklabs/wardbook/internal/reporting"
	"github.com/wardbooklabs/wardbook/internal/seed"
	"github.com/wardbooklabs/wardbook/internal/server"
	"github.com/wardbooklabs/wardbook/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	root := &cobra.Command{
		Use:   "wardbook",
		Short: "Hospital billing service",
	}
	root.AddCommand(migrateCmd(), serveCmd(), seedCmd(), allCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and activate the schema",
		RunE: func(*cobra.Command, []string) error {
			return runMigrations()
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the billing HTTP server",
		RunE: func(*cobra.Command, []string) error {
			newApp().Run()
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo wards, beds, patients and clinical activity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := observability.NewLogger()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			cfg, err := config.Load(log)
			if err != nil {
				return err
			}
			conn, err := db.New(cfg, log)
			if err != nil {
				return err
			}
			node, err := newSnowflakeNode()
			if err != nil {
				return err
			}
			return seed.Run(cmd.Context(), conn, node, log)
		},
	}
}

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Migrate, then serve",
		RunE: func(*cobra.Command, []string) error {
			if err := runMigrations(); err != nil {
				return err
			}
			newApp().Run()
			return nil
		},
	}
}

func runMigrations() error {
	log, err := observability.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(log)
	if err != nil {
		return err
	}

	conn, err := migration.OpenMigrationDB(cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := migration.Run(conn); err != nil {
		return err
	}
	log.Info("migrations applied")
	return nil
}

func newApp() *fx.App {
	return fx.New(
		observability.Module,
		config.Module,
		clock.Module,
		db.Module,
		bootstrap.Module,
		authz.Module,
		redis.Module,
		ratecard.Module,
		encounter.Module,
		charges.Module,
		billing.Module,
		payment.Module,
		reporting.Module,
		invoice.Module,
		server.Module,
		fx.Provide(newSnowflakeNode),
		fx.Invoke(bootstrap.EnforceSchemaGate),
		fx.WithLogger(newFxLogger),
	)
}

func newSnowflakeNode() (*snowflake.Node, error) {
	nodeID := int64(1)
	if raw := os.Getenv("WARDBOOK_NODE_ID"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid WARDBOOK_NODE_ID: %w", err)
		}
		nodeID = parsed
	}
	return snowflake.NewNode(nodeID)
}

func newFxLogger(log *zap.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log.Named("fx")}
}
