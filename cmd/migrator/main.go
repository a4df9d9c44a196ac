// cmd/migrator は共有アプリDBとテナントごとのスキーマ・専用DBにアプリのテーブルを適用するCLIです。
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"go_tenant_kernel/internal/bootstrap"
	"go_tenant_kernel/internal/config"

	"github.com/spf13/cobra"
)

var configDir string

var rootCmd = &cobra.Command{
	Use:           "migrator",
	Short:         "Tenant database migrator",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply application tables to tenant databases",
	Long: `Apply the application tables to the shared application database and to
SchemaPerTenant / DedicatedDb tenants. Each tenant records its history in its own
schema_migrations table, so reruns are no-ops.

Examples:
  migrator migrate --all
  migrator migrate --tenant acme`,
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		tenant, _ := cmd.Flags().GetString("tenant")
		if all == (tenant != "") {
			return fmt.Errorf("specify exactly one of --all or --tenant")
		}

		cfg, err := config.LoadConfig(configDir)
		if err != nil {
			return err
		}
		logger := bootstrap.NewLogger(cfg)
		slog.SetDefault(logger)

		infra, err := bootstrap.Open(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer infra.Close()

		return runMigrate(cmd.Context(), infra.Migrator(), all, tenant, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "configs", "directory containing config.yaml")
	migrateCmd.Flags().Bool("all", false, "migrate the shared database and every active tenant")
	migrateCmd.Flags().String("tenant", "", "migrate a single tenant by key")
	rootCmd.AddCommand(migrateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
