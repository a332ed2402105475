// Command benchdata fills the database with the fixed-shape order data used by
// the load-test harnesses.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"storefront-service/benchmark"
	"storefront-service/database"
	"storefront-service/models"
	"storefront-service/repository"

	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type flags struct {
	channel string
	opts    benchmark.Options
}

func newRootCmd() *cobra.Command {
	f := flags{opts: benchmark.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "benchdata",
		Short: "Generate benchmark orders, payments and order events",
		Long: `Creates one user per order, the orders themselves, and their payments
and events in a single transaction against the configured database.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), f)
		},
	}

	cmd.Flags().StringVar(&f.channel, "channel", "default-channel", "slug of the channel the orders belong to")
	cmd.Flags().IntVar(&f.opts.Orders, "orders", f.opts.Orders, "number of orders (and users)")
	cmd.Flags().IntVar(&f.opts.EventsPerOrder, "events", f.opts.EventsPerOrder, "events per order")
	cmd.Flags().IntVar(&f.opts.PaymentsPerOrder, "payments", f.opts.PaymentsPerOrder, "payments per order")
	cmd.Flags().Int64Var(&f.opts.Seed, "seed", f.opts.Seed, "random seed for charge statuses and event types")
	return cmd
}

func run(ctx context.Context, out io.Writer, f flags) error {
	_ = godotenv.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Connect(dbConfigFromEnv(), logger)
	if err != nil {
		return err
	}
	defer database.Close(db) //nolint:errcheck

	channel, err := repository.NewGormChannelRepository(db).FindBySlug(ctx, f.channel)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("channel %q not found", f.channel)
	}
	if err != nil {
		return fmt.Errorf("load channel %q: %w", f.channel, err)
	}

	ds, err := benchmark.Build(ctx, db, *channel, benchmark.DefaultAddress(), f.opts)
	if err != nil {
		return err
	}
	logger.Info("Benchmark data created", zap.String("channel", channel.Slug), zap.Int("orders", len(ds.Orders)))
	return printSummary(out, channel, ds)
}

func printSummary(out io.Writer, channel *models.Channel, ds *benchmark.Dataset) error {
	table := tablewriter.NewWriter(out)
	table.Header("Table", "Rows")
	rows := [][]string{
		{"addresses", fmt.Sprint(len(ds.Addresses))},
		{"users", fmt.Sprint(len(ds.Users))},
		{"orders", fmt.Sprint(len(ds.Orders))},
		{"payments", fmt.Sprint(len(ds.Payments))},
		{"order_events", fmt.Sprint(len(ds.Events))},
	}
	for _, r := range rows {
		if err := table.Append(r); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(out, "Channel %s (%s)\n", channel.Slug, channel.CurrencyCode); err != nil {
		return err
	}
	return table.Render()
}

func dbConfigFromEnv() database.Config {
	return database.Config{
		Driver:   getEnv("DB_DRIVER", "postgres"),
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		Name:     os.Getenv("POSTGRES_DB"),
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		TimeZone: getEnv("POSTGRES_TIMEZONE", "UTC"),
		MySQLDSN: os.Getenv("MYSQL_DSN"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
