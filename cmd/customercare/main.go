//go:build !test

// Code coverage for main is ignored; the commands only wire packages that are tested on their own.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jbweber/homelab/customercare/internal/api"
	"github.com/jbweber/homelab/customercare/internal/config"
	"github.com/jbweber/homelab/customercare/internal/datastore"
	"github.com/jbweber/homelab/customercare/internal/logging"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	var configPath string

	root := &cobra.Command{
		Use:          "customercare",
		Short:        "Customer and device registry service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().String("db-path", "", "sqlite database file")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	bindFlag(v, "db_path", root.PersistentFlags().Lookup("db-path"))
	bindFlag(v, "log.level", root.PersistentFlags().Lookup("log-level"))

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run migrations and serve the REST API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(v, configPath)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck // stdout sync fails on some terminals

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
	serveCmd.Flags().String("port", "", "HTTP listen port")
	serveCmd.Flags().Int("max-devices", 0, "maximum number of devices per customer")
	bindFlag(v, "port", serveCmd.Flags().Lookup("port"))
	bindFlag(v, "max_devices_per_customer", serveCmd.Flags().Lookup("max-devices"))

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations and report the schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(v, configPath)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck // stdout sync fails on some terminals

			ds, err := cfg.InitializeDatabase()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer ds.Close() //nolint:errcheck // process is exiting

			version, err := datastore.SchemaVersion(ds.DB)
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			log.Info("database migrated", zap.String("path", cfg.DBPath), zap.Int64("schema_version", version))
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return nil
		},
	}

	root.AddCommand(serveCmd, migrateCmd)
	return root
}

// bindFlag lets an explicitly set flag override the config file and environment.
func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", flag.Name, err))
	}
}

// setup resolves the configuration and builds the logger every command shares.
func setup(v *viper.Viper, configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(v, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// serve runs the HTTP server until ctx is cancelled, then drains in-flight
// requests for at most cfg.ShutdownTimeout.
func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	ds, err := cfg.InitializeDatabase()
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := ds.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           api.NewAPI(ds, cfg.MaxDevicesPerCustomer, log).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting customercare service",
			zap.String("addr", srv.Addr),
			zap.String("db_path", cfg.DBPath),
			zap.Int("max_devices_per_customer", cfg.MaxDevicesPerCustomer))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	log.Info("server stopped")
	return nil
}
