package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/tracker/internal/config"
	"github.com/kutbudev/tracker/internal/engine"
	"github.com/kutbudev/tracker/internal/repository"
	"github.com/kutbudev/tracker/internal/server"
	"github.com/spf13/cobra"
)

// Version will be set during build with ldflags
var Version = "0.1.0"

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "trackerd",
		Short:   "tracker HTTP service",
		Long:    `trackerd serves the tracker engine over HTTP so that 'tracker --remote' and other clients share one store.`,
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")

	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newMigrateCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, so we just need to exit.
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func openDatabase(cfg *config.Config) (*repository.Database, error) {
	db, err := repository.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			loc, err := cfg.Location()
			if err != nil {
				return fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if !cfg.Debug {
				gin.SetMode(gin.ReleaseMode)
			}
			eng := engine.New(db, engine.WithLocation(loc))
			srv := server.New(eng, server.WithHealthCheck(eng.Health), server.WithRequestLog())

			if addr == "" {
				addr = cfg.ServerAddr()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return srv.Run(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.host:server.port)")
	return cmd
}

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			db, err := openDatabase(cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			log.Printf("database migrated")
			return nil
		},
	}
}
