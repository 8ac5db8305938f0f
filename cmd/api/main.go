package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pageza/recipe-box/backend/config"
	"github.com/pageza/recipe-box/backend/internal/database"
	"github.com/pageza/recipe-box/backend/internal/logger"
	"github.com/pageza/recipe-box/backend/internal/metrics"
	"github.com/pageza/recipe-box/backend/internal/middleware"
	"github.com/pageza/recipe-box/backend/internal/router"
	"github.com/pageza/recipe-box/backend/internal/server"
	"github.com/pageza/recipe-box/backend/internal/service"
	"github.com/pageza/recipe-box/backend/internal/store"
)

var version = "dev"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "recipebox",
		Short:         "Recipe Box API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCommand(), newSeedCommand(), newVersionCommand())
	return root
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Recipe Box API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the sample recipes if the store is empty",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer log.Close()

			s, closeStore, err := openStore(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer closeStore()

			seeded, err := store.SeedIfEmpty(cmd.Context(), s, time.Now())
			if err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			log.Infow("Seed finished", "seeded", seeded)
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the Recipe Box version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "recipebox %s\n", version)
		},
	}
}

func bootstrap() (*config.Config, *logger.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return nil, nil, err
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return cfg, log, nil
}

func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Close()

	backing, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeStore()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
		backing = m.InstrumentStore(backing)
	}

	if cfg.SeedOnStart {
		seeded, err := store.SeedIfEmpty(ctx, backing, time.Now())
		if err != nil {
			return fmt.Errorf("failed to seed recipes: %w", err)
		}
		if seeded {
			log.Infow("Seeded sample recipes")
		}
	}

	var limiter *middleware.RateLimiter
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(cfg, log)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = middleware.NewRecipeWriteRateLimiter(rdb, cfg.RateLimitRequests, cfg.RateLimitWindow, log)
	}

	recipes := service.NewRecipeService(backing, log)
	engine := router.SetupRouter(router.Options{
		Recipes:        recipes,
		Logger:         log,
		Metrics:        m,
		RateLimiter:    limiter,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})
	srv := server.New(cfg, engine, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infow("Received signal", "signal", sig.String())
	}

	log.Infow("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Infow("Server stopped")
	return nil
}

// openStore builds the backend named by cfg.StoreDriver. The returned func
// releases any connection it holds.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (store.Store, func(), error) {
	noop := func() {}
	switch cfg.StoreDriver {
	case config.StoreFile:
		log.Infow("Using file store", "path", cfg.RecipesFile)
		return store.NewFileStore(cfg.RecipesFile), noop, nil

	case config.StoreSQLite, config.StorePostgres:
		db, err := database.New(cfg, log)
		if err != nil {
			return nil, noop, err
		}
		gs := store.NewGormStore(db)
		if err := gs.AutoMigrate(ctx); err != nil {
			_ = database.Close(db)
			return nil, noop, fmt.Errorf("failed to migrate recipes table: %w", err)
		}
		return gs, func() { _ = database.Close(db) }, nil

	case config.StoreS3:
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to configure S3: %w", err)
		}
		log.Infow("Using S3 store", "bucket", s3cfg.BucketName, "key", s3cfg.Key)
		return store.NewS3Store(s3cfg.Client, s3cfg.BucketName, s3cfg.Key), noop, nil
	}
	return nil, noop, errors.New("unknown store driver " + cfg.StoreDriver)
}
