// Command initdb drops and recreates the park database, provisions the admin
// account and loads the demo catalogue.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mmynk/parcattraction/internal/auth"
	"github.com/mmynk/parcattraction/internal/config"
	"github.com/mmynk/parcattraction/internal/service"
	"github.com/mmynk/parcattraction/internal/storage/sqlite"
	"github.com/mmynk/parcattraction/pkg/logging"
)

func main() {
	logger := logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := run(context.Background(), cfg, logger); err != nil {
		slog.Error("Initialization failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := sqlite.New(cfg.Database.Path, sqlite.Options{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		QueryTimeout: cfg.Database.QueryTimeout,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer store.Close()

	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.TokenSecret, cfg.Auth.TokenDuration)
	authService := service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, logger)
	if err := authService.EnsureAdmin(ctx, cfg.Auth.AdminName, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
		return err
	}

	if err := store.SeedDemo(ctx); err != nil {
		return err
	}

	st, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Database initialized at %s\n", cfg.Database.Path)
	fmt.Printf("  users:       %d\n", st.Users)
	fmt.Printf("  attractions: %d (%d visible, %d hidden)\n", st.Attractions, st.Visible, st.Hidden())
	fmt.Printf("  reviews:     %d\n", st.Reviews)
	return nil
}
