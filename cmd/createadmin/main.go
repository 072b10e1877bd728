// Command createadmin creates an administrator account, or promotes an
// existing user and resets their password.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"workconnect/internal/database"
	"workconnect/internal/logger"
	"workconnect/internal/repository"
	"workconnect/internal/service"
	"workconnect/pkg/apierror"
)

func main() {
	_ = godotenv.Load()

	var req service.AdminAccountRequest
	databaseURL := flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	flag.StringVar(&req.Email, "email", "", "admin email address")
	flag.StringVar(&req.Password, "password", "", "admin password (min 8 characters)")
	flag.StringVar(&req.FirstName, "first", "System", "first name")
	flag.StringVar(&req.LastName, "last", "Administrator", "last name")
	migrate := flag.Bool("migrate", true, "apply pending migrations first")
	flag.Parse()

	slog.SetDefault(logger.New(os.Stderr, false, slog.LevelInfo))

	if err := run(*databaseURL, *migrate, req); err != nil {
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) && len(apiErr.Fields) > 0 {
			for field, message := range apiErr.Fields {
				fmt.Fprintf(os.Stderr, "  -%s: %s\n", field, message)
			}
		}
		slog.Error("createadmin failed", "error", err)
		os.Exit(1)
	}
}

func run(databaseURL string, migrate bool, req service.AdminAccountRequest) error {
	if databaseURL == "" {
		return errors.New("DATABASE_URL or -database-url is required")
	}

	if migrate {
		if err := database.Migrate(databaseURL); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.New(ctx, database.Options{URL: databaseURL, MaxConns: 2, MinConns: 0, SlowQueryThreshold: time.Second})
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Health(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	user, created, err := service.EnsureAdminAccount(ctx, repository.NewUserRepository(db.Pool), req)
	if err != nil {
		return err
	}

	verb := "promoted"
	if created {
		verb = "created"
	}
	slog.Info("admin account ready", "action", verb, "user_id", user.ID, "email", user.Email)
	return nil
}
