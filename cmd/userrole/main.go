package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"garmentgrid/internal/adapter/repo"
	"garmentgrid/internal/domain"
	"garmentgrid/internal/infra"
)

// userrole assigns roles that cannot be picked at registration, most
// notably admin, and activates accounts.
func main() {
	var (
		idFlag     string
		emailFlag  string
		roleFlag   string
		statusFlag string
	)

	flag.StringVar(&idFlag, "id", "", "user ID to update (UUID)")
	flag.StringVar(&emailFlag, "email", "", "user email to update")
	flag.StringVar(&roleFlag, "role", "", "role to assign (admin, manager, buyer); empty keeps the current role")
	flag.StringVar(&statusFlag, "status", "active", "status to assign (pending, active)")
	flag.Parse()

	_ = godotenv.Load()

	userID := strings.TrimSpace(idFlag)
	email := strings.ToLower(strings.TrimSpace(emailFlag))
	if userID == "" && email == "" {
		exitWithError(errors.New("either -id or -email must be provided"))
	}

	role := domain.UserRole(strings.ToLower(strings.TrimSpace(roleFlag)))
	if role != "" && !role.Valid() {
		exitWithError(fmt.Errorf("unsupported role %q", roleFlag))
	}
	status := domain.UserStatus(strings.ToLower(strings.TrimSpace(statusFlag)))
	switch status {
	case domain.UserStatusPending, domain.UserStatusActive:
	default:
		exitWithError(fmt.Errorf("unsupported status %q", statusFlag))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userrole").Logger()
	users := repo.NewUserRepository(infra.NewSQLRunner(pool, logger))

	var u *domain.User
	if userID != "" {
		u, err = users.GetByID(ctx, userID)
	} else {
		u, err = users.GetByEmail(ctx, email)
	}
	if err != nil {
		exitWithError(fmt.Errorf("failed to load user: %w", err))
	}
	if role == "" {
		role = u.Role
	}

	updated, err := users.SetRoleStatus(ctx, u.ID, role, status)
	if err != nil {
		exitWithError(fmt.Errorf("failed to update user: %w", err))
	}
	fmt.Printf("User %s (%s) is now %s, %s\n", updated.ID, updated.Email, updated.Role, updated.Status)
	if updated.Role != u.Role {
		fmt.Println("open sessions pick up the new role once their cache entry expires or they refresh")
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
