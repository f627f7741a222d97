package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/band-site/internal/config"
	"github.com/spec-kit/band-site/internal/domain"
	"github.com/spec-kit/band-site/internal/observability"
	"github.com/spec-kit/band-site/internal/persistence"
	"github.com/spec-kit/band-site/internal/repository"
)

var (
	promoteEmail string
	promoteRole  string
)

// promoteCmd sets the role of an existing account. It is how the first
// ADMIN is created, since role changes over HTTP need an ADMIN already.
var promoteCmd = &cobra.Command{
	Use:   "promote",
	Short: "Change the role of an existing account",
	Example: `  band-site promote --email singer@example.com
  band-site promote --email drummer@example.com --role ARTIST`,
	RunE: func(cmd *cobra.Command, args []string) error {
		role := domain.Role(strings.ToUpper(promoteRole))
		if !role.Valid() {
			return fmt.Errorf("invalid role %q", promoteRole)
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if cfg.Postgres.DSN == "" {
			return fmt.Errorf("POSTGRES_DSN is required")
		}
		logger, err := observability.NewLogger(cfg.Logger)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logger.Sync() //nolint:errcheck

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pg.Close()

		users := repository.NewUserRepository(pg.PoolHandle())
		user, err := users.GetByEmail(ctx, promoteEmail)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("no account with email %s", promoteEmail)
		}
		if err != nil {
			return fmt.Errorf("load account: %w", err)
		}
		if _, err := users.UpdateRole(ctx, user.ID, role); err != nil {
			return fmt.Errorf("update role: %w", err)
		}
		logger.Info("role updated",
			zap.String("user_id", user.ID),
			zap.String("from", string(user.Role)),
			zap.String("to", string(role)),
		)
		return nil
	},
}

func init() {
	promoteCmd.Flags().StringVar(&promoteEmail, "email", "", "account email")
	promoteCmd.Flags().StringVar(&promoteRole, "role", string(domain.RoleAdmin), "new role (USER, ARTIST, ADMIN)")
	_ = promoteCmd.MarkFlagRequired("email")
}
