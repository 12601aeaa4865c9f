package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	postgresRepo "github.com/iho/treasury/internal/adapter/repository/postgres"
	"github.com/iho/treasury/internal/domain"
	"github.com/iho/treasury/internal/infrastructure/auth"
	"github.com/iho/treasury/internal/infrastructure/config"
	"github.com/iho/treasury/internal/infrastructure/postgres"
	"github.com/iho/treasury/internal/usecase"
)

// databaseURL resolves the connection string for commands that talk to
// Postgres directly: the flag wins over the environment.
func databaseURL(flag string) (string, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", nil, err
	}
	if flag != "" {
		return flag, cfg, nil
	}
	return cfg.DatabaseURL, cfg, nil
}

func (a *app) migrateCmd() *cobra.Command {
	var dbURL string

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the database schema",
	}
	migrateCmd.PersistentFlags().StringVar(&dbURL, "database-url", "", "Postgres URL (defaults to DATABASE_URL)")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _, err := databaseURL(dbURL)
			if err != nil {
				return err
			}
			if err := postgres.RunMigrations(url); err != nil {
				return err
			}
			return a.printVersion(url)
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, _, err := databaseURL(dbURL)
			if err != nil {
				return err
			}
			if err := postgres.RunMigrationsDown(url); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "all migrations rolled back")
			return nil
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd)
	return migrateCmd
}

func (a *app) printVersion(url string) error {
	version, dirty, err := postgres.MigrationVersion(url)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "schema at version %d (dirty: %t)\n", version, dirty)
	return nil
}

func (a *app) idempotencyCmd() *cobra.Command {
	var dbURL string

	idempotencyCmd := &cobra.Command{
		Use:   "idempotency",
		Short: "Idempotency record maintenance",
	}

	purgeCmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete idempotency records past their retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, cfg, err := databaseURL(dbURL)
			if err != nil {
				return err
			}

			pool, err := postgres.NewPool(cmd.Context(), url, 2, 0)
			if err != nil {
				return err
			}
			defer pool.Close()

			guard := usecase.NewIdempotencyGuard(postgresRepo.NewIdempotencyRepository(pool), cfg.IdempotencyRetention, nil)
			n, err := guard.PurgeExpired(cmd.Context(), time.Now().UTC())
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "purged %d expired idempotency records\n", n)
			return nil
		},
	}
	purgeCmd.Flags().StringVar(&dbURL, "database-url", "", "Postgres URL (defaults to DATABASE_URL)")

	idempotencyCmd.AddCommand(purgeCmd)
	return idempotencyCmd
}

func (a *app) tokenCmd() *cobra.Command {
	var (
		userID   string
		role     string
		secret   string
		duration time.Duration
	)

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Access tokens for testing",
	}

	issueCmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue a signed JWT for a user and role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				secret = cfg.JWTSecret
				if duration == 0 {
					duration = cfg.JWTExpiration
				}
			}
			if secret == "" {
				return fmt.Errorf("no signing secret: pass --secret or set JWT_SECRET")
			}
			if duration == 0 {
				duration = 24 * time.Hour
			}

			token, err := auth.NewJWTManager(secret, duration).Generate(&domain.Actor{ID: userID, Role: domain.Role(role)})
			if err != nil {
				return err
			}

			fmt.Fprintln(a.out, token)
			return nil
		},
	}
	issueCmd.Flags().StringVar(&userID, "user", "", "User id the token speaks for")
	issueCmd.Flags().StringVar(&role, "role", string(domain.RoleMember), "Role: admin, treasurer, secretary or member")
	issueCmd.Flags().StringVar(&secret, "secret", "", "HS256 secret (defaults to JWT_SECRET)")
	issueCmd.Flags().DurationVar(&duration, "ttl", 0, "Token lifetime (defaults to JWT_EXPIRATION)")
	_ = issueCmd.MarkFlagRequired("user")

	tokenCmd.AddCommand(issueCmd)
	return tokenCmd
}
