// Command barzinhos-admin runs operator tasks against the MySQL store.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"barzinhos/internal/adapters/observability"
	"barzinhos/internal/adapters/security"
	"barzinhos/internal/app"
	"barzinhos/internal/shared"
	mysqlrepo "barzinhos/internal/storage/mysql"
	"barzinhos/migrations"
)

var (
	cfg shared.Config
	dsn string

	adminEmail    string
	adminUsername string
	adminPassword string
)

var rootCmd = &cobra.Command{
	Use:           "barzinhos-admin",
	Short:         "Operator tasks for the Barzinhos API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = shared.Load()
		log.Logger = observability.NewLogger(cfg.AppEnv, "admin")
		if dsn == "" {
			dsn = cfg.MySQLDSN
		}
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		if err := migrations.Apply(cmd.Context(), db); err != nil {
			return err
		}
		log.Info().Msg("schema up to date")
		return nil
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List schema migrations and whether they are applied",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()
		statuses, err := migrations.Status(cmd.Context(), db)
		if err != nil {
			return err
		}
		for _, st := range statuses {
			applied := "-"
			if !st.AppliedAt.IsZero() {
				applied = st.AppliedAt.Format(time.RFC3339)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%05d  %-8s %-24s %s\n", st.Source.Version, st.State, applied, st.Source.Path)
		}
		return nil
	},
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	Example: `  barzinhos-admin create-admin --email admin@barzinhos.com --password s3cret
  barzinhos-admin create-admin --email ops@barzinhos.com --username ops --password s3cret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		auth := app.NewAuthService(mysqlrepo.New(db), security.NewHasher(bcrypt.DefaultCost),
			security.NewTokens(cfg.JWTSecret, cfg.JWTTTL), nil, nil)
		u, err := auth.CreateAdmin(cmd.Context(), adminUsername, adminEmail, adminPassword)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}
		log.Info().Int64("id", u.ID).Str("email", u.Email).Msg("admin created")
		return nil
	},
}

func openDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "MySQL DSN (default: $MYSQL_DSN)")

	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "admin", "admin username")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
