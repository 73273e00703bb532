package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/damedesign/portfolio/config"
	"github.com/damedesign/portfolio/internal/bootstrap"
	"github.com/damedesign/portfolio/internal/data"
	"github.com/damedesign/portfolio/internal/devseed"
)

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
	In     io.Reader
	Out    io.Writer

	loadConfig func() (config.AppConfig, error)
	loaded     bool
	reader     *bufio.Reader
}

const defaultMigrationTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger(os.Getenv("LOG_LEVEL"))
	cmdCtx := &commandContext{
		Ctx:        context.Background(),
		Logger:     logger,
		In:         os.Stdin,
		Out:        os.Stdout,
		loadConfig: bootstrap.LoadConfig,
	}
	if err := newRootCmd(cmdCtx).Execute(); err != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func newRootCmd(cmdCtx *commandContext) *cobra.Command {
	root := &cobra.Command{
		Use:   "damedesign-admin",
		Short: "Operator commands for the DameDesign portfolio",
		Long: `damedesign-admin runs maintenance tasks against the portfolio database.

Configuration is read from the same environment variables as the server
(DB_*, REDIS_*, ...), including a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return cmdCtx.ensureConfig()
		},
	}
	root.AddCommand(
		migrateCmd(cmdCtx),
		dbResetCmd(cmdCtx),
		seedCmd(cmdCtx),
		adminCmd(cmdCtx),
		maintenanceCmd(cmdCtx),
		cacheCmd(cmdCtx),
	)
	return root
}

func (cmdCtx *commandContext) ensureConfig() error {
	if cmdCtx.loaded {
		return nil
	}
	cfg, err := cmdCtx.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cmdCtx.Config = cfg
	cmdCtx.loaded = true
	return nil
}

func migrateCmd(cmdCtx *commandContext) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return withDatabase(cmdCtx, timeout, func(ctx context.Context, db *sql.DB) error {
				return bootstrap.RunMigrations(ctx, db, cmdCtx.Logger)
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", defaultMigrationTimeout, "maximum time to wait for migrations")
	return cmd
}

type dbResetOptions struct {
	Timeout     time.Duration
	Yes         bool
	Seed        bool
	AllowRemote bool
}

func dbResetCmd(cmdCtx *commandContext) *cobra.Command {
	var opts dbResetOptions
	cmd := &cobra.Command{
		Use:   "db-reset",
		Short: "Drop the database schema, run migrations, and optionally seed data",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runDBReset(cmdCtx, opts)
		},
	}
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "maximum time for the reset")
	cmd.Flags().BoolVar(&opts.Yes, "yes", false, "skip the confirmation prompt")
	cmd.Flags().BoolVar(&opts.Seed, "seed", false, "seed sample content after migrating")
	cmd.Flags().BoolVar(&opts.AllowRemote, "allow-remote", false, "allow running against a non-local database host")
	return cmd
}

func runDBReset(cmdCtx *commandContext, opts dbResetOptions) error {
	remote, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "drop every table")
	if err != nil {
		return err
	}
	confirm := dbResetConfirmOptions{yes: opts.Yes, target: "database " + cmdCtx.Config.Postgres.Name}
	if remote {
		confirm.remoteHost = cmdCtx.Config.Postgres.Host
	}
	if err := confirmAction(cmdCtx, confirm, "reset the schema"); err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		if err := cmdCtx.resetDatabase(ctx, db); err != nil {
			return err
		}
		if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
			return err
		}
		if opts.Seed {
			return devseed.Run(ctx, seedRepos(db), devseed.Options{Logger: cmdCtx.Logger})
		}
		return nil
	})
}

type seedOptions struct {
	Timeout     time.Duration
	AllowRemote bool
	Admin       devseed.Admin
}

func seedCmd(cmdCtx *commandContext) *cobra.Command {
	var opts seedOptions
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Run database migrations and seed sample content into empty tables",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if _, err := guardRemoteHost(cmdCtx, opts.AllowRemote, "insert sample content"); err != nil {
				return err
			}
			return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
				if err := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); err != nil {
					return err
				}
				return devseed.Run(ctx, seedRepos(db), devseed.Options{Admin: opts.Admin, Logger: cmdCtx.Logger})
			})
		},
	}
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", defaultMigrationTimeout, "maximum time for seeding")
	cmd.Flags().BoolVar(&opts.AllowRemote, "allow-remote", false, "allow running against a non-local database host")
	cmd.Flags().StringVar(&opts.Admin.Email, "admin-email", "", "also create a password admin with this email")
	cmd.Flags().StringVar(&opts.Admin.Name, "admin-name", "Administrator", "display name of the seeded admin")
	cmd.Flags().StringVar(&opts.Admin.Password, "admin-password", "", "password of the seeded admin")
	return cmd
}

func seedRepos(db *sql.DB) devseed.Repos {
	return devseed.Repos{
		Projects:     data.NewProjectRepo(db),
		FAQ:          data.NewFAQRepo(db),
		Testimonials: data.NewTestimonialRepo(db),
		About:        data.NewAboutRepo(db),
		AdminUsers:   data.NewAdminUserRepo(db),
	}
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}
