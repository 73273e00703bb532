package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/damedesign/portfolio/internal/adapters/passwordauth"
	"github.com/damedesign/portfolio/internal/data"
	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/ports"
)

const adminCommandTimeout = 30 * time.Second

type adminUserOptions struct {
	Email    string
	Name     string
	Password string
}

func adminCmd(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage password administrators",
	}
	cmd.AddCommand(adminCreateCmd(cmdCtx), adminPasswordCmd(cmdCtx))
	return cmd
}

func adminCreateCmd(cmdCtx *commandContext) *cobra.Command {
	var opts adminUserOptions
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an administrator who signs in with email and password",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := cmdCtx.resolvePassword(&opts); err != nil {
				return err
			}
			return withDatabase(cmdCtx, adminCommandTimeout, func(ctx context.Context, db *sql.DB) error {
				user, err := createAdmin(ctx, data.NewAdminUserRepo(db), opts)
				if err != nil {
					return err
				}
				return writef(cmdCtx.Out, "Created admin %s (%s)\n", user.Email, user.ID)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&opts.Name, "name", "", "display name")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password; read from stdin when omitted")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func adminPasswordCmd(cmdCtx *commandContext) *cobra.Command {
	var opts adminUserOptions
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Set a new password for an existing administrator",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if err := cmdCtx.resolvePassword(&opts); err != nil {
				return err
			}
			return withDatabase(cmdCtx, adminCommandTimeout, func(ctx context.Context, db *sql.DB) error {
				if err := changeAdminPassword(ctx, data.NewAdminUserRepo(db), opts); err != nil {
					return err
				}
				return writef(cmdCtx.Out, "Password updated for %s\n", opts.Email)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Email, "email", "", "login email (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "password; read from stdin when omitted")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func (cmdCtx *commandContext) resolvePassword(opts *adminUserOptions) error {
	opts.Email = strings.TrimSpace(opts.Email)
	if err := model.ValidateEmail(opts.Email); err != nil {
		return fmt.Errorf("invalid --email: %w", err)
	}
	if opts.Password != "" {
		return nil
	}
	if err := writef(cmdCtx.Out, "Password for %s: ", opts.Email); err != nil {
		return err
	}
	pw, err := cmdCtx.readLine()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if pw == "" {
		return errors.New("password is required")
	}
	opts.Password = pw
	return nil
}

func createAdmin(ctx context.Context, repo ports.AdminUserRepository, opts adminUserOptions) (*model.AdminUser, error) {
	if _, err := repo.GetByEmail(ctx, opts.Email); err == nil {
		return nil, fmt.Errorf("admin %s already exists; use 'admin password' to change the password", opts.Email)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("look up admin: %w", err)
	}
	hash, err := passwordauth.Hash(opts.Password)
	if err != nil {
		return nil, err
	}
	user, err := repo.Create(ctx, opts.Email, strings.TrimSpace(opts.Name), hash)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return user, nil
}

func changeAdminPassword(ctx context.Context, repo ports.AdminUserRepository, opts adminUserOptions) error {
	hash, err := passwordauth.Hash(opts.Password)
	if err != nil {
		return err
	}
	if err := repo.UpdatePassword(ctx, opts.Email, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
