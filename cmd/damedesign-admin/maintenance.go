package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/user"
	"time"

	"github.com/spf13/cobra"

	"github.com/damedesign/portfolio/internal/data"
	"github.com/damedesign/portfolio/internal/domain/model"
	"github.com/damedesign/portfolio/internal/ports"
	"github.com/damedesign/portfolio/internal/service"
)

func maintenanceCmd(cmdCtx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Show or switch the site-wide maintenance mode",
	}
	set := func(on bool) func(*cobra.Command, []string) error {
		return func(*cobra.Command, []string) error {
			return withDatabase(cmdCtx, adminCommandTimeout, func(ctx context.Context, db *sql.DB) error {
				msg, err := setMaintenance(ctx, data.NewSiteSettingsRepo(db), on, cliActor())
				if err != nil {
					return err
				}
				return writeln(cmdCtx.Out, msg)
			})
		}
	}
	cmd.AddCommand(
		&cobra.Command{Use: "on", Short: "Show the maintenance page to visitors", Args: cobra.NoArgs, RunE: set(true)},
		&cobra.Command{Use: "off", Short: "Serve the site normally", Args: cobra.NoArgs, RunE: set(false)},
		&cobra.Command{
			Use:   "status",
			Short: "Print the persisted maintenance flag",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				return withDatabase(cmdCtx, adminCommandTimeout, func(ctx context.Context, db *sql.DB) error {
					settings, err := data.NewSiteSettingsRepo(db).Get(ctx)
					if err != nil && !errors.Is(err, data.ErrSiteSettingsMissing) {
						return err
					}
					return writeln(cmdCtx.Out, describeMaintenance(settings, cmdCtx.Config.Site.MaintenanceFallback))
				})
			},
		},
	)
	return cmd
}

func setMaintenance(ctx context.Context, store ports.SiteSettingsStore, on bool, actor string) (string, error) {
	msg, err := service.NewMaintenanceService(store, nil).Set(ctx, on, actor)
	if err != nil {
		return "", err
	}
	return msg.Text, nil
}

// describeMaintenance renders the flag for operators. A missing row means the
// MAINTENANCE_MODE fallback is what visitors see.
func describeMaintenance(settings *model.SiteSettings, fallback bool) string {
	if settings == nil {
		return fmt.Sprintf("maintenance: %s (not stored, MAINTENANCE_MODE fallback)", onOff(fallback))
	}
	out := "maintenance: " + onOff(settings.IsMaintenanceMode)
	if !settings.UpdatedAt.IsZero() {
		out += ", changed " + settings.UpdatedAt.Local().Format(time.DateTime)
	}
	if settings.UpdatedBy != nil && *settings.UpdatedBy != "" {
		out += " by " + *settings.UpdatedBy
	}
	return out
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

func cliActor() string {
	name := "unknown"
	if u, err := user.Current(); err == nil && u.Username != "" {
		name = u.Username
	}
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "cli:" + name
	}
	return "cli:" + name + "@" + host
}
