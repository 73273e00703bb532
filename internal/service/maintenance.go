package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/damedesign/portfolio/internal/domain/notification"
	"github.com/damedesign/portfolio/internal/ports"
)

// MaintenanceService flips the persisted maintenance flag.
type MaintenanceService struct {
	store  ports.SiteSettingsStore
	logger *slog.Logger
}

// NewMaintenanceService constructs a MaintenanceService.
func NewMaintenanceService(store ports.SiteSettingsStore, logger *slog.Logger) *MaintenanceService {
	if store == nil {
		panic("SiteSettingsStore is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MaintenanceService{store: store, logger: logger.With("component", "maintenance")}
}

// MaintenanceMessage is the notification shown after a toggle.
func MaintenanceMessage(on bool) notification.Message {
	state := "WYŁĄCZONY"
	if on {
		state = "WŁĄCZONY"
	}
	return notification.Success(fmt.Sprintf("Tryb \"Work In Progress\" został %s.", state))
}

// Set stores the flag and returns the notification to show after the reload.
func (s *MaintenanceService) Set(ctx context.Context, on bool, actor string) (notification.Message, error) {
	if _, err := s.store.SetMaintenance(ctx, on, actor); err != nil {
		return notification.Message{}, fmt.Errorf("set maintenance mode: %w", err)
	}
	s.logger.InfoContext(ctx, "maintenance mode changed", "enabled", on, "actor", actor)
	return MaintenanceMessage(on), nil
}

// Status reads the persisted flag.
func (s *MaintenanceService) Status(ctx context.Context) (bool, error) {
	on, err := s.store.IsMaintenanceMode(ctx)
	if err != nil {
		return false, fmt.Errorf("read maintenance mode: %w", err)
	}
	return on, nil
}
