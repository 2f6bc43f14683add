package main

import (
	"context"
	"fmt"
	"log"

	"inspectnet/internal/config"
	"inspectnet/internal/metrics"
	"inspectnet/internal/repository"
	"inspectnet/internal/service"
	"inspectnet/internal/store"
)

// app holds the wired settings stack shared by every command
type app struct {
	repo    repository.Repository
	svc     *service.SettingsService
	bus     *service.EventBus
	metrics *metrics.Metrics
}

// openApp opens the repository and loads the settings, migrating a legacy
// or missing blob on first use
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	repo, err := repository.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s repository: %w", cfg.Database.Driver, err)
	}
	log.Printf("Settings %s opened: %s", cfg.Database.Driver, cfg.Database.Path)

	m := metrics.New()
	st := store.New(repo)
	st.SetObserver(m)

	bus := service.NewEventBus()
	svc := service.NewSettingsService(st, bus)
	svc.SetRecorder(m)

	if err := svc.Load(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &app{repo: repo, svc: svc, bus: bus, metrics: m}, nil
}

func (a *app) Close() error {
	return a.repo.Close()
}
