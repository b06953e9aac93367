// Package app assembles the donor bot: infrastructure bootstrap, reference
// data seeding, service construction, and the Telegram runtime options.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/novatangle/donorbot/core/bootstrap"
	coretelegram "github.com/novatangle/donorbot/core/telegram"
	"github.com/novatangle/donorbot/core/telegram/state"
	"github.com/novatangle/donorbot/internal/bot"
	"github.com/novatangle/donorbot/internal/config"
	"github.com/novatangle/donorbot/internal/repository"
	"github.com/novatangle/donorbot/internal/seed"
	"github.com/novatangle/donorbot/internal/service"
)

// App holds everything needed to run the bot.
type App struct {
	cfg      *config.Config
	db       *sqlx.DB
	bot      *bot.Bot
	registry *coretelegram.Registry
}

// Bootstrap initializes the logger, database, and migrations, seeds the
// reference data, and wires the services and handlers.
func Bootstrap(cfg *config.Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	store := repository.New(res.DB)

	seeders := []bootstrap.Seeder{seed.ReferenceSeeder{}}
	for _, s := range seeders {
		if err := s.Seed(context.Background(), store); err != nil {
			_ = res.DB.Close()
			return nil, fmt.Errorf("app: seeding failed: %w", err)
		}
	}

	notifier := bot.NewTeleNotifier()
	svc := bot.Services{
		Registration: service.NewRegistrationService(store),
		Events:       service.NewEventService(store),
		Questions:    service.NewQuestionService(store, notifier, nil),
		Stats:        service.NewStatsService(store),
		Admin:        service.NewAdminService(store, notifier, cfg.Admin.PromoteCode),
		Export:       service.NewExportService(store),
		Importer:     service.NewImportService(store),
		Info:         service.NewInfoService(store),
	}

	b := bot.New(state.NewMemoryManager(), svc, notifier)
	b.RegisterStates()
	registry := b.BuildRegistry()

	return &App{
		cfg:      cfg,
		db:       res.DB,
		bot:      b,
		registry: registry,
	}, nil
}

// TelegramRunOptions builds the runtime options for the shared runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	middlewares := coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil)
	middlewares = append(middlewares, a.bot.SessionMiddleware(), a.bot.Notifier().BindMiddleware())

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    a.registry,
		Middlewares: middlewares,
		Routes:      a.bot.Routes(a.registry),
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}
