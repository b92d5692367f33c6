package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	mongostore "github.com/senado-bo/portal-api/internal/infrastructure/db/mongo"
	"github.com/senado-bo/portal-api/internal/pkg/config"
	"github.com/senado-bo/portal-api/pkg/logger"
)

const appName = "portal-api"

// app holds what every command needs: validated config, the logger and the
// MongoDB repositories.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	client *mongo.Client

	// cleanup runs in reverse order on close, before mongo disconnects.
	cleanup []func()

	users       *mongostore.UserRepository
	contents    *mongostore.ContentRepository
	legislators *mongostore.LegislatorRepository
	categories  *mongostore.TabCategoryRepository
	links       *mongostore.TabLinkRepository
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(ctx, nil)
	if err != nil {
		return nil, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: appName,
	})

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  appName,
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	return &app{
		cfg:         cfg,
		log:         log,
		client:      client,
		users:       mongostore.NewUserRepository(db),
		contents:    mongostore.NewContentRepository(db),
		legislators: mongostore.NewLegislatorRepository(db),
		categories:  mongostore.NewTabCategoryRepository(db),
		links:       mongostore.NewTabLinkRepository(db),
	}, nil
}

func (a *app) ensureIndexes(ctx context.Context) error {
	if err := mongostore.EnsureIndexes(ctx, a.users, a.contents, a.legislators, a.categories, a.links); err != nil {
		return fmt.Errorf("indexes: %w", err)
	}
	a.log.Info().Msg("indexes ensured")
	return nil
}

func (a *app) onClose(fn func()) {
	a.cleanup = append(a.cleanup, fn)
}

func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	if a.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.client.Disconnect(ctx); err != nil {
		a.log.Warn().Err(err).Msg("mongo disconnect")
	}
}

// withApp opens the app, runs fn and always closes the app before returning
// fn's error, so callers exit only after cleanup.
func withApp(ctx context.Context, open func(context.Context) (*app, error), fn func(context.Context, *app) error) error {
	a, err := open(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	if err := fn(ctx, a); err != nil {
		a.log.Error().Err(err).Msg("command failed")
		return err
	}
	return nil
}
