// Package app wires configuration into a ready-to-use set of components:
// logger, key-value backend, catalog client, offline cache, ledger and the
// services on top of them.
package app

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/cardkeeper/internal/catalog"
	"github.com/dmitrijs2005/cardkeeper/internal/catalog/tcgdex"
	"github.com/dmitrijs2005/cardkeeper/internal/config"
	"github.com/dmitrijs2005/cardkeeper/internal/identity"
	"github.com/dmitrijs2005/cardkeeper/internal/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/ledger"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/offline"
	"github.com/dmitrijs2005/cardkeeper/internal/services"
)

type App struct {
	Config      *config.Config
	Logger      logging.Logger
	User        identity.User
	Store       kv.Store
	Catalog     catalog.Client
	Cache       *offline.Cache
	Ledger      *ledger.Ledger
	Browse      *services.BrowseService
	Collections *services.CollectionService

	closeStore func() error
}

// New builds an App from cfg. Logs go to logOut.
func New(ctx context.Context, cfg *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, logOut)

	user, err := resolveUser(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client, err := tcgdex.New(tcgdex.Config{
		BaseURL:        cfg.CatalogBaseURL,
		Locale:         cfg.CatalogLocale,
		FallbackLocale: cfg.FallbackLocale,
		Timeout:        cfg.RequestTimeout,
		Concurrency:    cfg.FetchConcurrency,
	}, logger.With("component", "catalog"), nil)
	if err != nil {
		_ = closeStore()
		return nil, err
	}

	cache := offline.NewCache(store, logger.With("component", "offline"))
	l := ledger.New(store, logger.With("component", "ledger"), ledger.WithUser(user.ID))

	logger.Info(ctx, "cardkeeper ready", "storage", cfg.StorageType, "locale", cfg.CatalogLocale, "anonymous", user.Anonymous())

	return &App{
		Config:      cfg,
		Logger:      logger,
		User:        user,
		Store:       store,
		Catalog:     client,
		Cache:       cache,
		Ledger:      l,
		Browse:      services.NewBrowseService(client, cache, l, logger.With("component", "browse")),
		Collections: services.NewCollectionService(l, client, cache, logger.With("component", "collections")),
		closeStore:  closeStore,
	}, nil
}

func (a *App) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

func resolveUser(ctx context.Context, cfg *config.Config) (identity.User, error) {
	var p identity.Provider = identity.Device{}
	if cfg.SessionToken != "" {
		p = identity.NewTokenProvider(cfg.SessionToken, []byte(cfg.SessionSecret))
	}
	user, err := p.CurrentUser(ctx)
	if err != nil {
		return identity.User{}, fmt.Errorf("session rejected: %w", err)
	}
	return user, nil
}
