package main

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"EcoStore/internal/app"
	"EcoStore/internal/auth"
	"EcoStore/internal/catalog"
	"EcoStore/internal/config"
	"EcoStore/internal/kv"
	"EcoStore/pkg/kit"
)

func main() {
	log := kit.NewLogger("api")
	defer func() { _ = log.Sync() }()

	cfg := config.Load()

	store, users, err := buildStores(cfg)
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}

	if cfg.SeedOnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		count, err := catalog.NewStore(store).Seed(ctx)
		cancel()
		if err != nil {
			log.Fatal("seed catalog failed", zap.Error(err))
		}
		log.Info("catalog seeded", zap.Int("count", count))
	}

	h := app.NewHandler(app.Deps{
		Log:            log,
		Store:          store,
		Users:          users,
		JWTSecret:      cfg.JWTSecret,
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: cfg.MetricsEnabled,
		MetricsToken:   cfg.MetricsToken,
	})

	if err := kit.RunHTTPServer(cfg.Addr, h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}

func buildStores(cfg config.Config) (kv.Store, auth.UserStore, error) {
	if cfg.DatabaseURL == "" {
		return kv.NewMemStore(), auth.NewMemStore(), nil
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	return kv.NewPostgresStore(db), auth.NewPostgresStore(db), nil
}
