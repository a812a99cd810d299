// Command create-admin bootstraps the admin account: it creates the user with
// the admin role, or promotes it when the email is already registered.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"EcoStore/internal/auth"
	"EcoStore/internal/config"
	"EcoStore/pkg/kit"
)

func main() {
	log := kit.NewLogger("create-admin")
	defer func() { _ = log.Sync() }()

	cfg := config.Load()

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("open database failed", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store := auth.NewPostgresStore(db)

	existing, found, err := store.FindByEmail(ctx, email)
	if err != nil {
		log.Fatal("lookup admin failed", zap.Error(err))
	}

	if found {
		if err := store.SetRole(ctx, existing.ID, auth.RoleAdmin); err != nil {
			log.Fatal("promote admin failed", zap.Error(err))
		}
		log.Info("admin user already exists, role ensured", zap.String("user_id", existing.ID))
		return
	}

	u := auth.User{
		ID:    "u_" + uuid.NewString(),
		Email: email,
		Role:  auth.RoleAdmin,
	}
	if err := store.Create(ctx, u, password); err != nil {
		log.Fatal("create admin failed", zap.Error(err))
	}

	log.Info("admin user created", zap.String("user_id", u.ID))
}
