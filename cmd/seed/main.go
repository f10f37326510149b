// seed creates the initial superuser from ADMIN_EMAIL / ADMIN_PASSWORD.
// Idempotent: skips the insert if the admin account already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"contacthub/backend/internal/config"
	"contacthub/backend/internal/db"
	"contacthub/backend/internal/security"
	"contacthub/backend/internal/user/domain"
	userrepo "contacthub/backend/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	repo := userrepo.NewPostgresRepository(conn)
	ctx := context.Background()

	existing, err := repo.GetByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Printf("Seed already applied (%s exists). Skipping.", cfg.AdminEmail)
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(cfg.AdminPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		ID:           uuid.New().String(),
		Email:        cfg.AdminEmail,
		FullName:     "Administrator",
		PasswordHash: passwordHash,
		Active:       true,
		Superuser:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Create(ctx, admin); err != nil {
		log.Fatalf("create admin user: %v", err)
	}

	log.Printf("Seed completed: superuser %s created.", cfg.AdminEmail)
}
