// seed inserts a development admin user for local testing.
// Idempotent: skips the insert if the dev user (dev@example.com) already
// exists. The generated temporary password is printed once; the account is
// flagged to require a password change on first login.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"lms-platform/authcore/internal/config"
	"lms-platform/authcore/internal/db"
	"lms-platform/authcore/internal/security"
	"lms-platform/authcore/internal/user/domain"
	userrepo "lms-platform/authcore/internal/user/repository"
)

const (
	devUsername = "dev"
	devEmail    = "dev@example.com"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	users := userrepo.NewPostgresStore(conn)

	existing, err := users.GetByEmail(ctx, devEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Printf("Seed already applied (%s exists). Skipping.", devEmail)
		return
	}

	password, err := security.GenerateTemporaryPassword()
	if err != nil {
		log.Fatalf("generate password: %v", err)
	}
	hasher := security.NewHasher(cfg.BcryptCost)
	hash, err := hasher.Hash(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	now := time.Now().UTC()
	u := &domain.User{
		ID:                    uuid.NewString(),
		Username:              devUsername,
		Email:                 devEmail,
		Status:                domain.UserStatusActive,
		HashedPassword:        hash,
		RequirePasswordChange: true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("create dev user: %v", err)
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Dev login: %s / %s (password change required)\n", devUsername, password)
}
