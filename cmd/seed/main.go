package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/davryn/identity-service/config"
	"github.com/davryn/identity-service/internal/domain/valueobject"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email, err := valueobject.ParseEmail("demo@example.com")
	if err != nil {
		log.Fatalf("invalid seed email: %v", err)
	}
	password := "password123"
	hash, err := valueobject.NewPasswordHashWithCost(password, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	var id string
	err = db.QueryRow(`
		INSERT INTO users (id, email, password_hash, is_verified, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, true, false, $4, $4)
		ON CONFLICT (lower(email)) WHERE NOT is_deleted DO UPDATE SET updated_at = EXCLUDED.updated_at
		RETURNING id
	`, uuid.NewString(), email.Address(), hash.Bytes(), now).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email.Address(), password)
}
