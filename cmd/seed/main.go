package main

import (
	"context"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/campuskart/config"
	pginfra "github.com/oksasatya/campuskart/internal/infrastructure/postgres"
	"github.com/oksasatya/campuskart/pkg/helpers"
)

type demoItem struct {
	title, description, category string
	price                        float64
	quantity                     int
}

var demoItems = []demoItem{
	{"Calculus textbook", "Stewart, 8th edition. Some highlighting.", "Books", 1500, 1},
	{"Desk lamp", "LED, three brightness levels.", "Furniture", 800, 2},
	{"Graphing calculator", "TI-84 Plus, works perfectly.", "Electronics", 6000, 1},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{DSN: cfg.PostgresDSN(), MaxConns: 2})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	email := "demo@" + cfg.EmailDomain
	password := "password123"
	hash, err := helpers.HashPassword(password, cfg.BcryptCost)
	if err != nil {
		logger.Fatalf("failed to hash password: %v", err)
	}

	var userID int64
	err = pool.QueryRow(ctx, `
		INSERT INTO users (first_name, last_name, usiu_email, password_hash, is_verified)
		VALUES ($1, $2, $3, $4, TRUE)
		ON CONFLICT (usiu_email) DO UPDATE
		SET password_hash = EXCLUDED.password_hash, is_verified = TRUE,
		    verification_token = NULL, verification_token_expires = NULL
		RETURNING user_id
	`, "Demo", "Seller", email, hash).Scan(&userID)
	if err != nil {
		logger.Fatalf("failed to seed user: %v", err)
	}
	logger.Infof("seeded user: id=%d email=%s password=%s", userID, email, password)

	for _, it := range demoItems {
		tag, err := pool.Exec(ctx, `
			INSERT INTO items (seller_id, title, description, price, category, quantity)
			SELECT $1, $2, $3, $4, $5, $6
			WHERE NOT EXISTS (SELECT 1 FROM items WHERE seller_id = $1 AND title = $2)
		`, userID, it.title, it.description, it.price, it.category, it.quantity)
		if err != nil {
			logger.Fatalf("failed to seed item %q: %v", it.title, err)
		}
		if tag.RowsAffected() > 0 {
			logger.Infof("seeded item %q", it.title)
		}
	}
}
