package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func Connect(dbUrl string) (*sql.DB, error) {
	if dbUrl == "" {
		return nil, fmt.Errorf("database URL not configured")
	}

	db, err := sql.Open("pgx", dbUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL DEFAULT '',
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS medicines (
		id SERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		generic_name VARCHAR(255) NOT NULL DEFAULT '',
		manufacturer VARCHAR(255) NOT NULL,
		batch_number VARCHAR(100) NOT NULL UNIQUE,
		expiry_date DATE NOT NULL,
		price NUMERIC(10, 2) NOT NULL,
		stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
		description TEXT NOT NULL DEFAULT '',
		qr_code BYTEA,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS scan_logs (
		id SERIAL PRIMARY KEY,
		scanned_data TEXT NOT NULL,
		recognized BOOLEAN NOT NULL DEFAULT false,
		medicine_id INTEGER REFERENCES medicines(id) ON DELETE SET NULL,
		timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS scan_logs_medicine_id_idx ON scan_logs (medicine_id)`,
}

// Migrate creates the tables if needed. pg_trgm is optional: when the
// extension cannot be created, fuzzy batch matching stays disabled.
func Migrate(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, `CREATE EXTENSION IF NOT EXISTS pg_trgm`); err != nil {
		log.Printf("⚠️ could not enable pg_trgm: %v", err)
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
