package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
)

// Connect opens a pgx-backed database/sql pool and checks it answers.
func Connect(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	db.SetMaxIdleConns(4)
	db.SetMaxOpenConns(16)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	zerolog.Ctx(ctx).Info().Msg("Successfully connected to the database")
	return db, nil
}

// Close closes the database connection pool.
func Close(ctx context.Context, db *sql.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to close database")
		return
	}
	zerolog.Ctx(ctx).Info().Msg("Database connection pool closed")
}
