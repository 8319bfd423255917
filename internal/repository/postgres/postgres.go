// Package postgres stores slots as JSONB rows keyed by client and slot name.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jannathh/Scentify-Project/internal/repository"
	"github.com/jannathh/Scentify-Project/pkg/database"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const (
	loadSQL = `SELECT data FROM storefront_slots WHERE slot_key = $1`
	saveSQL = `INSERT INTO storefront_slots (slot_key, data, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (slot_key) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`
)

// DBTX is the subset of *pgxpool.Pool the backend uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Backend implements repository.Backend using PostgreSQL.
type Backend struct {
	db DBTX
}

func New(db DBTX) *Backend {
	return &Backend{db: db}
}

// Migrate creates the slot table.
func Migrate(ctx context.Context, db database.Migrator, logger *slog.Logger) error {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("open slot migrations: %w", err)
	}
	return database.RunMigrations(ctx, db, sub, logger)
}

// Get retrieves a slot document.
func (b *Backend) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, end := database.TraceQuery(ctx, "LoadSlot", loadSQL)
	defer func() { end(err) }()

	if err := b.db.QueryRow(ctx, loadSQL, key).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSlotNotFound
		}
		return nil, fmt.Errorf("select slot: %w", err)
	}
	return data, nil
}

// Set upserts a slot document.
func (b *Backend) Set(ctx context.Context, key string, data []byte) (err error) {
	ctx, end := database.TraceQuery(ctx, "SaveSlot", saveSQL)
	defer func() { end(err) }()

	if _, err := b.db.Exec(ctx, saveSQL, key, data); err != nil {
		return fmt.Errorf("upsert slot: %w", err)
	}
	return nil
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.db.Ping(ctx)
}
