package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/kestrelgames/boardhouse/internal/config"
)

// OpenDB opens the postgres connection pool and wraps it in a bun.DB, grounded on the
// donor's initBun: a pgdriver.NewConnector with explicit host/user/password/timeouts.
func OpenDB(cfg *config.Config) (*bun.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(
		pgdriver.WithAddr(fmt.Sprintf("%s:%d", cfg.DBHost, cfg.DBPort)),
		pgdriver.WithUser(cfg.DBUser),
		pgdriver.WithPassword(cfg.DBPassword),
		pgdriver.WithDatabase(cfg.DBName),
		pgdriver.WithInsecure(cfg.DBSSLMode == "disable"),
		pgdriver.WithTimeout(5*time.Second),
		pgdriver.WithDialTimeout(5*time.Second),
		pgdriver.WithReadTimeout(5*time.Second),
		pgdriver.WithWriteTimeout(5*time.Second),
	))
	db := bun.NewDB(sqldb, pgdialect.New())

	if _, err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return nil, fmt.Errorf("store: enable uuid-ossp extension: %w", err)
	}
	if _, err := db.NewCreateTable().Model((*Row)(nil)).IfNotExists().Exec(context.Background()); err != nil {
		return nil, fmt.Errorf("store: create game_rows table: %w", err)
	}
	return db, nil
}
