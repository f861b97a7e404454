package sqlc

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"todo-api/internal/infra/database"
	"todo-api/pkg/log"
	"todo-api/pkg/msg"

	_ "github.com/lib/pq"
)

// Connect opens a lib/pq pool, checks it is reachable and applies pending migrations when enabled
func Connect(ctx context.Context, cfg database.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info(msg.GetMessage("app.db.connected", database.DriverSQL))

	if cfg.AutoMigrate {
		if err := Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}
