package dbs

import (
	"context"
	"fmt"

	"LCID/configs"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
)

// NewMySQL opens the MySQL pool used by the snapshot table.
func NewMySQL(ctx context.Context, cfg *configs.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to mysql at %s:%s: %w", cfg.DBHost, cfg.DBPort, err)
	}

	return db, nil
}
