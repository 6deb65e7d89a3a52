package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"installment-backoffice/config"
)

// DB holds the database connection
var DB *sql.DB

// InitDB opens the Postgres connection through the pgx stdlib driver and
// applies the embedded migrations when enabled
func InitDB(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) error {
	connStr, err := cfg.DSN()
	if err != nil {
		return err
	}

	DB, err = sql.Open("pgx", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	// Test the connection
	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("✓ Database connection established successfully")

	if cfg.AutoMigrate {
		if err := Migrate(DB); err != nil {
			return err
		}
		log.Info("✓ Database migrations applied")
	}

	return nil
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
