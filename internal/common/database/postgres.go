package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"legal-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// PostgresClient wraps the SQL database connection
type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// Schema creates the portal tables when they do not exist.
var Schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR PRIMARY KEY,
		email VARCHAR UNIQUE,
		phone VARCHAR,
		first_name VARCHAR,
		last_name VARCHAR,
		profile_image_url VARCHAR,
		role VARCHAR NOT NULL DEFAULT 'citizen',
		created_at TIMESTAMP DEFAULT NOW(),
		updated_at TIMESTAMP DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS fir_reports (
		id UUID PRIMARY KEY,
		user_id VARCHAR NOT NULL REFERENCES users(id),
		fir_number VARCHAR NOT NULL UNIQUE,
		crime_type VARCHAR NOT NULL,
		description TEXT NOT NULL,
		location TEXT NOT NULL,
		incident_date TIMESTAMP NOT NULL,
		incident_time VARCHAR,
		ipc_sections JSONB NOT NULL DEFAULT '[]',
		evidence_urls JSONB NOT NULL DEFAULT '[]',
		status VARCHAR NOT NULL DEFAULT 'pending',
		investigating_officer VARCHAR,
		police_station VARCHAR,
		pdf_url VARCHAR,
		created_at TIMESTAMP DEFAULT NOW(),
		updated_at TIMESTAMP DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS chat_logs (
		id UUID PRIMARY KEY,
		user_id VARCHAR NOT NULL REFERENCES users(id),
		query TEXT NOT NULL,
		response TEXT NOT NULL,
		language VARCHAR NOT NULL DEFAULT 'english',
		created_at TIMESTAMP DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS case_status (
		id UUID PRIMARY KEY,
		case_id VARCHAR NOT NULL UNIQUE,
		fir_id UUID REFERENCES fir_reports(id),
		user_id VARCHAR NOT NULL REFERENCES users(id),
		status VARCHAR NOT NULL,
		court VARCHAR,
		judge VARCHAR,
		hearing_date TIMESTAMP,
		next_hearing TIMESTAMP,
		remarks TEXT,
		created_at TIMESTAMP DEFAULT NOW(),
		updated_at TIMESTAMP DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS audit_logs (
		id UUID PRIMARY KEY,
		user_id VARCHAR REFERENCES users(id),
		module VARCHAR NOT NULL,
		action VARCHAR NOT NULL,
		details JSONB,
		ip_address VARCHAR,
		user_agent TEXT,
		created_at TIMESTAMP DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fir_reports_user ON fir_reports(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_chat_logs_user ON chat_logs(user_id, created_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)`,
}

// EnsureSchema applies Schema in a single transaction.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	for _, stmt := range Schema {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return tx.Commit()
}
