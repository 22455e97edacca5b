package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
	id VARCHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL,
	password VARCHAR(255) NOT NULL,
	phone VARCHAR(50) NOT NULL DEFAULT '',
	role VARCHAR(50) NOT NULL DEFAULT 'PASTOR',
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	department VARCHAR(100) NOT NULL DEFAULT '',
	district VARCHAR(100) NOT NULL DEFAULT '',
	location VARCHAR(100) NOT NULL DEFAULT '',
	avatar VARCHAR(255) NOT NULL DEFAULT '',
	position VARCHAR(100) NOT NULL DEFAULT '',
	meeting_time VARCHAR(100) NOT NULL DEFAULT '',
	rejection_date TIMESTAMPTZ NULL,
	last_login TIMESTAMPTZ NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_email_lower_idx ON users (LOWER(email))`,
	`CREATE TABLE IF NOT EXISTS announcements (
	id VARCHAR(36) PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	meeting_time VARCHAR(100) NOT NULL DEFAULT '',
	author VARCHAR(255) NOT NULL DEFAULT '',
	date VARCHAR(10) NOT NULL DEFAULT '',
	department_id VARCHAR(50) NOT NULL DEFAULT ''
)`,
	`CREATE TABLE IF NOT EXISTS locations (
	id VARCHAR(36) PRIMARY KEY,
	name VARCHAR(255) NOT NULL,
	district VARCHAR(100) NOT NULL DEFAULT '',
	address TEXT NOT NULL DEFAULT '',
	admin_id VARCHAR(36) NOT NULL DEFAULT ''
)`,
}

// EnsureSchema creates the users, announcements and locations tables when missing.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
