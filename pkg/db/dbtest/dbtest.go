// Package dbtest opens throwaway SQLite databases carrying the application
// schema, for repository and service tests.
package dbtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Schema mirrors the goose migrations using SQLite column types.
var Schema = []string{
	`CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'worker',
		is_active BOOLEAN NOT NULL DEFAULT 1,
		last_login_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE inventory_items (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		name_localized TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		unit TEXT NOT NULL DEFAULT 'piece',
		total_quantity INTEGER NOT NULL DEFAULT 0 CHECK (total_quantity >= 0),
		price NUMERIC NOT NULL DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE orders (
		id TEXT PRIMARY KEY,
		order_number TEXT NOT NULL UNIQUE,
		customer_name TEXT NOT NULL,
		phone TEXT NOT NULL,
		address TEXT NOT NULL,
		event_date DATETIME NOT NULL,
		return_date DATETIME NOT NULL,
		total_amount NUMERIC NOT NULL,
		paid_amount NUMERIC NOT NULL DEFAULT 0,
		status TEXT NOT NULL DEFAULT 'upcoming',
		notes TEXT,
		created_by TEXT NOT NULL,
		completed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE order_items (
		id TEXT PRIMARY KEY,
		order_id TEXT NOT NULL,
		inventory_item_id TEXT,
		position INTEGER NOT NULL DEFAULT 0,
		item_name TEXT NOT NULL,
		rate NUMERIC NOT NULL,
		quantity INTEGER NOT NULL,
		line_total NUMERIC NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE invoices (
		id TEXT PRIMARY KEY,
		invoice_number TEXT NOT NULL UNIQUE,
		order_id TEXT NOT NULL UNIQUE,
		issued_date DATETIME NOT NULL,
		due_date DATETIME NOT NULL,
		status TEXT NOT NULL DEFAULT 'unpaid',
		paid_amount NUMERIC NOT NULL DEFAULT 0,
		created_by TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE payment_events (
		id TEXT PRIMARY KEY,
		invoice_id TEXT NOT NULL,
		order_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount NUMERIC NOT NULL,
		method TEXT,
		note TEXT,
		recorded_by TEXT NOT NULL,
		created_at DATETIME
	)`,
}

// Open returns a private in-memory database with the schema applied.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:rasoi_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc:                func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	for _, stmt := range Schema {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}
