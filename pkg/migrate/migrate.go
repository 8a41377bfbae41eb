// Package migrate applies the goose SQL migrations embedded in the binary.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where new migration files are written during development.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Source returns the embedded migrations rooted at their directory.
func Source() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(fmt.Sprintf("migrate: embedded migrations: %v", err))
	}
	return sub
}

// Applied describes one migration that ran.
type Applied struct {
	Version   int64
	File      string
	Direction string
	Took      time.Duration
}

// VersionStatus is one row of `rasoictl migrate status`.
type VersionStatus struct {
	Version   int64
	File      string
	Applied   bool
	AppliedAt time.Time
}

// Migrator wraps a goose provider bound to the application database. It
// does not own the *sql.DB and never closes it.
type Migrator struct {
	provider *goose.Provider
}

func NewMigrator(db *sql.DB, source fs.FS) (*Migrator, error) {
	if db == nil {
		return nil, errors.New("migrate: db is required")
	}
	if source == nil {
		source = Source()
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, source)
	if err != nil {
		return nil, fmt.Errorf("migrate: goose provider: %w", err)
	}
	return &Migrator{provider: provider}, nil
}

// Up applies every pending migration.
func (m *Migrator) Up(ctx context.Context) ([]Applied, error) {
	results, err := m.provider.Up(ctx)
	return collect(results), wrap("up", err)
}

// Down rolls back the most recent migration.
func (m *Migrator) Down(ctx context.Context) ([]Applied, error) {
	result, err := m.provider.Down(ctx)
	if result == nil {
		return nil, wrap("down", err)
	}
	return collect([]*goose.MigrationResult{result}), wrap("down", err)
}

// To moves the schema up or down to exactly target.
func (m *Migrator) To(ctx context.Context, target int64) ([]Applied, error) {
	current, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return nil, wrap("version", err)
	}
	var results []*goose.MigrationResult
	switch {
	case target == current:
		return nil, nil
	case target > current:
		results, err = m.provider.UpTo(ctx, target)
	default:
		results, err = m.provider.DownTo(ctx, target)
	}
	return collect(results), wrap(fmt.Sprintf("to %d", target), err)
}

func (m *Migrator) Version(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	return v, wrap("version", err)
}

func (m *Migrator) Status(ctx context.Context) ([]VersionStatus, error) {
	rows, err := m.provider.Status(ctx)
	if err != nil {
		return nil, wrap("status", err)
	}
	out := make([]VersionStatus, 0, len(rows))
	for _, row := range rows {
		status := VersionStatus{
			Applied:   row.State == goose.StateApplied,
			AppliedAt: row.AppliedAt,
		}
		if row.Source != nil {
			status.Version = row.Source.Version
			status.File = row.Source.Path
		}
		out = append(out, status)
	}
	return out, nil
}

func collect(results []*goose.MigrationResult) []Applied {
	out := make([]Applied, 0, len(results))
	for _, r := range results {
		if r == nil || r.Source == nil {
			continue
		}
		out = append(out, Applied{
			Version:   r.Source.Version,
			File:      r.Source.Path,
			Direction: r.Direction,
			Took:      r.Duration,
		})
	}
	return out
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("migrate %s: %w", op, err)
}
