/*
Package storage provides SQLite database migrations.

This file contains schema definitions and migration logic for the
storage layer.
*/
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// runMigrations executes database schema migrations.
func (s *SQLiteStorage) runMigrations(ctx context.Context) error {
	if err := s.createMigrationsTable(ctx); err != nil {
		return err
	}

	version, err := s.getCurrentMigrationVersion(ctx)
	if err != nil {
		return err
	}

	// Run migrations in order
	migrations := []migration{
		{version: 1, name: "student_logs", up: s.migration001StudentLogs},
		{version: 2, name: "behavior_history", up: s.migration002BehaviorHistory},
		{version: 3, name: "astar_edges", up: s.migration003AstarEdges},
	}

	for _, m := range migrations {
		if version < m.version {
			s.logger.Info("running migration", zap.Int("version", m.version), zap.String("name", m.name))
			if err := m.up(ctx); err != nil {
				return fmt.Errorf("migration %d failed: %w", m.version, err)
			}
			if err := s.setMigrationVersion(ctx, m); err != nil {
				return err
			}
		}
	}

	return nil
}

// migration represents a single database migration.
type migration struct {
	version int
	name    string
	up      func(ctx context.Context) error
}

// createMigrationsTable creates the schema_migrations table.
func (s *SQLiteStorage) createMigrationsTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// getCurrentMigrationVersion returns the highest applied migration version.
func (s *SQLiteStorage) getCurrentMigrationVersion(ctx context.Context) (int, error) {
	query := "SELECT COALESCE(MAX(version), 0) FROM schema_migrations"
	row := s.db.QueryRowContext(ctx, query)

	var version int
	if err := row.Scan(&version); err != nil {
		return 0, err
	}

	return version, nil
}

// setMigrationVersion records a migration as applied.
func (s *SQLiteStorage) setMigrationVersion(ctx context.Context, m migration) error {
	query := "INSERT INTO schema_migrations (version, name) VALUES (?, ?)"
	_, err := s.db.ExecContext(ctx, query, m.version, m.name)
	return err
}

// nowDefault is the SQL default for timestamp columns, in timeLayout form.
const nowDefault = `(strftime('%Y-%m-%dT%H:%M:%f', 'now') || '000000Z')`

// migration001StudentLogs creates the raw interaction log table.
func (s *SQLiteStorage) migration001StudentLogs(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS student_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			student_id TEXT NOT NULL,
			response_time REAL NOT NULL,
			attempts REAL NOT NULL,
			correct REAL NOT NULL,
			marks INTEGER,
			logged_at TEXT NOT NULL DEFAULT `+nowDefault+`
		)
	`); err != nil {
		return fmt.Errorf("failed to create student_logs table: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_student_logs_student
		ON student_logs(student_id)
	`); err != nil {
		return fmt.Errorf("failed to create student_logs student index: %w", err)
	}

	return nil
}

// migration002BehaviorHistory creates the append-only snapshot table.
func (s *SQLiteStorage) migration002BehaviorHistory(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS student_behavior_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL DEFAULT '',
			student_id TEXT NOT NULL,
			avg_response_time REAL NOT NULL,
			avg_attempts REAL NOT NULL,
			accuracy REAL NOT NULL,
			cluster INTEGER NOT NULL,
			recommendation TEXT NOT NULL,
			recorded_at TEXT NOT NULL DEFAULT `+nowDefault+`
		)
	`); err != nil {
		return fmt.Errorf("failed to create student_behavior_history table: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS idx_behavior_history_student
		ON student_behavior_history(student_id, recorded_at)
	`); err != nil {
		return fmt.Errorf("failed to create student_behavior_history index: %w", err)
	}

	return nil
}

// migration003AstarEdges creates the edge audit table.
func (s *SQLiteStorage) migration003AstarEdges(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS astar_edges (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			node_from TEXT NOT NULL,
			node_to TEXT NOT NULL,
			cost REAL NOT NULL,
			recorded_at TEXT NOT NULL DEFAULT `+nowDefault+`
		)
	`); err != nil {
		return fmt.Errorf("failed to create astar_edges table: %w", err)
	}

	return nil
}
