package storage

import (
	"context"
	"fmt"
)

// RecordEdge appends a graph edge to the audit log.
func (s *SQLiteStorage) RecordEdge(ctx context.Context, e Edge) error {
	if err := e.Validate(); err != nil {
		return fmt.Errorf("invalid edge: %w", err)
	}

	db, err := s.acquire(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if e.RecordedAt.IsZero() {
		e.RecordedAt = s.now()
	}

	query := `
		INSERT INTO astar_edges (node_from, node_to, cost, recorded_at)
		VALUES (?, ?, ?, ?)
	`

	if _, err := db.ExecContext(ctx, query, e.From, e.To, e.Cost, formatTime(e.RecordedAt)); err != nil {
		return s.fail("record edge", err)
	}

	return nil
}
