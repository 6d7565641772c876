package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

const snapshotColumns = `id, run_id, student_id, avg_response_time, avg_attempts, accuracy, cluster, recommendation, recorded_at`

// RecordSnapshot appends a history snapshot. Snapshots are never updated.
func (s *SQLiteStorage) RecordSnapshot(ctx context.Context, snap Snapshot) (Snapshot, error) {
	if err := snap.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("invalid snapshot: %w", err)
	}

	db, err := s.acquire(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	snap.RecordedAt = s.now().UTC()

	query := `
		INSERT INTO student_behavior_history
			(run_id, student_id, avg_response_time, avg_attempts, accuracy, cluster, recommendation, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := db.ExecContext(ctx, query,
		snap.RunID,
		snap.StudentID,
		snap.AvgResponseTime,
		snap.AvgAttempts,
		snap.Accuracy,
		snap.Cluster,
		snap.Recommendation,
		formatTime(snap.RecordedAt),
	)
	if err != nil {
		return Snapshot{}, s.fail("record snapshot", err)
	}

	snap.ID, _ = res.LastInsertId()
	return snap, nil
}

// History returns a student's snapshots, oldest first.
func (s *SQLiteStorage) History(ctx context.Context, studentID string) ([]Snapshot, error) {
	return s.querySnapshots(ctx, "fetch history",
		`SELECT `+snapshotColumns+` FROM student_behavior_history
		 WHERE student_id = ? ORDER BY recorded_at, id`, studentID)
}

// RecentHistory returns up to limit snapshots of a student, newest first.
func (s *SQLiteStorage) RecentHistory(ctx context.Context, studentID string, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.querySnapshots(ctx, "fetch recent history",
		`SELECT `+snapshotColumns+` FROM student_behavior_history
		 WHERE student_id = ? ORDER BY recorded_at DESC, id DESC LIMIT ?`, studentID, limit)
}

// AllHistory returns every snapshot ordered by student then time.
func (s *SQLiteStorage) AllHistory(ctx context.Context) ([]Snapshot, error) {
	return s.querySnapshots(ctx, "fetch all history",
		`SELECT `+snapshotColumns+` FROM student_behavior_history
		 ORDER BY student_id, recorded_at, id`)
}

func (s *SQLiteStorage) querySnapshots(ctx context.Context, op, query string, args ...any) ([]Snapshot, error) {
	db, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.fail(op, err)
	}
	defer rows.Close()

	snaps := []Snapshot{}
	for rows.Next() {
		var snap Snapshot
		var recordedAt string

		if err := rows.Scan(
			&snap.ID,
			&snap.RunID,
			&snap.StudentID,
			&snap.AvgResponseTime,
			&snap.AvgAttempts,
			&snap.Accuracy,
			&snap.Cluster,
			&snap.Recommendation,
			&recordedAt,
		); err != nil {
			s.logger.Warn("failed to scan snapshot row", zap.Error(err))
			continue
		}

		if snap.RecordedAt, err = parseTime(recordedAt); err != nil {
			s.logger.Warn("failed to parse snapshot timestamp", zap.String("value", recordedAt), zap.Error(err))
		}
		if err := snap.Validate(); err != nil {
			s.logger.Warn("skipping invalid snapshot row", zap.Int64("id", snap.ID), zap.Error(err))
			continue
		}

		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}

	return snaps, nil
}
