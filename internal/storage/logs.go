package storage

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

const logColumns = `id, student_id, response_time, attempts, correct, marks, logged_at`

const insertLogQuery = `
	INSERT INTO student_logs (student_id, response_time, attempts, correct, marks, logged_at)
	VALUES (?, ?, ?, ?, ?, ?)
`

// RecordLog inserts a raw interaction log.
func (s *SQLiteStorage) RecordLog(ctx context.Context, l InteractionLog) (InteractionLog, error) {
	if err := l.Validate(); err != nil {
		return InteractionLog{}, fmt.Errorf("invalid interaction log: %w", err)
	}

	db, err := s.acquire(ctx)
	if err != nil {
		return InteractionLog{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if l.LoggedAt.IsZero() {
		l.LoggedAt = s.now()
	}
	l.LoggedAt = l.LoggedAt.UTC()

	var marks sql.NullInt64
	if l.Marks != nil {
		marks = sql.NullInt64{Int64: int64(*l.Marks), Valid: true}
	}

	res, err := db.ExecContext(ctx, insertLogQuery,
		l.StudentID,
		l.ResponseTime,
		l.Attempts,
		l.Correct,
		marks,
		formatTime(l.LoggedAt),
	)
	if err != nil {
		return InteractionLog{}, s.fail("record log", err)
	}

	l.ID, _ = res.LastInsertId()
	return l, nil
}

// RecordLogs inserts logs in one transaction: either every row is stored or
// none is.
func (s *SQLiteStorage) RecordLogs(ctx context.Context, logs []InteractionLog) (int, error) {
	for i, l := range logs {
		if err := l.Validate(); err != nil {
			return 0, fmt.Errorf("invalid interaction log %d: %w", i+1, err)
		}
	}
	if len(logs) == 0 {
		return 0, nil
	}

	db, err := s.acquire(ctx)
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, s.fail("begin log batch", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertLogQuery)
	if err != nil {
		return 0, s.fail("prepare log batch", err)
	}
	defer stmt.Close()

	now := s.now()
	for _, l := range logs {
		loggedAt := l.LoggedAt
		if loggedAt.IsZero() {
			loggedAt = now
		}

		var marks sql.NullInt64
		if l.Marks != nil {
			marks = sql.NullInt64{Int64: int64(*l.Marks), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx,
			l.StudentID,
			l.ResponseTime,
			l.Attempts,
			l.Correct,
			marks,
			formatTime(loggedAt),
		); err != nil {
			return 0, s.fail("record log batch", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, s.fail("commit log batch", err)
	}
	return len(logs), nil
}

// Logs returns every raw interaction log.
func (s *SQLiteStorage) Logs(ctx context.Context) ([]InteractionLog, error) {
	return s.queryLogs(ctx, "fetch logs",
		`SELECT `+logColumns+` FROM student_logs ORDER BY id`)
}

// ListLogs returns up to limit logs ordered by student.
func (s *SQLiteStorage) ListLogs(ctx context.Context, limit int) ([]InteractionLog, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.queryLogs(ctx, "list logs",
		`SELECT `+logColumns+` FROM student_logs ORDER BY student_id, id LIMIT ?`, limit)
}

// StudentLogs returns up to limit logs of one student.
func (s *SQLiteStorage) StudentLogs(ctx context.Context, studentID string, limit int) ([]InteractionLog, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryLogs(ctx, "fetch student logs",
		`SELECT `+logColumns+` FROM student_logs WHERE student_id = ? ORDER BY id LIMIT ?`, studentID, limit)
}

func (s *SQLiteStorage) queryLogs(ctx context.Context, op, query string, args ...any) ([]InteractionLog, error) {
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

	logs := []InteractionLog{}
	for rows.Next() {
		var l InteractionLog
		var marks sql.NullInt64
		var loggedAt string

		if err := rows.Scan(
			&l.ID,
			&l.StudentID,
			&l.ResponseTime,
			&l.Attempts,
			&l.Correct,
			&marks,
			&loggedAt,
		); err != nil {
			s.logger.Warn("failed to scan log row", zap.Error(err))
			continue
		}

		if marks.Valid {
			m := int(marks.Int64)
			l.Marks = &m
		}
		if l.LoggedAt, err = parseTime(loggedAt); err != nil {
			s.logger.Warn("failed to parse log timestamp", zap.String("value", loggedAt), zap.Error(err))
		}
		if err := l.Validate(); err != nil {
			s.logger.Warn("skipping invalid log row", zap.Int64("id", l.ID), zap.Error(err))
			continue
		}

		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}

	return logs, nil
}

// Marks returns every recorded mark, highest first.
func (s *SQLiteStorage) Marks(ctx context.Context) ([]int, error) {
	return s.queryMarks(ctx, "fetch marks",
		`SELECT marks FROM student_logs WHERE marks IS NOT NULL ORDER BY marks DESC`)
}

// StudentMarks returns one student's marks, highest first.
func (s *SQLiteStorage) StudentMarks(ctx context.Context, studentID string) ([]int, error) {
	return s.queryMarks(ctx, "fetch student marks",
		`SELECT marks FROM student_logs WHERE student_id = ? AND marks IS NOT NULL ORDER BY marks DESC`, studentID)
}

func (s *SQLiteStorage) queryMarks(ctx context.Context, op, query string, args ...any) ([]int, error) {
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

	marks := []int{}
	for rows.Next() {
		var m int
		if err := rows.Scan(&m); err != nil {
			s.logger.Warn("failed to scan mark", zap.Error(err))
			continue
		}
		marks = append(marks, m)
	}
	if err := rows.Err(); err != nil {
		return nil, s.fail(op, err)
	}

	return marks, nil
}
