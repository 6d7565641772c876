/*
Package storage provides tests for the storage layer.
*/
package storage

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// newTestStorage opens a fresh database in a temp directory.
func newTestStorage(t *testing.T, opts ...Option) *SQLiteStorage {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	storage := NewStorage(dbPath, opts...)
	if err := storage.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

// tickingClock returns a clock advancing one second per call.
func tickingClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func intPtr(v int) *int { return &v }

// TestNewStorage verifies that an empty path yields a disabled storage.
func TestNewStorage(t *testing.T) {
	storage := NewStorage("")
	if storage == nil {
		t.Fatal("NewStorage returned nil")
	}

	if err := storage.Init(context.Background()); err != nil {
		t.Fatalf("Init on disabled storage should be a no-op, got: %v", err)
	}
	if storage.Available() {
		t.Error("disabled storage should report unavailable")
	}

	_, err := storage.Logs(context.Background())
	if !IsUnavailable(err) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

// TestInit verifies database initialization and schema creation.
func TestInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")
	storage := NewStorage(dbPath)

	if err := storage.Init(context.Background()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer storage.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file not created")
	}
	if !storage.Available() {
		t.Error("gate should be open after a successful Init")
	}

	version, err := storage.getCurrentMigrationVersion(context.Background())
	if err != nil {
		t.Fatalf("getCurrentMigrationVersion failed: %v", err)
	}
	if version != 3 {
		t.Errorf("expected migration version 3, got %d", version)
	}
}

// TestRecordAndFetchLogs verifies the raw log round trip.
func TestRecordAndFetchLogs(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	logs := []InteractionLog{
		{StudentID: "S2", ResponseTime: 12, Attempts: 1, Correct: 1, Marks: intPtr(90)},
		{StudentID: "S1", ResponseTime: 30, Attempts: 3, Correct: 0},
		{StudentID: "S1", ResponseTime: 10, Attempts: 1, Correct: 1, Marks: intPtr(70)},
	}
	for _, l := range logs {
		if _, err := storage.RecordLog(ctx, l); err != nil {
			t.Fatalf("RecordLog failed: %v", err)
		}
	}

	all, err := storage.Logs(ctx)
	if err != nil {
		t.Fatalf("Logs failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(all))
	}
	if all[0].StudentID != "S2" || all[0].Marks == nil || *all[0].Marks != 90 {
		t.Errorf("unexpected first log: %+v", all[0])
	}
	if all[1].Marks != nil {
		t.Errorf("expected NULL marks to scan as nil, got %v", *all[1].Marks)
	}

	listed, err := storage.ListLogs(ctx, 2)
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(listed) != 2 || listed[0].StudentID != "S1" || listed[1].StudentID != "S1" {
		t.Errorf("ListLogs should order by student and honour the limit, got %+v", listed)
	}

	s1, err := storage.StudentLogs(ctx, "S1", 10)
	if err != nil {
		t.Fatalf("StudentLogs failed: %v", err)
	}
	if len(s1) != 2 {
		t.Errorf("expected 2 logs for S1, got %d", len(s1))
	}
}

// TestRecordLogsBatch verifies that a batch is stored whole or not at all.
func TestRecordLogsBatch(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	n, err := storage.RecordLogs(ctx, []InteractionLog{
		{StudentID: "S1", ResponseTime: 10, Attempts: 1, Correct: 1, Marks: intPtr(80)},
		{StudentID: "S2", ResponseTime: 20, Attempts: 2, Correct: 0},
	})
	if err != nil {
		t.Fatalf("RecordLogs failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 rows recorded, got %d", n)
	}

	_, err = storage.RecordLogs(ctx, []InteractionLog{
		{StudentID: "S3", ResponseTime: 1, Attempts: 1, Correct: 1},
		{StudentID: "S4", ResponseTime: math.Inf(1), Attempts: 1, Correct: 1},
	})
	if err == nil {
		t.Fatal("expected batch with a non-finite row to fail")
	}

	all, err := storage.Logs(ctx)
	if err != nil {
		t.Fatalf("Logs failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("failed batch must insert nothing, got %d logs", len(all))
	}
	if all[0].Marks == nil || *all[0].Marks != 80 || all[1].Marks != nil {
		t.Errorf("unexpected marks after batch: %+v", all)
	}

	if n, err := storage.RecordLogs(ctx, nil); err != nil || n != 0 {
		t.Errorf("empty batch: n=%d err=%v", n, err)
	}

	if _, err := NewStorage("").RecordLogs(ctx, all); !IsUnavailable(err) {
		t.Errorf("expected ErrUnavailable from disabled store, got %v", err)
	}
}

// TestRecordLogRejectsInvalid verifies validation at the store boundary.
func TestRecordLogRejectsInvalid(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.RecordLog(context.Background(), InteractionLog{StudentID: "S1", Correct: 1.5})
	if err == nil {
		t.Fatal("expected validation error for correct > 1")
	}
	if IsUnavailable(err) || IsQueryFailure(err) {
		t.Errorf("validation failure should not be classified as a store failure: %v", err)
	}

	_, err = storage.RecordLog(context.Background(), InteractionLog{ResponseTime: 1})
	if err == nil {
		t.Fatal("expected validation error for missing student_id")
	}

	nonFinite := []InteractionLog{
		{StudentID: "S1", ResponseTime: math.Inf(1), Attempts: 1, Correct: 1},
		{StudentID: "S1", ResponseTime: 1, Attempts: math.Inf(1), Correct: 1},
		{StudentID: "S1", ResponseTime: math.NaN(), Attempts: 1, Correct: 1},
		{StudentID: "S1", ResponseTime: 1, Attempts: 1, Correct: math.NaN()},
	}
	for _, l := range nonFinite {
		if _, err := storage.RecordLog(context.Background(), l); err == nil {
			t.Errorf("expected validation error for %+v", l)
		}
	}

	logs, err := storage.Logs(context.Background())
	if err != nil {
		t.Fatalf("Logs failed: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("rejected logs must not be stored, got %d", len(logs))
	}
}

// TestRecordSnapshotRejectsNonFinite keeps unencodable averages out of history.
func TestRecordSnapshotRejectsNonFinite(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.RecordSnapshot(context.Background(), Snapshot{StudentID: "S1", AvgResponseTime: math.Inf(1), Accuracy: 1})
	if err == nil {
		t.Fatal("expected validation error for infinite average")
	}

	if err := storage.RecordEdge(context.Background(), Edge{From: "A", To: "B", Cost: math.Inf(1)}); err == nil {
		t.Error("expected validation error for infinite edge cost")
	}
}

// TestMarks verifies marks ordering and NULL filtering.
func TestMarks(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	for _, l := range []InteractionLog{
		{StudentID: "S1", Correct: 1, Marks: intPtr(70)},
		{StudentID: "S1", Correct: 1, Marks: intPtr(95)},
		{StudentID: "S2", Correct: 1, Marks: intPtr(80)},
		{StudentID: "S2", Correct: 1},
	} {
		if _, err := storage.RecordLog(ctx, l); err != nil {
			t.Fatalf("RecordLog failed: %v", err)
		}
	}

	marks, err := storage.Marks(ctx)
	if err != nil {
		t.Fatalf("Marks failed: %v", err)
	}
	want := []int{95, 80, 70}
	if len(marks) != len(want) {
		t.Fatalf("expected %v, got %v", want, marks)
	}
	for i := range want {
		if marks[i] != want[i] {
			t.Errorf("marks[%d] = %d, want %d", i, marks[i], want[i])
		}
	}

	s1, err := storage.StudentMarks(ctx, "S1")
	if err != nil {
		t.Fatalf("StudentMarks failed: %v", err)
	}
	if len(s1) != 2 || s1[0] != 95 {
		t.Errorf("expected [95 70], got %v", s1)
	}
}

// TestSnapshotsAreAppendOnly verifies two runs produce two rows.
func TestSnapshotsAreAppendOnly(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	storage := newTestStorage(t, WithClock(tickingClock(start)))
	ctx := context.Background()

	snap := Snapshot{
		RunID:           "run-1",
		StudentID:       "24KQ1A5444",
		AvgResponseTime: 15.2,
		AvgAttempts:     1.8,
		Accuracy:        0.85,
		Cluster:         0,
		Recommendation:  "Advanced challenge questions recommended",
	}

	first, err := storage.RecordSnapshot(ctx, snap)
	if err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}
	snap.RunID = "run-2"
	snap.Accuracy = 0.9
	second, err := storage.RecordSnapshot(ctx, snap)
	if err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	if second.ID <= first.ID {
		t.Errorf("expected increasing IDs, got %d then %d", first.ID, second.ID)
	}

	history, err := storage.History(ctx, "24KQ1A5444")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(history))
	}
	if !history[1].RecordedAt.After(history[0].RecordedAt) {
		t.Errorf("expected increasing recorded_at, got %v then %v", history[0].RecordedAt, history[1].RecordedAt)
	}
	if history[0].Accuracy != 0.85 || history[1].Accuracy != 0.9 {
		t.Errorf("first snapshot was overwritten: %+v", history)
	}
	if history[0].RunID != "run-1" {
		t.Errorf("expected run-1, got %q", history[0].RunID)
	}
}

// TestRecentHistory verifies newest-first ordering and the limit.
func TestRecentHistory(t *testing.T) {
	storage := newTestStorage(t, WithClock(tickingClock(time.Now())))
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		_, err := storage.RecordSnapshot(ctx, Snapshot{
			StudentID: "S1",
			Accuracy:  float64(i) / 10,
		})
		if err != nil {
			t.Fatalf("RecordSnapshot failed: %v", err)
		}
	}
	if _, err := storage.RecordSnapshot(ctx, Snapshot{StudentID: "S2"}); err != nil {
		t.Fatalf("RecordSnapshot failed: %v", err)
	}

	recent, err := storage.RecentHistory(ctx, "S1", 5)
	if err != nil {
		t.Fatalf("RecentHistory failed: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("expected 5 snapshots, got %d", len(recent))
	}
	if recent[0].Accuracy != 0.6 {
		t.Errorf("expected newest snapshot first, got accuracy %v", recent[0].Accuracy)
	}

	all, err := storage.AllHistory(ctx)
	if err != nil {
		t.Fatalf("AllHistory failed: %v", err)
	}
	if len(all) != 8 || all[len(all)-1].StudentID != "S2" {
		t.Errorf("AllHistory should order by student, got %d rows", len(all))
	}
}

// TestRecordEdge verifies the edge audit insert.
func TestRecordEdge(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	if err := storage.RecordEdge(ctx, Edge{From: "A", To: "B", Cost: 1.5}); err != nil {
		t.Fatalf("RecordEdge failed: %v", err)
	}

	var count int
	if err := storage.db.QueryRow("SELECT COUNT(*) FROM astar_edges").Scan(&count); err != nil {
		t.Fatalf("count edges: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 edge, got %d", count)
	}

	if err := storage.RecordEdge(ctx, Edge{From: "A"}); err == nil {
		t.Error("expected validation error for missing 'to'")
	}
}

// TestQueryFailureKeepsGateOpen verifies a rejected query is not a global downgrade.
func TestQueryFailureKeepsGateOpen(t *testing.T) {
	storage := newTestStorage(t)

	if _, err := storage.db.Exec("DROP TABLE student_logs"); err != nil {
		t.Fatalf("drop table: %v", err)
	}

	_, err := storage.Logs(context.Background())
	if !IsQueryFailure(err) {
		t.Fatalf("expected QueryError, got %v", err)
	}
	var qe *QueryError
	if !errors.As(err, &qe) || qe.Op != "fetch logs" {
		t.Errorf("unexpected query error: %v", err)
	}
	if !storage.Available() {
		t.Error("query failure must not close the gate")
	}
}

// TestGateReopensOnProbe verifies a closed gate is re-probed per call.
func TestGateReopensOnProbe(t *testing.T) {
	storage := newTestStorage(t)

	storage.Gate().Close()
	if storage.Available() {
		t.Fatal("gate should be closed")
	}

	if _, err := storage.Logs(context.Background()); err != nil {
		t.Fatalf("Logs after reprobe failed: %v", err)
	}
	if !storage.Available() {
		t.Error("successful probe should reopen the gate")
	}
}

// TestGracefulDegradation verifies behavior when DB is unavailable.
func TestGracefulDegradation(t *testing.T) {
	// A regular file in the path makes directory creation fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	storage := NewStorage(filepath.Join(blocker, "sub", "test.db"))

	err := storage.Init(context.Background())
	if !IsUnavailable(err) {
		t.Fatalf("expected ErrUnavailable from Init, got %v", err)
	}
	if storage.Available() {
		t.Error("gate should be closed after a failed Init")
	}

	ctx := context.Background()
	if _, err := storage.RecordSnapshot(ctx, Snapshot{StudentID: "S1"}); !IsUnavailable(err) {
		t.Errorf("RecordSnapshot should report ErrUnavailable, got: %v", err)
	}
	if _, err := storage.History(ctx, "S1"); !IsUnavailable(err) {
		t.Errorf("History should report ErrUnavailable, got: %v", err)
	}
	if _, err := storage.Marks(ctx); !IsUnavailable(err) {
		t.Errorf("Marks should report ErrUnavailable, got: %v", err)
	}
	if err := storage.RecordEdge(ctx, Edge{From: "A", To: "B"}); !IsUnavailable(err) {
		t.Errorf("RecordEdge should report ErrUnavailable, got: %v", err)
	}
	if err := storage.Close(); err != nil {
		t.Errorf("Close on disabled storage should not fail: %v", err)
	}
}

// TestClosedStorageIsUnavailable verifies calls after Close fall back.
func TestClosedStorageIsUnavailable(t *testing.T) {
	storage := newTestStorage(t)
	if err := storage.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if _, err := storage.Logs(context.Background()); !IsUnavailable(err) {
		t.Errorf("expected ErrUnavailable after Close, got %v", err)
	}
}
