/*
Package storage implements the persistent store for interaction logs,
behavior history snapshots and the graph edge audit log.

The store is SQLite (modernc.org/sqlite, a pure Go, CGo-free driver). It
degrades gracefully: when the database cannot be opened or a connection
fails, calls return ErrUnavailable and the injected Gate closes, so callers
can switch to synthetic data instead of failing the request.
*/
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DefaultQueryTimeout bounds every store call.
const DefaultQueryTimeout = 5 * time.Second

// timeLayout keeps a fixed number of fractional digits so that stored
// timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Storage defines read/write access to logs, snapshots and edges.
//
// Every method is independently fallible: ErrUnavailable when the store
// cannot be reached, *QueryError when a reachable store rejects the query.
type Storage interface {
	// Init opens the database and runs migrations.
	Init(ctx context.Context) error

	// Available reports the gate state without probing.
	Available() bool

	// Probe tests the connection and updates the gate.
	Probe(ctx context.Context) bool

	// RecordLog inserts a raw interaction log.
	RecordLog(ctx context.Context, log InteractionLog) (InteractionLog, error)

	// RecordLogs inserts a batch of logs atomically and returns the count.
	RecordLogs(ctx context.Context, logs []InteractionLog) (int, error)

	// Logs returns every raw interaction log.
	Logs(ctx context.Context) ([]InteractionLog, error)

	// ListLogs returns up to limit logs ordered by student.
	ListLogs(ctx context.Context, limit int) ([]InteractionLog, error)

	// StudentLogs returns up to limit logs of one student.
	StudentLogs(ctx context.Context, studentID string, limit int) ([]InteractionLog, error)

	// Marks returns every recorded mark, highest first.
	Marks(ctx context.Context) ([]int, error)

	// StudentMarks returns one student's marks, highest first.
	StudentMarks(ctx context.Context, studentID string) ([]int, error)

	// RecordSnapshot appends a history snapshot and returns it with its
	// store-assigned ID and RecordedAt.
	RecordSnapshot(ctx context.Context, snap Snapshot) (Snapshot, error)

	// History returns a student's snapshots, oldest first.
	History(ctx context.Context, studentID string) ([]Snapshot, error)

	// RecentHistory returns up to limit snapshots of a student, newest first.
	RecentHistory(ctx context.Context, studentID string, limit int) ([]Snapshot, error)

	// AllHistory returns every snapshot ordered by student then time.
	AllHistory(ctx context.Context) ([]Snapshot, error)

	// RecordEdge appends a graph edge to the audit log.
	RecordEdge(ctx context.Context, edge Edge) error

	// Close closes the database connection.
	Close() error
}

// Option configures a SQLiteStorage.
type Option func(*SQLiteStorage)

// WithGate injects the availability gate shared with other components.
func WithGate(g *Gate) Option {
	return func(s *SQLiteStorage) { s.gate = g }
}

// WithQueryTimeout bounds each store call.
func WithQueryTimeout(d time.Duration) Option {
	return func(s *SQLiteStorage) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for store warnings.
func WithLogger(l *zap.Logger) Option {
	return func(s *SQLiteStorage) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the timestamp source used for inserts.
func WithClock(now func() time.Time) Option {
	return func(s *SQLiteStorage) { s.now = now }
}

// SQLiteStorage implements the Storage interface using SQLite.
type SQLiteStorage struct {
	db       *sql.DB
	dbPath   string
	enabled  bool
	gate     *Gate
	timeout  time.Duration
	logger   *zap.Logger
	now      func() time.Time
	mu       sync.RWMutex
	initOnce sync.Once
}

// NewStorage creates a SQLite storage for dbPath.
//
// An empty dbPath yields a disabled storage: every call returns
// ErrUnavailable and the gate stays closed.
func NewStorage(dbPath string, opts ...Option) *SQLiteStorage {
	s := &SQLiteStorage{
		dbPath:  dbPath,
		enabled: dbPath != "",
		gate:    NewGate(),
		timeout: DefaultQueryTimeout,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init initializes the database and runs migrations.
//
// If initialization fails, storage is disabled, the gate is closed and
// subsequent operations return ErrUnavailable (graceful degradation).
func (s *SQLiteStorage) Init(ctx context.Context) error {
	if !s.enabled {
		s.gate.Close()
		return nil
	}

	var initErr error
	s.initOnce.Do(func() {
		initErr = s.open(ctx)
		if initErr != nil {
			s.mu.Lock()
			s.enabled = false
			if s.db != nil {
				s.db.Close()
				s.db = nil
			}
			s.mu.Unlock()
			s.gate.Close()
			s.logger.Warn("store disabled", zap.String("path", s.dbPath), zap.Error(initErr))
			initErr = fmt.Errorf("%w: %v", ErrUnavailable, initErr)
		}
	})

	return initErr
}

func (s *SQLiteStorage) open(ctx context.Context) error {
	if s.dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(s.dbPath), 0755); err != nil {
			return fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	dsn := s.dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.mu.Lock()
	s.db = db
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := s.runMigrations(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.gate.Open()
	return nil
}

// Available reports the gate state.
func (s *SQLiteStorage) Available() bool {
	return s.gate.Available()
}

// Gate returns the availability gate used by this storage.
func (s *SQLiteStorage) Gate() *Gate {
	return s.gate
}

// Probe pings the database and opens or closes the gate accordingly.
func (s *SQLiteStorage) Probe(ctx context.Context) bool {
	s.mu.RLock()
	db, enabled := s.db, s.enabled
	s.mu.RUnlock()

	if !enabled || db == nil {
		s.gate.Close()
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		s.logger.Warn("store probe failed", zap.Error(err))
		s.gate.Close()
		return false
	}
	s.gate.Open()
	return true
}

// acquire returns the database handle, re-probing once if the gate is closed.
func (s *SQLiteStorage) acquire(ctx context.Context) (*sql.DB, error) {
	s.mu.RLock()
	db, enabled := s.db, s.enabled
	s.mu.RUnlock()

	if !enabled || db == nil {
		s.gate.Close()
		return nil, ErrUnavailable
	}
	if !s.gate.Available() && !s.Probe(ctx) {
		return nil, ErrUnavailable
	}
	return db, nil
}

// fail classifies a driver error, closing the gate on connection loss.
func (s *SQLiteStorage) fail(op string, err error) error {
	if isConnectionFailure(err) {
		s.gate.Close()
		s.logger.Warn("store connection failed", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}
	s.logger.Warn("failed to "+op, zap.Error(err))
	return &QueryError{Op: op, Err: err}
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	s.gate.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Parse(time.RFC3339Nano, v)
	}
	return t, nil
}
