package command

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/arise-learning/arise/internal/askai"
	"github.com/arise-learning/arise/internal/fallback"
	"github.com/arise-learning/arise/internal/metrics"
	"github.com/arise-learning/arise/internal/pathfind"
	"github.com/arise-learning/arise/internal/storage"
	"go.uber.org/zap"
)

const (
	summaryHistoryLimit = 5
	summaryMarksShown   = 10
	countsLogLimit      = 10
)

// Dispatcher turns conversations into replies.
type Dispatcher struct {
	store  storage.Storage
	asker  askai.Asker
	logger *zap.Logger
}

// NewDispatcher creates a dispatcher. A nil store behaves as unavailable
// and a nil asker as askai.Unavailable.
func NewDispatcher(store storage.Storage, asker askai.Asker, logger *zap.Logger) *Dispatcher {
	if asker == nil {
		asker = askai.Unavailable{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{store: store, asker: asker, logger: logger}
}

// Dispatch parses conv and returns the reply. It never fails: collaborator
// errors are embedded in the reply text.
func (d *Dispatcher) Dispatch(ctx context.Context, conv askai.Conversation) string {
	cmd := Parse(conv)
	metrics.Commands.WithLabelValues(cmd.Kind()).Inc()
	d.logger.Debug("dispatching command", zap.String("kind", cmd.Kind()))

	switch c := cmd.(type) {
	case PathQuery:
		return d.findPath(c)
	case StudentSummary:
		return d.summarize(ctx, c)
	case StudentCounts:
		return d.count(ctx, c)
	case Passthrough:
		return d.ask(ctx, conv)
	default:
		panic(fmt.Sprintf("command: unhandled %T", cmd))
	}
}

func (d *Dispatcher) findPath(q PathQuery) string {
	g := pathfind.FromEdges(q.Edges)

	var b strings.Builder
	fmt.Fprintf(&b, "A* path from %s to %s: ", q.Start, q.Goal)

	path, ok := pathfind.Search(g, q.Start, q.Goal, nil)
	if ok {
		metrics.PathSearches.WithLabelValues("found").Inc()
		fmt.Fprintf(&b, "%s (cost %s)", path, pathfind.FormatCost(path.Cost))
	} else {
		metrics.PathSearches.WithLabelValues("not_found").Inc()
		b.WriteString("no path found")
	}

	if len(q.Skipped) > 0 {
		fmt.Fprintf(&b, "\nSkipped malformed edges: %s", strings.Join(q.Skipped, ", "))
	}
	return b.String()
}

func (d *Dispatcher) summarize(ctx context.Context, c StudentSummary) string {
	history, marks := d.summaryData(ctx, c.StudentID)
	if len(history) == 0 && len(marks) == 0 {
		return fmt.Sprintf("No data found for user %s", c.StudentID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "User %s data:\n", c.StudentID)
	if len(history) > 0 {
		fmt.Fprintf(&b, "Recent behavior (%d records):\n", len(history))
		for _, h := range history {
			fmt.Fprintf(&b, "  Accuracy: %.1f%%, Response: %.1fs\n", h.Accuracy*100, h.AvgResponseTime)
		}
	}
	if len(marks) > 0 {
		shown := marks
		if len(shown) > summaryMarksShown {
			shown = shown[:summaryMarksShown]
		}
		vals := make([]string, len(shown))
		for i, m := range shown {
			vals[i] = strconv.Itoa(m)
		}
		fmt.Fprintf(&b, "Marks (%d found): %s\n", len(marks), strings.Join(vals, ", "))
	}
	return b.String()
}

func (d *Dispatcher) summaryData(ctx context.Context, studentID string) ([]storage.Snapshot, []int) {
	if d.store == nil {
		return []storage.Snapshot{fallback.StudentSnapshot(studentID)}, fallback.StudentMarks()
	}

	history, err := d.store.RecentHistory(ctx, studentID, summaryHistoryLimit)
	if storage.IsUnavailable(err) {
		metrics.StoreFallbacks.WithLabelValues("student_summary", "unavailable").Inc()
		return []storage.Snapshot{fallback.StudentSnapshot(studentID)}, fallback.StudentMarks()
	}
	if err != nil {
		d.logger.Warn("failed to read recent history", zap.String("student_id", studentID), zap.Error(err))
		metrics.StoreFallbacks.WithLabelValues("student_summary", "query").Inc()
		history = nil
	}

	marks, err := d.store.StudentMarks(ctx, studentID)
	if err != nil {
		d.logger.Warn("failed to read marks", zap.String("student_id", studentID), zap.Error(err))
		marks = nil
	}
	return history, marks
}

func (d *Dispatcher) count(ctx context.Context, c StudentCounts) string {
	history, logs := d.countData(ctx, c.StudentID)

	reply := fmt.Sprintf("Found %d history records and %d log records for student %s", len(history), logs, c.StudentID)
	if len(history) > 0 {
		latest := history[len(history)-1]
		reply += fmt.Sprintf(". Latest: accuracy=%s, response_time=%s",
			formatNumber(latest.Accuracy), formatNumber(latest.AvgResponseTime))
	}
	return reply
}

func (d *Dispatcher) countData(ctx context.Context, studentID string) ([]storage.Snapshot, int) {
	if d.store == nil {
		return []storage.Snapshot{fallback.StudentSnapshot(studentID)}, 0
	}

	history, err := d.store.History(ctx, studentID)
	if storage.IsUnavailable(err) {
		metrics.StoreFallbacks.WithLabelValues("student_counts", "unavailable").Inc()
		return []storage.Snapshot{fallback.StudentSnapshot(studentID)}, 0
	}
	if err != nil {
		d.logger.Warn("failed to read history", zap.String("student_id", studentID), zap.Error(err))
		metrics.StoreFallbacks.WithLabelValues("student_counts", "query").Inc()
		history = nil
	}

	logs, err := d.store.StudentLogs(ctx, studentID, countsLogLimit)
	if err != nil {
		d.logger.Warn("failed to read logs", zap.String("student_id", studentID), zap.Error(err))
		logs = nil
	}
	return history, len(logs)
}

func (d *Dispatcher) ask(ctx context.Context, conv askai.Conversation) string {
	reply, err := d.asker.Ask(ctx, conv)
	if err != nil {
		return fmt.Sprintf("[Error contacting AI: %v]", err)
	}
	return reply
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
