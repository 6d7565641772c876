package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/arise-learning/arise/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewIngestCmd creates the 'ingest' command.
func NewIngestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file.csv>",
		Short: "Load interaction logs from a CSV file",
		Long: `Insert raw interaction logs into the store.

Columns: student_id,response_time,attempts,correct[,marks]
A header row is detected and skipped. Rows are inserted in a single
transaction: a malformed file or a store failure inserts nothing.`,
		Example: `  arise ingest logs.csv
  arise ingest - < logs.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd, args[0])
		},
	}
}

func runIngest(cmd *cobra.Command, path string) error {
	var in io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		in = f
	}

	logs, err := ReadLogsCSV(in)
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.store.RecordLogs(cmd.Context(), logs)
	if err != nil {
		if storage.IsUnavailable(err) {
			return fmt.Errorf("store unavailable, nothing ingested: check store.path in your config")
		}
		return fmt.Errorf("failed to record logs, nothing ingested: %w", err)
	}

	a.logger.Info("ingested logs", zap.Int("count", n), zap.String("file", path))
	fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d interaction logs\n", n)
	return nil
}

// ReadLogsCSV parses interaction logs. Rows are validated but not stored.
func ReadLogsCSV(r io.Reader) ([]storage.InteractionLog, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var logs []storage.InteractionLog
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line == 1 && isHeader(record) {
			continue
		}

		l, err := parseLogRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		logs = append(logs, l)
	}
	return logs, nil
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "student_id")
}

func parseLogRecord(record []string) (storage.InteractionLog, error) {
	if len(record) != 4 && len(record) != 5 {
		return storage.InteractionLog{}, fmt.Errorf("expected 4 or 5 columns, got %d", len(record))
	}

	var l storage.InteractionLog
	l.StudentID = strings.TrimSpace(record[0])

	nums := []struct {
		name string
		dst  *float64
	}{
		{"response_time", &l.ResponseTime},
		{"attempts", &l.Attempts},
		{"correct", &l.Correct},
	}
	for i, n := range nums {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			return storage.InteractionLog{}, fmt.Errorf("invalid %s %q", n.name, record[i+1])
		}
		*n.dst = v
	}

	if len(record) == 5 {
		if raw := strings.TrimSpace(record[4]); raw != "" {
			m, err := strconv.Atoi(raw)
			if err != nil {
				return storage.InteractionLog{}, fmt.Errorf("invalid marks %q", record[4])
			}
			l.Marks = &m
		}
	}

	if err := l.Validate(); err != nil {
		return storage.InteractionLog{}, err
	}
	return l, nil
}
