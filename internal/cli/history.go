package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/arise-learning/arise/internal/fallback"
	"github.com/arise-learning/arise/internal/storage"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the 'history' command.
func NewHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <student-id>",
		Short: "Show a student's behavior snapshots",
		Long: `Print every recorded behavior snapshot of a student, oldest first.

When the store is unavailable a synthetic five-day series is shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd, args[0])
		},
	}
}

func runHistory(cmd *cobra.Command, studentID string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	history, err := a.store.History(cmd.Context(), studentID)
	switch {
	case storage.IsUnavailable(err):
		history = fallback.History(studentID, time.Now().UTC())
	case err != nil:
		return fmt.Errorf("failed to read history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(history) == 0 {
		fmt.Fprintf(out, "No history for student %s\n", studentID)
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RECORDED\tACCURACY\tRESPONSE\tATTEMPTS\tCLUSTER\tRECOMMENDATION")
	for _, s := range history {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t%s\n",
			s.RecordedAt.Format(time.RFC3339), s.Accuracy, s.AvgResponseTime, s.AvgAttempts, s.Cluster, s.Recommendation)
	}
	return w.Flush()
}
