package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/arise-learning/arise/internal/analytics"
	"github.com/spf13/cobra"
)

// NewAnalyzeCmd creates the 'analyze' command.
func NewAnalyzeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Cluster students and recommend study strategies",
		Long: `Aggregate every interaction log into per-student profiles, cluster them
into three behavior groups and print one recommendation per student.

Live runs append a history snapshot for every student.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func runAnalyze(cmd *cobra.Command, asJSON bool) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	report := analytics.NewAnalyzer(a.store, a.logger).Run(cmd.Context())

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report.Assignments)
	}

	fmt.Fprintf(out, "Source: %s (run %s, %d snapshots recorded)\n\n", report.Source, report.RunID, report.Recorded)
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STUDENT\tRESPONSE\tATTEMPTS\tACCURACY\tCLUSTER\tRECOMMENDATION")
	for _, as := range report.Assignments {
		fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.2f\t%d\t%s\n",
			as.StudentID, as.AvgResponseTime, as.AvgAttempts, as.Accuracy, as.Cluster, as.Recommendation)
	}
	return w.Flush()
}
