package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/arise-learning/arise/internal/search"
	"github.com/spf13/cobra"
)

// NewSearchCmd creates the 'search' command.
func NewSearchCmd() *cobra.Command {
	var (
		cluster int
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search the latest snapshot of every student",
		Long: `Full-text search over each student's most recent recommendation.

The query matches recommendation words or an exact student ID. With no
query every student is listed.`,
		Example: `  arise search quizzes
  arise search --cluster 2
  arise search 5444`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var c *int
			if cmd.Flags().Changed("cluster") {
				c = &cluster
			}
			return runSearch(cmd, strings.Join(args, " "), c, limit)
		},
	}

	cmd.Flags().IntVar(&cluster, "cluster", 0, "Only students in this cluster")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum results")
	return cmd
}

func runSearch(cmd *cobra.Command, text string, cluster *int, limit int) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	idx, err := search.Build(cmd.Context(), a.store, a.logger)
	if err != nil {
		return err
	}
	defer idx.Close()

	results, err := idx.Search(text, cluster, limit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No matching students")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STUDENT\tCLUSTER\tACCURACY\tRESPONSE\tSCORE\tRECOMMENDATION")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%.3f\t%s\n",
			r.StudentID, r.Cluster, r.Accuracy, r.AvgResponseTime, r.Score, r.Recommendation)
	}
	return w.Flush()
}
