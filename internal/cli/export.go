package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/arise-learning/arise/internal/server"
	"github.com/spf13/cobra"
)

// NewExportCmd creates the 'export' command.
func NewExportCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export history, logs and marks as JSON",
		Long: `Write the bulk export served by GET /all-data: every behavior snapshot,
the first 100 interaction logs and every mark.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, outputFile)
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func runExport(cmd *cobra.Command, outputFile string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	data := server.Export(cmd.Context(), a.store, a.logger, time.Now)

	var out io.Writer = cmd.OutOrStdout()
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	if outputFile != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d snapshots, %d logs, %d marks to %s\n",
			len(data.BehaviorHistory), len(data.Logs), len(data.Marks), outputFile)
	}
	return nil
}
