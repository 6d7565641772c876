package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVerifyCmd creates the 'verify' command for checking the runtime setup.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify configuration and connections",
		Long: `Verify that the configuration is valid, that the store can be reached
and whether an AI model is configured.

An unreachable store is reported but is not an error: every command
keeps working on synthetic data.`,
		Example: `  arise verify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd)
		},
	}

	return cmd
}

// runVerify reports the effective configuration and store availability.
func runVerify(cmd *cobra.Command) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	path := configPath(cmd)
	if path == "" {
		path = "~/.arise.yaml (or defaults)"
	}
	fmt.Fprintf(out, "✓ Config: %s\n", path)

	switch {
	case !a.cfg.Store.Enabled:
		fmt.Fprintln(out, "✗ Store: disabled, serving synthetic data")
	case a.store.Probe(cmd.Context()):
		fmt.Fprintf(out, "✓ Store: %s\n", a.cfg.Store.Path)
	default:
		fmt.Fprintf(out, "✗ Store: %s unreachable, serving synthetic data\n", a.cfg.Store.Path)
	}

	if a.cfg.AI.APIKey() == "" {
		fmt.Fprintf(out, "✗ AI: %s not set, questions will not be answered\n", a.cfg.AI.APIKeyEnv)
	} else {
		fmt.Fprintf(out, "✓ AI: %s\n", a.cfg.AI.Model)
	}

	return nil
}
