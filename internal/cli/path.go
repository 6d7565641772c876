package cli

import (
	"fmt"
	"strings"

	"github.com/arise-learning/arise/internal/askai"
	"github.com/arise-learning/arise/internal/command"
	"github.com/spf13/cobra"
)

// NewPathCmd creates the 'path' command.
func NewPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path <start> <goal> <edge>...",
		Short: "Find the cheapest path over an undirected graph",
		Long: `Run A* over the edges given on the command line.

Each edge is written FROM-TO:COST, for example A-B:2.5. Edges are
undirected. Malformed edges are skipped and reported.`,
		Example: `  arise path A C A-B:1 B-C:2 A-C:5`,
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPath(cmd, args)
		},
	}
}

// runPath goes through the same dispatcher as the ask-ai route so replies
// read identically on both surfaces. No store is needed.
func runPath(cmd *cobra.Command, args []string) error {
	for _, a := range args[:2] {
		if strings.ContainsAny(a, " \t\n") {
			return fmt.Errorf("node name %q must not contain whitespace", a)
		}
	}

	msg := "astar " + args[0] + " edges: " + strings.Join(args[1:], " ")
	conv := askai.Conversation{{Role: askai.RoleUser, Content: msg}}

	reply := command.NewDispatcher(nil, nil, nil).Dispatch(cmd.Context(), conv)
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
