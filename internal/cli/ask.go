package cli

import (
	"fmt"
	"strings"

	"github.com/arise-learning/arise/internal/askai"
	"github.com/arise-learning/arise/internal/command"
	"github.com/spf13/cobra"
)

// NewAskCmd creates the 'ask' command.
func NewAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <message>...",
		Short: "Send one message through the command dispatcher",
		Long: `Send a single user message, exactly as the ask-ai route would.

Recognized commands:
  astar <start> edges: <goal> <edge>...   shortest path
  astar-user <student-id>                 recent behavior and marks
  astar-user<tab><student-id>             history and log counts

Anything else is forwarded to the configured AI model.`,
		Example: `  arise ask astar A edges: C A-B:1 B-C:2
  arise ask astar-user 5444
  arise ask "What is a learning curve?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, strings.Join(args, " "))
		},
	}
}

func runAsk(cmd *cobra.Command, msg string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	conv := askai.Conversation{{Role: askai.RoleUser, Content: msg}}
	reply := command.NewDispatcher(a.store, a.asker(), a.logger).Dispatch(cmd.Context(), conv)
	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
