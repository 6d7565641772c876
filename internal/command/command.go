/*
Package command parses the last message of a conversation into a tagged
Command and dispatches it to pathfinding, student lookup or the
question-answering collaborator.

Grammar (message trimmed, first match wins):
  astar <start> edges: <goal> <A-B:cost>...   → PathQuery
  astar-user <student id>                     → StudentSummary
  astar-user<anything> <student id> ...       → StudentCounts
  anything else                               → Passthrough
*/
package command

import "github.com/arise-learning/arise/internal/pathfind"

// Command is one parsed conversational command.
type Command interface {
	// Kind names the variant for logs and metrics.
	Kind() string
	isCommand()
}

// PathQuery asks for the cheapest path between two nodes of an inline graph.
type PathQuery struct {
	Start   string
	Goal    string
	Edges   []pathfind.Edge
	Skipped []string
}

// StudentSummary asks for a student's recent snapshots and marks.
type StudentSummary struct {
	StudentID string
}

// StudentCounts asks for record counts and the latest snapshot values.
type StudentCounts struct {
	StudentID string
}

// Passthrough delegates the conversation to the collaborator.
type Passthrough struct{}

func (PathQuery) Kind() string      { return "path_query" }
func (StudentSummary) Kind() string { return "student_summary" }
func (StudentCounts) Kind() string  { return "student_counts" }
func (Passthrough) Kind() string    { return "passthrough" }

func (PathQuery) isCommand()      {}
func (StudentSummary) isCommand() {}
func (StudentCounts) isCommand()  {}
func (Passthrough) isCommand()    {}
