package command

import (
	"strings"

	"github.com/arise-learning/arise/internal/askai"
	"github.com/arise-learning/arise/internal/pathfind"
)

const (
	pathPrefix         = "astar "
	studentPrefix      = "astar-user "
	studentCountPrefix = "astar-user"
	edgesKeyword       = "edges:"
)

// Parse inspects the last message of conv. Only a user message can carry a
// command; everything else is Passthrough.
func Parse(conv askai.Conversation) Command {
	last, ok := conv.Last()
	if !ok || last.Role != askai.RoleUser {
		return Passthrough{}
	}
	return ParseMessage(last.Content)
}

// ParseMessage parses a single user message.
func ParseMessage(msg string) Command {
	msg = strings.TrimSpace(msg)

	switch {
	case strings.HasPrefix(msg, pathPrefix):
		return parsePathQuery(msg)

	case strings.HasPrefix(msg, studentPrefix):
		id := strings.TrimSpace(strings.TrimPrefix(msg, studentPrefix))
		if id == "" {
			return Passthrough{}
		}
		return StudentSummary{StudentID: id}

	case strings.HasPrefix(msg, studentCountPrefix):
		fields := strings.Fields(msg)
		if len(fields) < 2 {
			return Passthrough{}
		}
		return StudentCounts{StudentID: fields[1]}

	default:
		return Passthrough{}
	}
}

func parsePathQuery(msg string) Command {
	fields := strings.Fields(msg)
	if len(fields) < 4 || fields[2] != edgesKeyword {
		return Passthrough{}
	}

	edges, skipped := pathfind.ParseEdges(fields[4:])
	return PathQuery{
		Start:   fields[1],
		Goal:    fields[3],
		Edges:   edges,
		Skipped: skipped,
	}
}
