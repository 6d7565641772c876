package command

import (
	"testing"

	"github.com/arise-learning/arise/internal/askai"
	"github.com/arise-learning/arise/internal/pathfind"
	"github.com/google/go-cmp/cmp"
)

func TestParseMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want Command
	}{
		{
			name: "path query",
			msg:  "astar A edges: C A-B:1 B-C:2",
			want: PathQuery{Start: "A", Goal: "C", Edges: []pathfind.Edge{{From: "A", To: "B", Cost: 1}, {From: "B", To: "C", Cost: 2}}},
		},
		{
			name: "path query trims surrounding space",
			msg:  "   astar A edges: C A-B:1  \n",
			want: PathQuery{Start: "A", Goal: "C", Edges: []pathfind.Edge{{From: "A", To: "B", Cost: 1}}},
		},
		{
			name: "path query with malformed tokens",
			msg:  "astar A edges: C A-B:1 oops B-C:x",
			want: PathQuery{Start: "A", Goal: "C", Edges: []pathfind.Edge{{From: "A", To: "B", Cost: 1}}, Skipped: []string{"oops", "B-C:x"}},
		},
		{
			name: "path query without edges",
			msg:  "astar A edges: C",
			want: PathQuery{Start: "A", Goal: "C"},
		},
		{
			name: "astar without edges keyword passes through",
			msg:  "astar A to C",
			want: Passthrough{},
		},
		{
			name: "astar too short passes through",
			msg:  "astar A edges:",
			want: Passthrough{},
		},
		{
			name: "student summary",
			msg:  "astar-user 24KQ1A5444",
			want: StudentSummary{StudentID: "24KQ1A5444"},
		},
		{
			name: "student summary keeps the rest of the line",
			msg:  "astar-user   24KQ1A5444 extra",
			want: StudentSummary{StudentID: "24KQ1A5444 extra"},
		},
		{
			name: "student counts with tab separator",
			msg:  "astar-user\t24KQ1A5444",
			want: StudentCounts{StudentID: "24KQ1A5444"},
		},
		{
			name: "student counts with suffixed keyword",
			msg:  "astar-users 24KQ1A5444 more",
			want: StudentCounts{StudentID: "24KQ1A5444"},
		},
		{
			name: "bare astar-user passes through",
			msg:  "astar-user",
			want: Passthrough{},
		},
		{
			name: "prefix must be exact",
			msg:  "please astar A edges: C A-B:1",
			want: Passthrough{},
		},
		{
			name: "plain question",
			msg:  "What is a derivative?",
			want: Passthrough{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseMessage(tt.msg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseMessage(%q) mismatch (-want +got):\n%s", tt.msg, diff)
			}
		})
	}
}

func TestParseOnlyLastUserMessage(t *testing.T) {
	conv := askai.Conversation{
		{Role: askai.RoleUser, Content: "astar A edges: C A-B:1"},
		{Role: askai.RoleAssistant, Content: "astar-user 24KQ1A5444"},
	}
	if got := Parse(conv); got != (Passthrough{}) {
		t.Errorf("assistant message must not be parsed, got %#v", got)
	}

	if got := Parse(nil); got != (Passthrough{}) {
		t.Errorf("empty conversation should pass through, got %#v", got)
	}

	conv = append(conv, askai.Message{Role: askai.RoleUser, Content: "astar-user S1"})
	if got := Parse(conv); got != (StudentSummary{StudentID: "S1"}) {
		t.Errorf("expected StudentSummary, got %#v", got)
	}
}
