package pathfind

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseEdge(t *testing.T) {
	e, err := ParseEdge("A-B:1.5")
	if err != nil {
		t.Fatalf("ParseEdge failed: %v", err)
	}
	if diff := cmp.Diff(Edge{From: "A", To: "B", Cost: 1.5}, e); diff != "" {
		t.Errorf("edge mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEdgeMalformed(t *testing.T) {
	bad := []string{
		"AB:1",
		"A-B",
		"A-B:1:2",
		"A-B-C:1",
		"-B:1",
		"A-:1",
		"A-B:x",
		"A-B:-1",
		"A-B:NaN",
		"A-B:Inf",
		"",
	}

	for _, tok := range bad {
		if _, err := ParseEdge(tok); !errors.Is(err, ErrMalformedEdge) {
			t.Errorf("ParseEdge(%q) error = %v, want ErrMalformedEdge", tok, err)
		}
	}
}

func TestParseEdgesSkipsIndividually(t *testing.T) {
	edges, skipped := ParseEdges([]string{"A-B:1", "junk", "B-C:2", "C-D:x"})

	want := []Edge{{"A", "B", 1}, {"B", "C", 2}}
	if diff := cmp.Diff(want, edges); diff != "" {
		t.Errorf("edges mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"junk", "C-D:x"}, skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
}
