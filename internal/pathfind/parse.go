package pathfind

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrMalformedEdge is returned for edge tokens not of the form "A-B:cost".
var ErrMalformedEdge = errors.New("malformed edge")

// ParseEdge parses a token of the form "A-B:cost".
func ParseEdge(token string) (Edge, error) {
	nodes, rawCost, ok := strings.Cut(token, ":")
	if !ok || strings.Contains(rawCost, ":") {
		return Edge{}, fmt.Errorf("%w %q: expected exactly one ':'", ErrMalformedEdge, token)
	}

	from, to, ok := strings.Cut(nodes, "-")
	if !ok || strings.Contains(to, "-") {
		return Edge{}, fmt.Errorf("%w %q: expected exactly one '-'", ErrMalformedEdge, token)
	}
	if from == "" || to == "" {
		return Edge{}, fmt.Errorf("%w %q: empty node name", ErrMalformedEdge, token)
	}

	cost, err := strconv.ParseFloat(rawCost, 64)
	if err != nil {
		return Edge{}, fmt.Errorf("%w %q: %v", ErrMalformedEdge, token, err)
	}
	if math.IsNaN(cost) || math.IsInf(cost, 0) || cost < 0 {
		return Edge{}, fmt.Errorf("%w %q: cost must be a finite non-negative number", ErrMalformedEdge, token)
	}

	return Edge{From: from, To: to, Cost: cost}, nil
}

// ParseEdges parses every token, skipping malformed ones individually.
// Skipped tokens are returned in input order.
func ParseEdges(tokens []string) (edges []Edge, skipped []string) {
	for _, tok := range tokens {
		e, err := ParseEdge(tok)
		if err != nil {
			skipped = append(skipped, tok)
			continue
		}
		edges = append(edges, e)
	}
	return edges, skipped
}
