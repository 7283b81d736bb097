package rank

import (
	"fmt"
	"strings"

	"github.com/soundprediction/graphquery/pkg/types"
)

// ComposePath renders a path as one human-readable sentence per hop, joined
// by "; ": each segment names the two nodes and the humanized relation
// between them. A degenerate sequence of fewer than two nodes yields
// "No path found".
func ComposePath(p *types.PathCandidate) string {
	if p == nil || len(p.NodeSequence) < 2 {
		return "No path found"
	}

	hops := len(p.NodeSequence) - 1
	segments := make([]string, 0, hops)
	for i := 0; i < hops; i++ {
		relation := "related to"
		if i < len(p.EdgeTypeSequence) {
			relation = humanizeEdgeType(p.EdgeTypeSequence[i])
		}
		segments = append(segments, fmt.Sprintf("%s %s %s", p.NodeSequence[i], relation, p.NodeSequence[i+1]))
	}
	return strings.Join(segments, "; ")
}

// ComposeNeighbor renders a neighbor as a templated sentence naming the
// anchor, the neighbor, and the connection count.
func ComposeNeighbor(n *types.NeighborCandidate) string {
	if n == nil || n.NeighborName == "" {
		return "No path found"
	}
	return fmt.Sprintf("%s is connected to %s through %d connection(s)", n.AnchorName, n.NeighborName, n.ConnectionCount)
}

// humanizeEdgeType turns a stored relation type like PARTNERS_WITH into
// "partners with".
func humanizeEdgeType(edgeType string) string {
	return strings.ToLower(strings.ReplaceAll(edgeType, "_", " "))
}
