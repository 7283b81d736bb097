package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/soundprediction/graphquery/pkg/types"
)

func TestComposePath(t *testing.T) {
	t.Run("two-hop path", func(t *testing.T) {
		p := &types.PathCandidate{
			NodeSequence:     []string{"Acme Corp", "JointVenture", "Globex Inc"},
			EdgeTypeSequence: []string{"PARTNERS_WITH", "PARTNERS_WITH"},
			HopCount:         2,
		}
		assert.Equal(t, "Acme Corp partners with JointVenture; JointVenture partners with Globex Inc", ComposePath(p))
	})

	t.Run("single hop", func(t *testing.T) {
		p := &types.PathCandidate{
			NodeSequence:     []string{"Acme Corp", "Initech"},
			EdgeTypeSequence: []string{"ACQUIRED"},
			HopCount:         1,
		}
		assert.Equal(t, "Acme Corp acquired Initech", ComposePath(p))
	})

	t.Run("missing edge type falls back to generic relation", func(t *testing.T) {
		p := &types.PathCandidate{
			NodeSequence: []string{"Acme Corp", "Initech"},
			HopCount:     1,
		}
		assert.Equal(t, "Acme Corp related to Initech", ComposePath(p))
	})

	t.Run("degenerate paths", func(t *testing.T) {
		assert.Equal(t, "No path found", ComposePath(nil))
		assert.Equal(t, "No path found", ComposePath(&types.PathCandidate{NodeSequence: []string{"Acme Corp"}}))
	})
}

func TestComposeNeighbor(t *testing.T) {
	t.Run("renders anchor, neighbor, and count", func(t *testing.T) {
		n := &types.NeighborCandidate{
			AnchorName:      "Acme Corp",
			NeighborName:    "Initech",
			ConnectionCount: 3,
		}
		assert.Equal(t, "Acme Corp is connected to Initech through 3 connection(s)", ComposeNeighbor(n))
	})

	t.Run("degenerate neighbors", func(t *testing.T) {
		assert.Equal(t, "No path found", ComposeNeighbor(nil))
		assert.Equal(t, "No path found", ComposeNeighbor(&types.NeighborCandidate{AnchorName: "Acme Corp"}))
	})
}

func TestHumanizeEdgeType(t *testing.T) {
	assert.Equal(t, "partners with", humanizeEdgeType("PARTNERS_WITH"))
	assert.Equal(t, "works at", humanizeEdgeType("WORKS_AT"))
	assert.Equal(t, "acquired", humanizeEdgeType("ACQUIRED"))
}
