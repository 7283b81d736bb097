// Package rank scores, filters, orders, and explains the candidates
// produced by the search phase.
package rank

import (
	"math"
	"sort"

	"github.com/soundprediction/graphquery/pkg/config"
	"github.com/soundprediction/graphquery/pkg/types"
)

// Scoring constants. These weightings and rescaling factors are empirically
// chosen; they are kept as named constants rather than derived, pending
// calibration against a labeled benchmark.
const (
	// pathWeightScale rescales path weights, since typical per-edge
	// extraction weights are far below 1.
	pathWeightScale = 10.0
	// hopDecayRate penalizes longer, less certain paths; at three hops the
	// confidence floor is about 0.71 of the scaled weight.
	hopDecayRate = 0.2

	// centralityScale rescales raw graph centrality, typically much smaller
	// than 1, into a usable confidence term.
	centralityScale = 1000.0

	neighborCentralityWeight = 0.4
	neighborDensityWeight    = 0.3
	neighborBaseWeight       = 0.3
	// connectionSaturation is the connection count at which the density
	// term maxes out.
	connectionSaturation = 5.0

	confidenceWeight  = 0.4
	centralityWeight  = 0.3
	pathWeightBonus   = 0.2
	shortPathBonus    = 0.1
	densityBonusCap   = 0.1
	densityBonusScale = 10.0

	// lowWeightPenalty halves the whole score of a path below the minimum
	// path weight instead of merely withholding its bonus.
	lowWeightPenalty = 0.5

	// scoreFloor is the noise threshold; candidates scoring at or below it
	// are discarded.
	scoreFloor = 0.1
)

// PathConfidence scores how trustworthy a path is: the rescaled joint edge
// weight, decayed by path length. For a fixed weight, confidence strictly
// decreases as hops increase.
func PathConfidence(pathWeight float64, hopCount int) float64 {
	scaled := math.Min(1, pathWeight*pathWeightScale)
	decay := 1 / (1 + hopDecayRate*float64(hopCount-1))
	return scaled * decay
}

// NeighborConfidence blends rescaled centrality, connection density, and the
// anchor's extraction confidence.
func NeighborConfidence(centrality float64, connectionCount int, baseConfidence float64) float64 {
	centralityTerm := math.Min(1, centrality*centralityScale)
	densityTerm := math.Min(1, float64(connectionCount)/connectionSaturation)
	return neighborCentralityWeight*centralityTerm +
		neighborDensityWeight*densityTerm +
		neighborBaseWeight*baseConfidence
}

// Ranker applies the unified relevance formula and produces the final
// ordered result list.
type Ranker struct {
	cfg config.QueryConfig
}

// NewRanker creates a ranker with the given query knobs.
func NewRanker(cfg config.QueryConfig) *Ranker {
	return &Ranker{cfg: cfg}
}

// pathScore combines path confidence with the retrieval-importance terms.
// Paths at or above the minimum path weight earn a weight bonus; paths
// below it have their entire score halved.
func (r *Ranker) pathScore(p types.PathCandidate, confidence float64) float64 {
	score := confidenceWeight*confidence +
		centralityWeight*p.EndpointCentrality*r.cfg.PagerankBoostFactor +
		shortPathBonus/float64(p.HopCount)
	if p.PathWeight >= r.cfg.MinPathWeight {
		score += pathWeightBonus * p.PathWeight
	} else {
		score *= lowWeightPenalty
	}
	return score
}

// neighborScore combines neighbor confidence with centrality and a capped
// density bonus.
func (r *Ranker) neighborScore(n types.NeighborCandidate, confidence float64) float64 {
	return confidenceWeight*confidence +
		centralityWeight*n.Centrality*r.cfg.PagerankBoostFactor +
		math.Min(float64(n.ConnectionCount)/densityBonusScale, densityBonusCap)
}

// Rank scores every candidate, drops those at or below the noise floor,
// sorts by relevance descending, assigns dense ranks starting at 1, and
// truncates to the result limit. Score ties keep insertion order: paths
// before neighbors, then discovery order within each kind. The whole
// pipeline is deterministic for a fixed input.
func (r *Ranker) Rank(paths []types.PathCandidate, neighbors []types.NeighborCandidate) []types.RankedResult {
	results := make([]types.RankedResult, 0, len(paths)+len(neighbors))

	for i := range paths {
		p := paths[i]
		confidence := PathConfidence(p.PathWeight, p.HopCount)
		score := r.pathScore(p, confidence)
		if score <= scoreFloor {
			continue
		}
		results = append(results, types.RankedResult{
			Kind:           types.PathResult,
			Confidence:     confidence,
			RelevanceScore: score,
			Explanation:    ComposePath(&p),
			Path:           &p,
		})
	}

	for i := range neighbors {
		n := neighbors[i]
		confidence := NeighborConfidence(n.Centrality, n.ConnectionCount, n.AnchorConfidence)
		score := r.neighborScore(n, confidence)
		if score <= scoreFloor {
			continue
		}
		results = append(results, types.RankedResult{
			Kind:           types.NeighborResult,
			Confidence:     confidence,
			RelevanceScore: score,
			Explanation:    ComposeNeighbor(&n),
			Neighbor:       &n,
		})
	}

	// Stable sort preserves the paths-then-neighbors insertion order for
	// equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	if len(results) > r.cfg.ResultLimit {
		results = results[:r.cfg.ResultLimit]
	}
	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// AggregateConfidence computes the response-level confidence: each result's
// confidence weighted by the reciprocal of its rank, so top results
// dominate. Returns 0 for an empty result set.
func AggregateConfidence(results []types.RankedResult) float64 {
	if len(results) == 0 {
		return 0
	}
	var weighted, total float64
	for _, res := range results {
		w := 1 / float64(res.Rank)
		weighted += res.Confidence * w
		total += w
	}
	return weighted / total
}
