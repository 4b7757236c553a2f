package analysis

import (
	"sort"

	"github.com/matzehuels/dagopt/pkg/dag"
)

// RankedNode pairs a node with its centrality score for top-k listings.
type RankedNode struct {
	ID    string  `json:"id" bson:"id"`
	Score float64 `json:"score" bson:"score"`
}

// Betweenness computes betweenness centrality for every node with the
// Brandes accumulation: one BFS per source builds shortest-path counts,
// then dependencies propagate back in reverse visit order. Directed,
// unweighted, O(n·m). Scores are normalized by (n−1)(n−2) for n > 2 so
// graphs of different sizes compare.
func Betweenness(g *dag.DAG) map[string]float64 {
	nodes := g.Nodes()
	score := make(map[string]float64, len(nodes))
	for _, id := range nodes {
		score[id] = 0
	}

	for _, s := range nodes {
		// BFS phase: shortest-path counts sigma and predecessor lists.
		var visited []string
		sigma := map[string]float64{s: 1}
		dist := map[string]int{s: 0}
		preds := make(map[string][]string)

		queue := []string{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			visited = append(visited, v)
			for _, w := range g.Successors(v) {
				if _, seen := dist[w]; !seen {
					dist[w] = dist[v] + 1
					queue = append(queue, w)
				}
				if dist[w] == dist[v]+1 {
					sigma[w] += sigma[v]
					preds[w] = append(preds[w], v)
				}
			}
		}

		// Accumulation phase, farthest nodes first.
		delta := make(map[string]float64, len(visited))
		for i := len(visited) - 1; i >= 0; i-- {
			w := visited[i]
			for _, v := range preds[w] {
				delta[v] += sigma[v] / sigma[w] * (1 + delta[w])
			}
			if w != s {
				score[w] += delta[w]
			}
		}
	}

	if n := len(nodes); n > 2 {
		norm := float64(n-1) * float64(n-2)
		for id := range score {
			score[id] /= norm
		}
	}
	return score
}

// TopBetweenness returns the k highest-scoring nodes, ties broken by
// insertion order. A non-positive k returns an empty list.
func TopBetweenness(g *dag.DAG, k int) []RankedNode {
	if k <= 0 {
		return nil
	}
	score := Betweenness(g)

	ranked := make([]RankedNode, 0, len(score))
	for _, id := range g.Nodes() {
		ranked = append(ranked, RankedNode{ID: id, Score: score[id]})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })

	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}
