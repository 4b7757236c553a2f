package analysis

import (
	"math"
	"strconv"

	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/dag/reach"
	"github.com/matzehuels/dagopt/pkg/dag/transform"
)

// DefaultTopK is the bottleneck list size used by [Compute].
const DefaultTopK = 5

// Report is the flat metrics dictionary for one graph. Callers typically
// compute one report before and one after a transform and diff them; the
// engine never assumes a prior transform ran.
type Report struct {
	NumNodes int     `json:"num_nodes" bson:"num_nodes"`
	NumEdges int     `json:"num_edges" bson:"num_edges"`
	Density  float64 `json:"density" bson:"density"`

	Depth                 int     `json:"depth" bson:"depth"`
	Width                 int     `json:"width" bson:"width"`
	TopologicalComplexity int     `json:"topological_complexity" bson:"topological_complexity"`
	Parallelism           float64 `json:"parallelism" bson:"parallelism"`

	LongestPath       int     `json:"longest_path" bson:"longest_path"`
	ShortestPath      int     `json:"shortest_path" bson:"shortest_path"`
	AveragePathLength float64 `json:"average_path_length" bson:"average_path_length"`
	Diameter          int     `json:"diameter" bson:"diameter"`

	CyclomaticComplexity int            `json:"cyclomatic_complexity" bson:"cyclomatic_complexity"`
	DegreeEntropy        float64        `json:"degree_entropy" bson:"degree_entropy"`
	DegreeDistribution   map[string]int `json:"degree_distribution" bson:"degree_distribution"`

	RedundancyRatio  float64 `json:"redundancy_ratio" bson:"redundancy_ratio"`
	CompactnessScore float64 `json:"compactness_score" bson:"compactness_score"`
	EfficiencyScore  float64 `json:"efficiency_score" bson:"efficiency_score"`

	BottleneckNodes             []RankedNode `json:"bottleneck_nodes" bson:"bottleneck_nodes"`
	StronglyConnectedComponents int          `json:"strongly_connected_components" bson:"strongly_connected_components"`
	WeaklyConnectedComponents   int          `json:"weakly_connected_components" bson:"weakly_connected_components"`
	NumRoots                    int          `json:"num_roots" bson:"num_roots"`
	NumLeaves                   int          `json:"num_leaves" bson:"num_leaves"`
}

// Compute builds the full metrics report with default settings.
func Compute(g *dag.DAG) (*Report, error) {
	return ComputeWith(g, nil, DefaultTopK)
}

// ComputeWith is [Compute] with a reusable closure matrix and an explicit
// bottleneck list size. A nil closure is computed on demand; passing one
// avoids a second O(n³) pass when the caller already reduced or
// classified the same graph. Returns [dag.ErrEmptyGraph] for a graph
// without nodes and a [*dag.CycleError] when the graph is cyclic.
func ComputeWith(g *dag.DAG, closure *reach.Matrix, topK int) (*Report, error) {
	n, m := g.NodeCount(), g.EdgeCount()
	if n == 0 {
		return nil, dag.ErrEmptyGraph
	}
	layering, err := Layers(g)
	if err != nil {
		return nil, err
	}
	if closure == nil {
		closure = reach.Closure(g)
	}
	reduction, err := transform.ReduceWith(g, nil, closure)
	if err != nil {
		return nil, err
	}

	shortest, diameter, average := pathLengthStats(g)
	weak := g.WeakComponentCount()
	density := transform.Density(g)

	redundancy := 0.0
	if m > 0 {
		redundancy = float64(closure.PairCount()-reduction.Graph.EdgeCount()) / float64(m)
	}
	compactness := 1.0
	if n > 1 {
		compactness = 1 - float64(m)/(float64(n)*float64(n-1)/2)
	}
	efficiency := ((1 - redundancy) + (1 - density) + compactness) / 3

	entropy, distribution := degreeEntropy(g)

	return &Report{
		NumNodes: n,
		NumEdges: m,
		Density:  density,

		Depth:                 layering.Depth,
		Width:                 layering.Width,
		TopologicalComplexity: layering.Depth - 1,
		Parallelism:           layering.Parallelism,

		LongestPath:       layering.Depth - 1,
		ShortestPath:      shortest,
		AveragePathLength: average,
		Diameter:          diameter,

		CyclomaticComplexity: m - n + 2*weak,
		DegreeEntropy:        entropy,
		DegreeDistribution:   distribution,

		RedundancyRatio:  redundancy,
		CompactnessScore: compactness,
		EfficiencyScore:  efficiency,

		BottleneckNodes:             TopBetweenness(g, topK),
		StronglyConnectedComponents: SCCCount(g),
		WeaklyConnectedComponents:   weak,
		NumRoots:                    len(g.Sources()),
		NumLeaves:                   len(g.Sinks()),
	}, nil
}

// pathLengthStats runs one BFS per node and aggregates shortest-path
// lengths over all reachable ordered pairs: the minimum, the maximum
// (diameter), and the mean. All three are 0 when no pair is connected.
func pathLengthStats(g *dag.DAG) (shortest, diameter int, average float64) {
	sum, count := 0, 0
	shortest = math.MaxInt

	for _, s := range g.Nodes() {
		dist := map[string]int{s: 0}
		queue := []string{s}
		for len(queue) > 0 {
			v := queue[0]
			queue = queue[1:]
			for _, w := range g.Successors(v) {
				if _, seen := dist[w]; seen {
					continue
				}
				dist[w] = dist[v] + 1
				queue = append(queue, w)

				sum += dist[w]
				count++
				if dist[w] < shortest {
					shortest = dist[w]
				}
				if dist[w] > diameter {
					diameter = dist[w]
				}
			}
		}
	}

	if count == 0 {
		return 0, 0, 0
	}
	return shortest, diameter, float64(sum) / float64(count)
}

// degreeEntropy computes the Shannon entropy of the total-degree
// distribution, in bits, along with the distribution itself keyed by
// degree value.
func degreeEntropy(g *dag.DAG) (float64, map[string]int) {
	counts := make(map[int]int)
	for _, id := range g.Nodes() {
		counts[g.Degree(id)]++
	}

	n := float64(g.NodeCount())
	entropy := 0.0
	distribution := make(map[string]int, len(counts))
	for degree, c := range counts {
		p := float64(c) / n
		entropy -= p * math.Log2(p)
		distribution[strconv.Itoa(degree)] = c
	}
	return entropy, distribution
}
