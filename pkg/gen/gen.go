// Package gen produces random acyclic graphs for demos, benchmarks, and
// the generate command. Acyclicity comes for free: edges only ever point
// from a lower-numbered node to a higher-numbered one.
package gen

import (
	"fmt"
	"math/rand"

	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/errors"
)

// Params control one generation run. The same parameters always produce
// the same graph.
type Params struct {
	// Nodes is the node count; must be at least 1.
	Nodes int

	// EdgeProb is the probability of each forward pair (i, j) with i < j
	// receiving an edge. Must be in [0, 1].
	EdgeProb float64

	// Seed fixes the random stream.
	Seed int64

	// Connected guarantees every node except the first has at least one
	// predecessor, so the graph forms a single weak component.
	Connected bool
}

// Random generates an acyclic graph from the parameters.
func Random(p Params) (*dag.DAG, error) {
	if p.Nodes < 1 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "node count must be at least 1, got %d", p.Nodes)
	}
	if p.EdgeProb < 0 || p.EdgeProb > 1 {
		return nil, errors.New(errors.ErrCodeMalformedInput, "edge probability must be in [0, 1], got %v", p.EdgeProb)
	}

	rng := rand.New(rand.NewSource(p.Seed))
	g := dag.New()

	ids := make([]string, p.Nodes)
	for i := range ids {
		ids[i] = fmt.Sprintf("n%03d", i)
		_ = g.AddNode(ids[i])
	}

	for i := 0; i < p.Nodes; i++ {
		for j := i + 1; j < p.Nodes; j++ {
			if rng.Float64() < p.EdgeProb {
				_ = g.AddEdge(ids[i], ids[j])
			}
		}
	}

	if p.Connected {
		for j := 1; j < p.Nodes; j++ {
			if g.InDegree(ids[j]) == 0 {
				_ = g.AddEdge(ids[rng.Intn(j)], ids[j])
			}
		}
	}
	return g, nil
}
