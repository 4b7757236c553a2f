package analysis

import (
	"github.com/matzehuels/dagopt/pkg/dag"
)

// LayerReport is the longest-path layering of an acyclic graph. Layer 0
// holds the sources; every other node sits one past its deepest direct
// predecessor, so for every edge u→v the layer of v is strictly greater
// than the layer of u.
type LayerReport struct {
	// Layers lists the nodes of each layer, index 0 first, nodes in
	// insertion order.
	Layers [][]string `json:"layers" bson:"layers"`

	// OfNode maps each node to its layer index.
	OfNode map[string]int `json:"node_layers" bson:"node_layers"`

	// Depth is the number of layers (1 + max layer index).
	Depth int `json:"depth" bson:"depth"`

	// Width is the size of the largest layer: the maximum number of
	// nodes that could run concurrently.
	Width int `json:"width" bson:"width"`

	// Parallelism is the mean layer occupancy, node count over depth.
	Parallelism float64 `json:"parallelism" bson:"parallelism"`
}

// Layers decomposes the graph into topological levels by longest path
// from the sources. Returns [dag.ErrEmptyGraph] for a graph without
// nodes and a [*dag.CycleError] when the graph is cyclic.
func Layers(g *dag.DAG) (*LayerReport, error) {
	if g.NodeCount() == 0 {
		return nil, dag.ErrEmptyGraph
	}
	order, err := TopologicalOrder(g)
	if err != nil {
		return nil, err
	}

	ofNode := make(map[string]int, len(order))
	maxLayer := 0
	for _, id := range order {
		layer := 0
		for _, p := range g.Predecessors(id) {
			if ofNode[p]+1 > layer {
				layer = ofNode[p] + 1
			}
		}
		ofNode[id] = layer
		if layer > maxLayer {
			maxLayer = layer
		}
	}

	layers := make([][]string, maxLayer+1)
	for _, id := range g.Nodes() {
		l := ofNode[id]
		layers[l] = append(layers[l], id)
	}

	width := 0
	for _, l := range layers {
		if len(l) > width {
			width = len(l)
		}
	}

	return &LayerReport{
		Layers:      layers,
		OfNode:      ofNode,
		Depth:       maxLayer + 1,
		Width:       width,
		Parallelism: float64(g.NodeCount()) / float64(maxLayer+1),
	}, nil
}
