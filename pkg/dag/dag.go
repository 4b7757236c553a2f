package dag

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [DAG.AddNode] and [DAG.AddEdge] when
	// a node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [DAG.AddNode] when a node with the
	// same ID already exists in the graph. Node IDs must be unique.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned by operations that reference a node ID
	// not present in the graph.
	ErrUnknownNode = errors.New("unknown node")

	// ErrEmptyGraph is returned by operations that require at least one node.
	ErrEmptyGraph = errors.New("graph has no nodes")

	// ErrGraphHasCycle is the sentinel matched by errors.Is for any cycle
	// condition. Operations that need the offending cycles return a
	// [*CycleError], which unwraps to this sentinel.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)

// CycleError reports that an operation requiring an acyclic graph was
// invoked on a graph containing cycles. Cycles holds one node sequence per
// detected cycle, in discovery order; each sequence lists the cycle's nodes
// without repeating the first node at the end.
//
// CycleError unwraps to [ErrGraphHasCycle], so callers can test with
// errors.Is and recover the cycle list with errors.As.
type CycleError struct {
	Cycles [][]string
}

func (e *CycleError) Error() string {
	if len(e.Cycles) == 0 {
		return ErrGraphHasCycle.Error()
	}
	parts := make([]string, len(e.Cycles))
	for i, c := range e.Cycles {
		parts[i] = strings.Join(c, "→")
	}
	return fmt.Sprintf("graph contains %d cycle(s): %s", len(e.Cycles), strings.Join(parts, ", "))
}

func (e *CycleError) Unwrap() error { return ErrGraphHasCycle }

// Edge represents a directed dependency between two nodes. Tags carry
// presentation-only labels (CSV "classes"); they are never consulted by
// any algorithm. Tags are kept sorted and deduplicated.
type Edge struct {
	From string
	To   string
	Tags []string
}

// HasTag reports whether the edge carries the given tag.
func (e Edge) HasTag(tag string) bool {
	_, ok := slices.BinarySearch(e.Tags, tag)
	return ok
}

type pair struct{ from, to string }

// DAG is a directed graph of labeled nodes, the canonical in-memory model
// for all transforms and analytics. Node insertion order is preserved so
// that every derived ordering (matrices, layers, reports) is deterministic
// for a given input edge list.
//
// Despite the name, a DAG value may temporarily contain cycles: cycle
// detection and removal operate on it directly, and every transform that
// requires acyclicity checks for itself. The zero value is not usable -
// use New or FromEdges.
//
// DAG is not safe for concurrent mutation without external synchronization.
type DAG struct {
	order    []string
	nodes    map[string]struct{}
	edges    []Edge
	edgeIdx  map[pair]int
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty DAG.
func New() *DAG {
	return &DAG{
		nodes:    make(map[string]struct{}),
		edgeIdx:  make(map[pair]int),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// FromEdges builds a DAG from an ordered edge list. Endpoints are declared
// as nodes in first-seen order; duplicate edges are merged with their tag
// sets unioned. Returns ErrInvalidNodeID if any endpoint is empty.
func FromEdges(edges []Edge) (*DAG, error) {
	g := New()
	for _, e := range edges {
		if err := g.AddEdge(e.From, e.To, e.Tags...); err != nil {
			return nil, fmt.Errorf("edge %s→%s: %w", e.From, e.To, err)
		}
	}
	return g, nil
}

// AddNode declares a node. Returns ErrInvalidNodeID for an empty ID and
// ErrDuplicateNodeID if the node already exists.
func (d *DAG) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if _, exists := d.nodes[id]; exists {
		return ErrDuplicateNodeID
	}
	d.declare(id)
	return nil
}

// declare inserts a node if absent, preserving first-seen order.
func (d *DAG) declare(id string) {
	if _, exists := d.nodes[id]; exists {
		return
	}
	d.nodes[id] = struct{}{}
	d.order = append(d.order, id)
}

// AddEdge adds the directed edge from→to, auto-declaring endpoints that are
// not yet nodes. Re-adding an existing edge does not duplicate it: the tag
// sets are unioned instead. Returns ErrInvalidNodeID if either endpoint is
// empty.
func (d *DAG) AddEdge(from, to string, tags ...string) error {
	if from == "" || to == "" {
		return ErrInvalidNodeID
	}
	d.declare(from)
	d.declare(to)

	key := pair{from, to}
	if i, exists := d.edgeIdx[key]; exists {
		d.edges[i].Tags = mergeTags(d.edges[i].Tags, tags)
		return nil
	}

	d.edgeIdx[key] = len(d.edges)
	d.edges = append(d.edges, Edge{From: from, To: to, Tags: mergeTags(nil, tags)})
	d.outgoing[from] = append(d.outgoing[from], to)
	d.incoming[to] = append(d.incoming[to], from)
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
// No error is returned if the edge does not exist.
func (d *DAG) RemoveEdge(from, to string) {
	key := pair{from, to}
	i, exists := d.edgeIdx[key]
	if !exists {
		return
	}
	d.edges = slices.Delete(d.edges, i, i+1)
	delete(d.edgeIdx, key)
	for j := i; j < len(d.edges); j++ {
		d.edgeIdx[pair{d.edges[j].From, d.edges[j].To}] = j
	}
	d.outgoing[from] = slices.DeleteFunc(d.outgoing[from], func(s string) bool { return s == to })
	d.incoming[to] = slices.DeleteFunc(d.incoming[to], func(s string) bool { return s == from })
}

// Nodes returns all node IDs in insertion order.
// The returned slice is a copy and can be modified freely.
func (d *DAG) Nodes() []string { return slices.Clone(d.order) }

// Edges returns a copy of all edges in insertion order.
func (d *DAG) Edges() []Edge {
	out := make([]Edge, len(d.edges))
	for i, e := range d.edges {
		out[i] = Edge{From: e.From, To: e.To, Tags: slices.Clone(e.Tags)}
	}
	return out
}

// NodeCount returns the number of nodes in the graph.
func (d *DAG) NodeCount() int { return len(d.nodes) }

// EdgeCount returns the number of edges in the graph.
func (d *DAG) EdgeCount() int { return len(d.edges) }

// HasNode reports whether the node exists.
func (d *DAG) HasNode(id string) bool {
	_, ok := d.nodes[id]
	return ok
}

// HasEdge reports whether the directed edge from→to exists.
func (d *DAG) HasEdge(from, to string) bool {
	_, ok := d.edgeIdx[pair{from, to}]
	return ok
}

// Edge returns the edge from→to and true, or a zero Edge and false.
func (d *DAG) Edge(from, to string) (Edge, bool) {
	i, ok := d.edgeIdx[pair{from, to}]
	if !ok {
		return Edge{}, false
	}
	e := d.edges[i]
	return Edge{From: e.From, To: e.To, Tags: slices.Clone(e.Tags)}, true
}

// Successors returns the direct successors of the node in edge insertion
// order. The returned slice should not be modified - use it as a read-only
// view.
func (d *DAG) Successors(id string) []string { return d.outgoing[id] }

// Predecessors returns the direct predecessors of the node in edge
// insertion order. The returned slice should not be modified.
func (d *DAG) Predecessors(id string) []string { return d.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (d *DAG) OutDegree(id string) int { return len(d.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
func (d *DAG) InDegree(id string) int { return len(d.incoming[id]) }

// Degree returns the total degree (in + out) of the node.
func (d *DAG) Degree(id string) int { return len(d.incoming[id]) + len(d.outgoing[id]) }

// Sources returns nodes with no incoming edges, in insertion order.
func (d *DAG) Sources() []string {
	var sources []string
	for _, id := range d.order {
		if len(d.incoming[id]) == 0 {
			sources = append(sources, id)
		}
	}
	return sources
}

// Sinks returns nodes with no outgoing edges, in insertion order.
func (d *DAG) Sinks() []string {
	var sinks []string
	for _, id := range d.order {
		if len(d.outgoing[id]) == 0 {
			sinks = append(sinks, id)
		}
	}
	return sinks
}

// Clone returns a deep copy of the graph. The copy shares no state with the
// original, so transforms can mutate it freely.
func (d *DAG) Clone() *DAG {
	c := New()
	for _, id := range d.order {
		c.declare(id)
	}
	for _, e := range d.edges {
		_ = c.AddEdge(e.From, e.To, e.Tags...)
	}
	return c
}

// HasCycle reports whether the graph contains a directed cycle. It runs an
// iterative depth-first traversal tracking the set of nodes currently on
// the DFS stack; revisiting an on-stack node signals a cycle.
func (d *DAG) HasCycle() bool {
	visited := make(map[string]bool, len(d.nodes))
	onStack := make(map[string]bool, len(d.nodes))

	type frame struct {
		id   string
		next int
	}

	for _, start := range d.order {
		if visited[start] {
			continue
		}
		stack := []frame{{id: start}}
		visited[start] = true
		onStack[start] = true

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			succ := d.outgoing[f.id]
			if f.next < len(succ) {
				child := succ[f.next]
				f.next++
				if onStack[child] {
					return true
				}
				if !visited[child] {
					visited[child] = true
					onStack[child] = true
					stack = append(stack, frame{id: child})
				}
				continue
			}
			onStack[f.id] = false
			stack = stack[:len(stack)-1]
		}
	}
	return false
}

// Validate checks graph integrity: every edge endpoint must be a declared
// node, and the graph must be acyclic. Returns ErrUnknownNode or
// ErrGraphHasCycle respectively, nil if valid.
func (d *DAG) Validate() error {
	for _, e := range d.edges {
		if !d.HasNode(e.From) || !d.HasNode(e.To) {
			return fmt.Errorf("edge %s→%s: %w", e.From, e.To, ErrUnknownNode)
		}
	}
	if d.HasCycle() {
		return ErrGraphHasCycle
	}
	return nil
}

// PosMap creates a position lookup map from a slice of node IDs.
// The returned map maps each ID to its index in the slice.
func PosMap(ids []string) map[string]int {
	m := make(map[string]int, len(ids))
	for i, id := range ids {
		m[id] = i
	}
	return m
}

// mergeTags unions extra into tags, keeping the result sorted and unique.
func mergeTags(tags, extra []string) []string {
	if len(extra) == 0 {
		return tags
	}
	out := slices.Clone(tags)
	out = append(out, extra...)
	slices.Sort(out)
	return slices.Compact(out)
}
