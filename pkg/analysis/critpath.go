package analysis

import (
	"github.com/matzehuels/dagopt/pkg/dag"
)

// CriticalPathReport is the PERT/CPM schedule of an acyclic graph:
// earliest and latest start times per node, the slack between them, the
// makespan, and one concrete zero-slack chain from a source to a sink.
type CriticalPathReport struct {
	EST      map[string]float64 `json:"est" bson:"est"`
	LST      map[string]float64 `json:"lst" bson:"lst"`
	Slack    map[string]float64 `json:"slack" bson:"slack"`
	Makespan float64            `json:"makespan" bson:"makespan"`

	// Path is one longest chain of zero-slack nodes; ties between equally
	// critical branches resolve to the topologically first one.
	Path []string `json:"critical_path" bson:"critical_path"`
}

// CriticalPath runs the CPM forward and backward passes over the graph.
// Durations are per node; absent entries default to 1. The forward pass
// assigns EST(v) = max over predecessors u of EST(u)+duration(u); the
// makespan is the latest finish over the sinks; the backward pass assigns
// LST(v) = min over successors w of LST(w)−duration(v), anchored at
// LST(sink) = makespan−duration(sink). Slack is LST−EST and is never
// negative.
//
// Returns [dag.ErrEmptyGraph] for a graph without nodes and a
// [*dag.CycleError] when the graph is cyclic.
func CriticalPath(g *dag.DAG, durations map[string]float64) (*CriticalPathReport, error) {
	if g.NodeCount() == 0 {
		return nil, dag.ErrEmptyGraph
	}
	order, err := TopologicalOrder(g)
	if err != nil {
		return nil, err
	}

	duration := func(id string) float64 {
		if d, ok := durations[id]; ok && d > 0 {
			return d
		}
		return 1
	}

	est := make(map[string]float64, len(order))
	for _, id := range order {
		start := 0.0
		for _, p := range g.Predecessors(id) {
			if finish := est[p] + duration(p); finish > start {
				start = finish
			}
		}
		est[id] = start
	}

	makespan := 0.0
	for _, id := range g.Sinks() {
		if finish := est[id] + duration(id); finish > makespan {
			makespan = finish
		}
	}

	lst := make(map[string]float64, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		succs := g.Successors(id)
		if len(succs) == 0 {
			lst[id] = makespan - duration(id)
			continue
		}
		latest := lst[succs[0]] - duration(id)
		for _, s := range succs[1:] {
			if v := lst[s] - duration(id); v < latest {
				latest = v
			}
		}
		lst[id] = latest
	}

	slack := make(map[string]float64, len(order))
	for _, id := range order {
		slack[id] = lst[id] - est[id]
	}

	return &CriticalPathReport{
		EST:      est,
		LST:      lst,
		Slack:    slack,
		Makespan: makespan,
		Path:     criticalChain(g, order, est, slack, duration),
	}, nil
}

// criticalChain walks one zero-slack chain from the topologically first
// zero-slack source, always stepping to the topologically first zero-slack
// successor whose EST continues the chain without idle time.
func criticalChain(g *dag.DAG, order []string, est, slack map[string]float64, duration func(string) float64) []string {
	pos := dag.PosMap(order)

	start := ""
	for _, id := range order {
		if g.InDegree(id) == 0 && slack[id] == 0 {
			start = id
			break
		}
	}
	if start == "" {
		return nil
	}

	path := []string{start}
	cur := start
	for {
		next := ""
		for _, s := range g.Successors(cur) {
			if slack[s] != 0 || est[s] != est[cur]+duration(cur) {
				continue
			}
			if next == "" || pos[s] < pos[next] {
				next = s
			}
		}
		if next == "" {
			return path
		}
		path = append(path, next)
		cur = next
	}
}
