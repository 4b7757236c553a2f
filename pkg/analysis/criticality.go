package analysis

import (
	"github.com/matzehuels/dagopt/pkg/dag"
	"github.com/matzehuels/dagopt/pkg/dag/reach"
	"github.com/matzehuels/dagopt/pkg/dag/transform"
)

// EdgeScore is the per-edge criticality verdict: 1.0 for edges the
// transitive reduction keeps, 0.0 for edges it removes (an alternate
// path exists).
type EdgeScore struct {
	From     string  `json:"source" bson:"source"`
	To       string  `json:"target" bson:"target"`
	Critical bool    `json:"critical" bson:"critical"`
	Score    float64 `json:"score" bson:"score"`
}

// CriticalityReport partitions the edge set: Critical ∪ Redundant is
// exactly the input edges and the two sets are disjoint.
type CriticalityReport struct {
	Critical  []dag.Edge       `json:"critical_edges" bson:"critical_edges"`
	Redundant []dag.Edge       `json:"redundant_edges" bson:"redundant_edges"`
	Scores    []EdgeScore      `json:"criticality_scores" bson:"criticality_scores"`
	Ratio     float64          `json:"criticality_ratio" bson:"criticality_ratio"`
	Method    transform.Method `json:"method" bson:"method"`
}

// EdgeCriticality classifies every edge by running transitive reduction
// against the graph without mutating it. An edge kept by the reduction is
// critical (removing it would change reachability); a removed edge is
// redundant. Pass a precomputed closure matrix to avoid recomputing it
// when one is already in hand; nil computes on demand if needed.
//
// Returns a [*dag.CycleError] when the graph is cyclic.
func EdgeCriticality(g *dag.DAG, closure *reach.Matrix) (*CriticalityReport, error) {
	res, err := transform.ReduceWith(g, nil, closure)
	if err != nil {
		return nil, err
	}

	redundant := make(map[[2]string]bool, len(res.Removed))
	for _, e := range res.Removed {
		redundant[[2]string{e.From, e.To}] = true
	}

	report := &CriticalityReport{
		Redundant: res.Removed,
		Method:    res.Method,
	}
	for _, e := range g.Edges() {
		critical := !redundant[[2]string{e.From, e.To}]
		if critical {
			report.Critical = append(report.Critical, e)
		}
		score := 0.0
		if critical {
			score = 1.0
		}
		report.Scores = append(report.Scores, EdgeScore{
			From:     e.From,
			To:       e.To,
			Critical: critical,
			Score:    score,
		})
	}

	if total := g.EdgeCount(); total > 0 {
		report.Ratio = float64(len(report.Critical)) / float64(total)
	}
	return report, nil
}
