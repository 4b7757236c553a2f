package analysis

import (
	"github.com/matzehuels/dagopt/pkg/dag"
)

// StronglyConnected returns the strongly connected components of the
// graph using an iterative Tarjan traversal. On a true DAG every
// component is a single node; larger components pinpoint the cyclic
// clusters. Components are emitted in completion order, members in
// discovery order.
func StronglyConnected(g *dag.DAG) [][]string {
	n := g.NodeCount()
	index := make(map[string]int, n)
	lowlink := make(map[string]int, n)
	onStack := make(map[string]bool, n)
	var sccStack []string
	var components [][]string
	counter := 0

	type frame struct {
		id   string
		next int
	}

	for _, root := range g.Nodes() {
		if _, seen := index[root]; seen {
			continue
		}
		stack := []frame{{id: root}}

		for len(stack) > 0 {
			f := &stack[len(stack)-1]
			if f.next == 0 {
				index[f.id] = counter
				lowlink[f.id] = counter
				counter++
				sccStack = append(sccStack, f.id)
				onStack[f.id] = true
			}

			succ := g.Successors(f.id)
			if f.next < len(succ) {
				child := succ[f.next]
				f.next++
				if _, seen := index[child]; !seen {
					stack = append(stack, frame{id: child})
				} else if onStack[child] {
					if index[child] < lowlink[f.id] {
						lowlink[f.id] = index[child]
					}
				}
				continue
			}

			// f.id is fully explored; pop a component if it is a root.
			if lowlink[f.id] == index[f.id] {
				var comp []string
				for {
					top := sccStack[len(sccStack)-1]
					sccStack = sccStack[:len(sccStack)-1]
					onStack[top] = false
					comp = append(comp, top)
					if top == f.id {
						break
					}
				}
				// Reverse to discovery order.
				for i, j := 0, len(comp)-1; i < j; i, j = i+1, j-1 {
					comp[i], comp[j] = comp[j], comp[i]
				}
				components = append(components, comp)
			}

			id := f.id
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				if lowlink[id] < lowlink[parent.id] {
					lowlink[parent.id] = lowlink[id]
				}
			}
		}
	}
	return components
}

// SCCCount returns the number of strongly connected components. Equal to
// the node count exactly when the graph is acyclic.
func SCCCount(g *dag.DAG) int { return len(StronglyConnected(g)) }
