package dag

// WeakComponents partitions the nodes into weakly connected components,
// treating every edge as undirected. Components are returned in order of
// their first node's insertion position, and each component lists its
// nodes in insertion order.
func (d *DAG) WeakComponents() [][]string {
	seen := make(map[string]bool, len(d.nodes))
	var components [][]string

	for _, start := range d.order {
		if seen[start] {
			continue
		}
		var comp []string
		queue := []string{start}
		seen[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			comp = append(comp, id)
			for _, n := range d.outgoing[id] {
				if !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
			for _, n := range d.incoming[id] {
				if !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
		components = append(components, sortByInsertion(d, comp))
	}
	return components
}

// WeakComponentCount returns the number of weakly connected components.
func (d *DAG) WeakComponentCount() int { return len(d.WeakComponents()) }

// sortByInsertion reorders ids to match the graph's node insertion order.
func sortByInsertion(d *DAG, ids []string) []string {
	member := make(map[string]bool, len(ids))
	for _, id := range ids {
		member[id] = true
	}
	out := make([]string, 0, len(ids))
	for _, id := range d.order {
		if member[id] {
			out = append(out, id)
		}
	}
	return out
}
