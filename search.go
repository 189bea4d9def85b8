package pathfinder

// FindPath computes the cheapest path between two nodes, guided by the node
// type's heuristic. The returned slice runs from `from` to `to` inclusive; ok
// is false and the path nil when the goal is unreachable. When from == to the
// path is the single node itself, zero edges traversed.
func FindPath[N Node[N]](from, to N) (path []N, ok bool) {
	return findPathFrom(to, from)
}

// findPathFrom is the goal-centric search FindPath delegates to.
func findPathFrom[N Node[N]](goal, start N) ([]N, bool) {
	if start == goal {
		return []N{start}, true
	}

	closed := map[N]bool{start: true}
	front := newFrontier[N]()

	// First layer: the start node's own neighbors, with no predecessor.
	for _, neighbor := range start.ConnectedNodes() {
		if closed[neighbor] {
			continue
		}
		if _, queued := front.lookup(neighbor); queued {
			continue
		}
		front.push(&step[N]{
			node:     neighbor,
			stepCost: start.Cost(neighbor),
			goalCost: neighbor.EstimatedCost(goal),
		})
	}

	for front.len() > 0 {
		current := front.popMin()

		if current.node == goal {
			return buildPath(start, current), true
		}

		closed[current.node] = true

		for _, neighbor := range current.node.ConnectedNodes() {
			if closed[neighbor] {
				continue
			}

			stepCost := current.stepCost + current.node.Cost(neighbor)

			if queued, exists := front.lookup(neighbor); exists {
				// A cheaper route to an already-queued node reroutes
				// that step in place; never a second step per node.
				if stepCost < queued.stepCost {
					front.relax(queued, current, stepCost)
				}
				continue
			}

			front.push(&step[N]{
				node:     neighbor,
				previous: current,
				stepCost: stepCost,
				goalCost: neighbor.EstimatedCost(goal),
			})
		}
	}

	// Frontier exhausted without reaching the goal.
	return nil, false
}

// buildPath walks the predecessor chain back from the terminal step and
// prepends the start node.
func buildPath[N Node[N]](start N, terminal *step[N]) []N {
	count := 1
	for s := terminal; s != nil; s = s.previous {
		count++
	}

	path := make([]N, count)
	i := count - 1
	for s := terminal; s != nil; s = s.previous {
		path[i] = s.node
		i--
	}
	path[0] = start
	return path
}
