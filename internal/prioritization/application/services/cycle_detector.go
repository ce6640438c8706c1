package services

// Cycle is a closed walk through the dependency graph, ordered from the
// first task on the loop back around to itself. The starting ID appears
// again at the end to mark closure, so a self-dependency yields a cycle of
// length two.
type Cycle []string

// Contains reports whether the cycle passes through the given task ID.
func (c Cycle) Contains(id string) bool {
	for _, n := range c {
		if n == id {
			return true
		}
	}
	return false
}

// DetectCycles finds circular dependency chains in the batch. Dependencies
// referencing IDs outside the batch are ignored rather than treated as
// errors.
//
// The same cycle may be reported more than once when different traversal
// entry points reach it, and which representation is returned for a shared
// cycle is not guaranteed; downstream consumers should rely on cycle
// membership only. Fully explored nodes are never reused as traversal roots,
// so cycles reachable only through an already-visited node are not
// rediscovered from later entry points.
func DetectCycles(tasks []TaskRecord) []Cycle {
	graph := make(map[string][]string, len(tasks))
	inBatch := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		inBatch[t.ID] = true
		graph[t.ID] = t.Dependencies
	}

	visited := make(map[string]bool, len(tasks))
	var cycles []Cycle

	// Depth-first traversal with an explicit stack. Each frame carries its
	// own path slice so sibling branches never share mutable path state, and
	// "on the current path" is exactly membership in the frame's path.
	type frame struct {
		node string
		path []string
	}

	for _, t := range tasks {
		if visited[t.ID] {
			continue
		}

		stack := []frame{{node: t.ID}}
		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if i := pathIndex(f.path, f.node); i >= 0 {
				cycle := make(Cycle, 0, len(f.path)-i+1)
				cycle = append(cycle, f.path[i:]...)
				cycle = append(cycle, f.node)
				cycles = append(cycles, cycle)
				continue
			}

			if visited[f.node] {
				continue
			}
			visited[f.node] = true

			path := make([]string, 0, len(f.path)+1)
			path = append(path, f.path...)
			path = append(path, f.node)

			for _, dep := range graph[f.node] {
				if inBatch[dep] {
					stack = append(stack, frame{node: dep, path: path})
				}
			}
		}
	}

	return cycles
}

func pathIndex(path []string, node string) int {
	for i, n := range path {
		if n == node {
			return i
		}
	}
	return -1
}
