package dag

import "slices"

const (
	unvisited = iota
	visiting
	visited
)

// detectCycles walks parent links depth first. When it meets a node that is
// still on the stack it returns the path of that cycle in parent-to-child
// direction.
func (g *Graph) detectCycles() error {
	state := make([]int, len(g.nodes))
	var stack []int

	var visit func(i int) error
	visit = func(i int) error {
		state[i] = visiting
		stack = append(stack, i)
		for _, c := range g.children[i] {
			switch state[c] {
			case visiting:
				start := slices.Index(stack, c)
				path := make([]string, 0, len(stack)-start+1)
				for _, idx := range stack[start:] {
					path = append(path, g.nodes[idx].id)
				}
				path = append(path, g.nodes[c].id)
				return &CycleError{Path: path}
			case unvisited:
				if err := visit(c); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[i] = visited
		return nil
	}

	for i := range g.nodes {
		if state[i] == unvisited {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}
