package rig

import "sort"

// evalOrder computes a topological order over bones such that every
// bone appears after its parent and after every constraint target it
// references. Computed once at build time; baking walks the order
// without re-checking dependencies per frame.
func evalOrder(bones []*Bone) ([]string, error) {
	indegree := make(map[string]int, len(bones))
	edges := make(map[string][]string, len(bones))

	for _, b := range bones {
		if _, ok := indegree[b.Name]; !ok {
			indegree[b.Name] = 0
		}
		deps := make(map[string]bool)
		if b.Parent != "" {
			deps[b.Parent] = true
		}
		for _, c := range b.Constraints {
			if c.Target != "" && c.Target != b.Name {
				deps[c.Target] = true
			}
		}
		for dep := range deps {
			edges[dep] = append(edges[dep], b.Name)
			indegree[b.Name]++
		}
	}

	var ready []string
	for name, deg := range indegree {
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(bones))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		next := edges[name]
		sort.Strings(next)
		for _, dep := range next {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
		sort.Strings(ready)
	}

	if len(order) != len(indegree) {
		var cycle []string
		for name, deg := range indegree {
			if deg > 0 {
				cycle = append(cycle, name)
			}
		}
		sort.Strings(cycle)
		return nil, &ConstraintCycleError{Bones: cycle}
	}

	return order, nil
}
