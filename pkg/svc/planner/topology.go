package planner

import (
	"fmt"
	"slices"

	"github.com/kagenti/kagenti-installer/pkg/apis/installer/v1alpha1"
	"github.com/kagenti/kagenti-installer/pkg/svc/registry"
)

// sortTopologically orders specs (given in registration order) so that every
// dependency precedes its dependents. Among ready components the earliest
// registered goes first. It also returns the topological levels as spec indices.
func sortTopologically(
	specs []v1alpha1.ComponentSpec,
	reg *registry.Registry,
) ([]int, [][]int, error) {
	inDegree := make([]int, len(specs))
	dependents := make([][]int, len(specs))

	for idx, spec := range specs {
		deps, err := reg.DependenciesOf(spec.Name)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrPlanning, err)
		}

		for _, dep := range deps {
			depIdx, ok := reg.Index(dep)
			if !ok {
				return nil, nil, fmt.Errorf("%w: %s depends on %s", ErrUnknownDependency, spec.Name, dep)
			}

			dependents[depIdx] = append(dependents[depIdx], idx)
			inDegree[idx]++
		}
	}

	level := make([]int, len(specs))
	ready := make([]int, 0, len(specs))

	for idx := range specs {
		if inDegree[idx] == 0 {
			ready = append(ready, idx)
		}
	}

	order := make([]int, 0, len(specs))

	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]
		order = append(order, current)

		for _, dependent := range dependents[current] {
			level[dependent] = max(level[dependent], level[current]+1)

			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
				slices.Sort(ready)
			}
		}
	}

	if len(order) != len(specs) {
		return nil, nil, &CycleError{Cycle: findCycle(specs, reg, inDegree)}
	}

	var levels [][]int

	for _, idx := range order {
		for len(levels) <= level[idx] {
			levels = append(levels, nil)
		}

		levels[level[idx]] = append(levels[level[idx]], idx)
	}

	return order, levels, nil
}

// findCycle walks the components left unsorted by Kahn's algorithm. Each of them
// still has an unsorted dependency, so following the first one from the earliest
// registered leftover always closes a loop.
func findCycle(specs []v1alpha1.ComponentSpec, reg *registry.Registry, inDegree []int) []string {
	start := slices.IndexFunc(inDegree, func(degree int) bool { return degree > 0 })
	if start < 0 {
		return nil
	}

	visitedAt := make(map[int]int)
	path := make([]int, 0, len(specs))
	current := start

	for {
		if at, seen := visitedAt[current]; seen {
			cycle := make([]string, 0, len(path)-at+1)
			for _, idx := range path[at:] {
				cycle = append(cycle, specs[idx].Name)
			}

			return append(cycle, specs[current].Name)
		}

		visitedAt[current] = len(path)
		path = append(path, current)

		deps, _ := reg.DependenciesOf(specs[current].Name)

		next := -1

		for _, dep := range deps {
			depIdx, _ := reg.Index(dep)
			if inDegree[depIdx] > 0 {
				next = depIdx

				break
			}
		}

		if next < 0 {
			return nil
		}

		current = next
	}
}
