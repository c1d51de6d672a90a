/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package guess

// Lineage indexes the evolves-from relation of a roster by name. It is built
// once per roster load and every walk over it is iterative with a visited
// set, so malformed data containing a cycle cannot hang a traversal.
type Lineage struct {
	order    []string
	parent   map[string]string
	children map[string][]string
}

// NewLineage builds the index for entities. Children keep roster order.
func NewLineage(entities []Entity) *Lineage {
	l := &Lineage{
		order:    make([]string, 0, len(entities)),
		parent:   make(map[string]string, len(entities)),
		children: make(map[string][]string),
	}

	for _, e := range entities {
		l.order = append(l.order, e.Name)

		if e.EvolvesFrom == "" {
			continue
		}

		l.parent[e.Name] = e.EvolvesFrom
		l.children[e.EvolvesFrom] = append(l.children[e.EvolvesFrom], e.Name)
	}

	return l
}

// IsEvolved reports whether name evolves from something.
func (l *Lineage) IsEvolved(name string) bool {
	if l == nil {
		return false
	}

	_, ok := l.parent[name]

	return ok
}

// HasEvolution reports whether something evolves from name.
func (l *Lineage) HasEvolution(name string) bool {
	if l == nil {
		return false
	}

	return len(l.children[name]) > 0
}

// Root returns the first ancestor of name's chain.
func (l *Lineage) Root(name string) string {
	if l == nil {
		return name
	}

	visited := map[string]bool{name: true}
	current := name

	for {
		p, ok := l.parent[current]
		if !ok || visited[p] {
			return current
		}

		visited[p] = true
		current = p
	}
}

// Stage is 1 for a chain root, 2 for its evolutions, and so on.
func (l *Lineage) Stage(name string) int {
	if l == nil {
		return 1
	}

	visited := map[string]bool{name: true}
	stage := 1
	current := name

	for {
		p, ok := l.parent[current]
		if !ok || visited[p] {
			return stage
		}

		visited[p] = true
		stage++
		current = p
	}
}

// Descendants lists every creature that evolves, directly or not, from name,
// breadth first.
func (l *Lineage) Descendants(name string) []string {
	if l == nil {
		return nil
	}

	var out []string

	visited := map[string]bool{name: true}
	queue := []string{name}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, child := range l.children[current] {
			if visited[child] {
				continue
			}

			visited[child] = true
			out = append(out, child)
			queue = append(queue, child)
		}
	}

	return out
}

// Cycle returns the names forming the first evolves-from cycle found, in
// roster order, or nil when the relation is acyclic.
func (l *Lineage) Cycle() []string {
	if l == nil {
		return nil
	}

	cleared := make(map[string]bool, len(l.order))

	for _, start := range l.order {
		if cleared[start] {
			continue
		}

		position := map[string]int{}
		var path []string

		current := start
		for {
			if cleared[current] {
				break
			}

			if i, seen := position[current]; seen {
				return path[i:]
			}

			position[current] = len(path)
			path = append(path, current)

			p, ok := l.parent[current]
			if !ok {
				break
			}

			current = p
		}

		for _, name := range path {
			cleared[name] = true
		}
	}

	return nil
}
