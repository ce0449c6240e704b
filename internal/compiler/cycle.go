package compiler

import "sort"

// importGraph maps a module name to the sorted, distinct modules it imports.
type importGraph map[string][]string

func buildImportGraph(modules map[string]*module) importGraph {
	graph := make(importGraph, len(modules))
	for name, m := range modules {
		seen := make(map[string]bool)
		deps := []string{}
		for _, imp := range m.imports {
			if !seen[imp.module] {
				seen[imp.module] = true
				deps = append(deps, imp.module)
			}
		}
		sort.Strings(deps)
		graph[name] = deps
	}
	return graph
}

func (g importGraph) nodes() []string {
	out := make([]string, 0, len(g))
	for n := range g {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// findCycle returns the first import cycle as a closed path
// ("a", "b", "a"), or nil when the graph is acyclic.
//
// Strongly connected components are found with Tarjan's algorithm. Nodes and
// edges are visited in sorted order so the reported cycle is stable.
func (g importGraph) findCycle() []string {
	var (
		index   = 0
		stack   []string
		indices = make(map[string]int)
		lowlink = make(map[string]int)
		onStack = make(map[string]bool)
		sccs    [][]string
	)

	var strongConnect func(string)
	strongConnect = func(v string) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		for _, w := range g[v] {
			if _, visited := indices[w]; !visited {
				strongConnect(w)
				lowlink[v] = min(lowlink[v], lowlink[w])
			} else if onStack[w] {
				lowlink[v] = min(lowlink[v], indices[w])
			}
		}

		if lowlink[v] == indices[v] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, node := range g.nodes() {
		if _, visited := indices[node]; !visited {
			strongConnect(node)
		}
	}

	for _, scc := range sccs {
		if len(scc) == 1 && !g.importsItself(scc[0]) {
			continue
		}
		sort.Strings(scc)
		return append(scc, scc[0])
	}
	return nil
}

func (g importGraph) importsItself(name string) bool {
	for _, dep := range g[name] {
		if dep == name {
			return true
		}
	}
	return false
}

// compileOrder sorts modules so every module follows its imports. Ties are
// broken by name. The graph must be acyclic.
func (g importGraph) compileOrder() []string {
	remaining := make(map[string]int, len(g))
	dependents := make(map[string][]string, len(g))
	for _, name := range g.nodes() {
		remaining[name] = len(g[name])
		for _, dep := range g[name] {
			dependents[dep] = append(dependents[dep], name)
		}
	}

	var ready []string
	for _, name := range g.nodes() {
		if remaining[name] == 0 {
			ready = append(ready, name)
		}
	}

	order := make([]string, 0, len(g))
	for len(ready) > 0 {
		sort.Strings(ready)
		next := ready[0]
		ready = ready[1:]
		order = append(order, next)
		for _, d := range dependents[next] {
			remaining[d]--
			if remaining[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	return order
}
