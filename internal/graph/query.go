package graph

import (
	"fmt"
	"strconv"
)

// Read queries. Every returned node is a deep copy; node ids are resolved by
// scanning all modules because callers never pass a module hint.

// ModuleOf returns the module owning id.
func (s *Store) ModuleOf(id string) (string, bool) {
	for _, name := range s.order {
		if _, ok := s.modules[name].nodes[id]; ok {
			return name, true
		}
	}
	return "", false
}

// GetNode returns a copy of node id.
func (s *Store) GetNode(id string) (*Node, error) {
	for _, name := range s.order {
		if n, ok := s.modules[name].nodes[id]; ok {
			return n.Clone(), nil
		}
	}
	return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
}

// FindNodesByName returns the ids of nodes called name, modules in store
// order and nodes in insertion order.
func (s *Store) FindNodesByName(name string) []string {
	var ids []string
	for _, mod := range s.order {
		m := s.modules[mod]
		for _, id := range m.order {
			if m.nodes[id].Name == name {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// ListModules returns module names in store order.
func (s *Store) ListModules() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// CountNodes counts the nodes of one module, or of all modules when module
// is empty.
func (s *Store) CountNodes(module string) (int, error) {
	if module != "" {
		m, ok := s.modules[module]
		if !ok {
			return 0, fmt.Errorf("module %q: %w", module, ErrNotFound)
		}
		return m.Len(), nil
	}
	total := 0
	for _, m := range s.modules {
		total += m.Len()
	}
	return total, nil
}

// MaxNumericID returns the largest decimal node id across all modules, or 0.
func (s *Store) MaxNumericID() int {
	max := 0
	for _, m := range s.modules {
		for id := range m.nodes {
			if n, err := strconv.Atoi(id); err == nil && n > max {
				max = n
			}
		}
	}
	return max
}

// Stats summarizes one module.
type Stats struct {
	Module      string `json:"module"`
	Nodes       int    `json:"nodes"`
	Connections int    `json:"connections"`
	Points      int    `json:"points"`
}

// Stats returns per-module counts in store order.
func (s *Store) Stats() []Stats {
	out := make([]Stats, 0, len(s.order))
	for _, name := range s.order {
		m := s.modules[name]
		st := Stats{Module: name, Nodes: m.Len()}
		for _, n := range m.nodes {
			for _, p := range n.Outputs {
				st.Connections += len(p.links())
				for _, l := range p.links() {
					st.Points += len(l.Points)
				}
			}
		}
		out = append(out, st)
	}
	return out
}
