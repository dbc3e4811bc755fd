package graph

// CloneValue deep-copies a JSON-compatible value (maps, slices, scalars).
func CloneValue(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		return CloneData(x)
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = CloneValue(e)
		}
		return out
	default:
		return x
	}
}

// CloneData deep-copies a node's custom data.
func CloneData(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	c := *n
	c.Data = CloneData(n.Data)
	c.Inputs = make(map[string]*InputPort, len(n.Inputs))
	for k, p := range n.Inputs {
		links := make([]InLink, len(p.links()))
		copy(links, p.links())
		c.Inputs[k] = &InputPort{Connections: links}
	}
	c.Outputs = make(map[string]*OutputPort, len(n.Outputs))
	for k, p := range n.Outputs {
		links := make([]OutLink, len(p.links()))
		for i, l := range p.links() {
			links[i] = OutLink{Node: l.Node, Input: l.Input}
			if l.Points != nil {
				links[i].Points = make([]Point, len(l.Points))
				copy(links[i].Points, l.Points)
			}
		}
		c.Outputs[k] = &OutputPort{Connections: links}
	}
	return &c
}

// Clone returns a deep copy of m.
func (m *Module) Clone() *Module {
	c := &Module{order: make([]string, len(m.order)), nodes: make(map[string]*Node, len(m.nodes))}
	copy(c.order, m.order)
	for k, n := range m.nodes {
		c.nodes[k] = n.Clone()
	}
	return c
}

// Clone returns a deep copy of s.
func (s *Store) Clone() *Store {
	c := &Store{order: make([]string, len(s.order)), modules: make(map[string]*Module, len(s.modules))}
	copy(c.order, s.order)
	for k, m := range s.modules {
		c.modules[k] = m.Clone()
	}
	return c
}
