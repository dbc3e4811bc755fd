package graph

import "fmt"

// NewNode builds a record with numIn inputs and numOut outputs named
// input_1..input_numIn and output_1..output_numOut.
func NewNode(id, name string, numIn, numOut int, x, y float64) *Node {
	n := &Node{
		ID:      id,
		Name:    name,
		Data:    map[string]interface{}{},
		Inputs:  make(map[string]*InputPort, numIn),
		Outputs: make(map[string]*OutputPort, numOut),
		PosX:    x,
		PosY:    y,
	}
	for i := 1; i <= numIn; i++ {
		n.Inputs[PortName(Input, i)] = &InputPort{Connections: []InLink{}}
	}
	for i := 1; i <= numOut; i++ {
		n.Outputs[PortName(Output, i)] = &OutputPort{Connections: []OutLink{}}
	}
	return n
}

// AddPort appends the next-numbered port to id. The number is the current
// port count plus one; gaps left by removals are not refilled, and a number
// that is still taken is skipped.
func (m *Module) AddPort(id string, dir Direction) (string, error) {
	n, ok := m.nodes[id]
	if !ok {
		return "", fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	switch dir {
	case Input:
		name := nextFree(Input, len(n.Inputs)+1, func(k string) bool { _, ok := n.Inputs[k]; return ok })
		n.Inputs[name] = &InputPort{Connections: []InLink{}}
		return name, nil
	case Output:
		name := nextFree(Output, len(n.Outputs)+1, func(k string) bool { _, ok := n.Outputs[k]; return ok })
		n.Outputs[name] = &OutputPort{Connections: []OutLink{}}
		return name, nil
	}
	return "", fmt.Errorf("%w: unknown port direction %q", ErrInvalidOperation, dir)
}

func nextFree(dir Direction, start int, taken func(string) bool) string {
	for i := start; ; i++ {
		if name := PortName(dir, i); !taken(name) {
			return name
		}
	}
}

// DeletePort drops an unconnected port. Callers unlink its connections first.
func (m *Module) DeletePort(id string, dir Direction, port string) error {
	n, ok := m.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	switch dir {
	case Input:
		p, ok := n.Inputs[port]
		if !ok {
			return fmt.Errorf("node %s port %s: %w", id, port, ErrNotFound)
		}
		if len(p.links()) > 0 {
			return fmt.Errorf("%w: port %s of node %s still has connections", ErrInvalidOperation, port, id)
		}
		delete(n.Inputs, port)
	case Output:
		p, ok := n.Outputs[port]
		if !ok {
			return fmt.Errorf("node %s port %s: %w", id, port, ErrNotFound)
		}
		if len(p.links()) > 0 {
			return fmt.Errorf("%w: port %s of node %s still has connections", ErrInvalidOperation, port, id)
		}
		delete(n.Outputs, port)
	default:
		return fmt.Errorf("%w: unknown port direction %q", ErrInvalidOperation, dir)
	}
	return nil
}
