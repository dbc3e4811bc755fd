package graph

import (
	"fmt"
	"math"
	"strings"
)

// Validate checks that every connection record of s has a peer node, a peer
// port and a mirror record on that peer, and that positions are finite. A
// record may not point back at its own node or repeat within its port. All
// problems are reported in one ErrMalformedImport error.
func Validate(s *Store) error {
	var errs []string
	for _, mod := range s.order {
		m := s.modules[mod]
		for _, id := range m.order {
			n := m.nodes[id]
			loc := fmt.Sprintf("%s/%s", mod, id)
			if math.IsNaN(n.PosX) || math.IsInf(n.PosX, 0) || math.IsNaN(n.PosY) || math.IsInf(n.PosY, 0) {
				errs = append(errs, fmt.Sprintf("%s: position is not finite", loc))
			}
			for _, port := range n.OutputNames() {
				seen := make(map[Conn]bool)
				for _, l := range n.Outputs[port].links() {
					c := Conn{OutputID: id, OutputPort: port, InputID: l.Node, InputPort: l.Input}
					if seen[c] {
						errs = append(errs, fmt.Sprintf("%s.%s: duplicate record for %s.%s", loc, port, l.Node, l.Input))
						continue
					}
					seen[c] = true
					if l.Node == id {
						errs = append(errs, fmt.Sprintf("%s.%s: connects to its own node", loc, port))
						continue
					}
					peer, ok := m.nodes[l.Node]
					if !ok {
						errs = append(errs, fmt.Sprintf("%s.%s: peer node %q missing", loc, port, l.Node))
						continue
					}
					in, ok := peer.Inputs[l.Input]
					if !ok {
						errs = append(errs, fmt.Sprintf("%s.%s: peer port %s.%s missing", loc, port, l.Node, l.Input))
						continue
					}
					if inIndex(in, c) < 0 {
						errs = append(errs, fmt.Sprintf("%s.%s: no mirror record on %s.%s", loc, port, l.Node, l.Input))
					}
				}
			}
			for _, port := range n.InputNames() {
				seen := make(map[Conn]bool)
				for _, l := range n.Inputs[port].links() {
					c := Conn{OutputID: l.Node, OutputPort: l.Output, InputID: id, InputPort: port}
					if seen[c] {
						errs = append(errs, fmt.Sprintf("%s.%s: duplicate record for %s.%s", loc, port, l.Node, l.Output))
						continue
					}
					seen[c] = true
					if l.Node == id {
						errs = append(errs, fmt.Sprintf("%s.%s: connects to its own node", loc, port))
						continue
					}
					peer, ok := m.nodes[l.Node]
					if !ok {
						errs = append(errs, fmt.Sprintf("%s.%s: peer node %q missing", loc, port, l.Node))
						continue
					}
					out, ok := peer.Outputs[l.Output]
					if !ok {
						errs = append(errs, fmt.Sprintf("%s.%s: peer port %s.%s missing", loc, port, l.Node, l.Output))
						continue
					}
					if outIndex(out, c) < 0 {
						errs = append(errs, fmt.Sprintf("%s.%s: no mirror record on %s.%s", loc, port, l.Node, l.Output))
					}
				}
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrMalformedImport, strings.Join(errs, "\n  - "))
	}
	return nil
}
