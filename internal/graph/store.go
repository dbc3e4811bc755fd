package graph

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// HomeModule always exists after construction and after Clear.
const HomeModule = "Home"

// Module is one named canvas: an insertion-ordered set of nodes.
type Module struct {
	order []string
	nodes map[string]*Node
}

// NewModule returns an empty module.
func NewModule() *Module {
	return &Module{nodes: make(map[string]*Node)}
}

// Node returns the live record for id.
func (m *Module) Node(id string) (*Node, bool) {
	n, ok := m.nodes[id]
	return n, ok
}

// IDs returns node ids in insertion order.
func (m *Module) IDs() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Len returns the number of nodes.
func (m *Module) Len() int { return len(m.order) }

// put inserts or replaces n, keeping the original position on replace.
func (m *Module) put(n *Node) {
	if _, exists := m.nodes[n.ID]; !exists {
		m.order = append(m.order, n.ID)
	}
	m.nodes[n.ID] = n
}

func (m *Module) delete(id string) {
	if _, ok := m.nodes[id]; !ok {
		return
	}
	delete(m.nodes, id)
	for i, k := range m.order {
		if k == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// MarshalJSON writes {"data": {...}} with nodes in insertion order.
func (m *Module) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"data":{`)
	for i, id := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(id)
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(m.nodes[id])
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", id, err)
		}
		buf.Write(v)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON reads {"data": {...}} preserving node key order.
func (m *Module) UnmarshalJSON(b []byte) error {
	var wire struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	*m = Module{nodes: make(map[string]*Node)}
	if len(wire.Data) == 0 || string(wire.Data) == "null" {
		return nil
	}
	return decodeOrdered(wire.Data, func(key string, raw json.RawMessage) error {
		if string(raw) == "null" {
			return fmt.Errorf("%w: node %q is null", ErrMalformedImport, key)
		}
		n := &Node{}
		if err := json.Unmarshal(raw, n); err != nil {
			return fmt.Errorf("node %s: %w", key, err)
		}
		if n.ID == "" {
			n.ID = key
		}
		if n.ID != key {
			return fmt.Errorf("%w: node key %q holds id %q", ErrMalformedImport, key, n.ID)
		}
		m.put(n)
		return nil
	})
}

// Store maps module names to modules. It is the single source of truth of
// an editor; readers outside the editor only ever receive copies.
type Store struct {
	order   []string
	modules map[string]*Module
}

// NewStore returns a store holding only the Home module.
func NewStore() *Store {
	s := &Store{modules: make(map[string]*Module)}
	s.AddModule(HomeModule)
	return s
}

// Module returns the live module named name.
func (s *Store) Module(name string) (*Module, bool) {
	m, ok := s.modules[name]
	return m, ok
}

// HasModule reports whether name exists.
func (s *Store) HasModule(name string) bool {
	_, ok := s.modules[name]
	return ok
}

// AddModule creates an empty module. It returns false when name exists.
func (s *Store) AddModule(name string) bool {
	if _, ok := s.modules[name]; ok {
		return false
	}
	s.modules[name] = NewModule()
	s.order = append(s.order, name)
	return true
}

// RemoveModule deletes name and all of its nodes.
func (s *Store) RemoveModule(name string) bool {
	if _, ok := s.modules[name]; !ok {
		return false
	}
	delete(s.modules, name)
	for i, k := range s.order {
		if k == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// ResetModule empties name, creating it when missing.
func (s *Store) ResetModule(name string) {
	if _, ok := s.modules[name]; !ok {
		s.AddModule(name)
		return
	}
	s.modules[name] = NewModule()
}

// Replace swaps the whole content of s for other's.
func (s *Store) Replace(other *Store) {
	s.order = other.order
	s.modules = other.modules
	if !s.HasModule(HomeModule) {
		s.AddModule(HomeModule)
	}
}

// Clear drops every module and recreates Home.
func (s *Store) Clear() {
	s.order = nil
	s.modules = make(map[string]*Module)
	s.AddModule(HomeModule)
}

// PutNode stores n in module. Only the lifecycle managers call this.
func (s *Store) PutNode(module string, n *Node) error {
	m, ok := s.modules[module]
	if !ok {
		return fmt.Errorf("module %q: %w", module, ErrNotFound)
	}
	m.put(n)
	return nil
}

// DeleteNode removes the record only; connections must already be gone.
func (s *Store) DeleteNode(module, id string) {
	if m, ok := s.modules[module]; ok {
		m.delete(id)
	}
}

type storeWire struct {
	Drawflow json.RawMessage `json:"drawflow"`
}

// MarshalJSON writes {"drawflow": {module: {"data": {...}}}}.
func (s *Store) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"drawflow":{`)
	for i, name := range s.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, _ := json.Marshal(name)
		buf.Write(k)
		buf.WriteByte(':')
		v, err := s.modules[name].MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("module %s: %w", name, err)
		}
		buf.Write(v)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the serialized graph preserving module order. It does
// not check connection references; see Validate.
func (s *Store) UnmarshalJSON(b []byte) error {
	var wire storeWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	if len(wire.Drawflow) == 0 || string(wire.Drawflow) == "null" {
		return fmt.Errorf("%w: missing \"drawflow\" key", ErrMalformedImport)
	}
	*s = Store{modules: make(map[string]*Module)}
	return decodeOrdered(wire.Drawflow, func(key string, raw json.RawMessage) error {
		m := &Module{}
		if err := json.Unmarshal(raw, m); err != nil {
			return fmt.Errorf("module %s: %w", key, err)
		}
		if _, dup := s.modules[key]; !dup {
			s.order = append(s.order, key)
		}
		s.modules[key] = m
		return nil
	})
}

// Decode parses and validates a serialized graph.
func Decode(data []byte) (*Store, error) {
	s := &Store{}
	if err := json.Unmarshal(data, s); err != nil {
		if isMalformed(err) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	if !s.HasModule(HomeModule) {
		s.AddModule(HomeModule)
	}
	return s, nil
}

func isMalformed(err error) bool {
	return errors.Is(err, ErrMalformedImport)
}

// decodeOrdered walks a JSON object calling fn for each member in document
// order.
func decodeOrdered(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
