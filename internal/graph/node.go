package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Point is a reroute point in canvas space.
type Point struct {
	X float64 `json:"pos_x"`
	Y float64 `json:"pos_y"`
}

// OutLink is the output-side copy of a connection: it names the target node,
// the target's input port and the ordered reroute points of the edge.
type OutLink struct {
	Node   string  `json:"node"`
	Input  string  `json:"output"`
	Points []Point `json:"points,omitempty"`
}

// InLink is the input-side copy of a connection: it names the source node and
// the source's output port.
type InLink struct {
	Node   string `json:"node"`
	Output string `json:"input"`
}

// OutputPort holds the connections leaving one output port.
type OutputPort struct {
	Connections []OutLink `json:"connections"`
}

// InputPort holds the connections arriving at one input port.
type InputPort struct {
	Connections []InLink `json:"connections"`
}

// links is nil-safe: a port decoded from null has no records.
func (p *OutputPort) links() []OutLink {
	if p == nil {
		return nil
	}
	return p.Connections
}

func (p *InputPort) links() []InLink {
	if p == nil {
		return nil
	}
	return p.Connections
}

// ContentKind tells how a node's html field is turned into content.
type ContentKind int

const (
	ContentLiteral   ContentKind = iota // html is literal markup
	ContentTemplate                     // html names a registered template
	ContentComponent                    // html is handed to an external provider
)

// TypeNode is the serialized "typenode" field: false, true, or any other
// truthy value naming the provider that renders the component.
type TypeNode struct {
	Kind ContentKind
	// Provider is set for ContentComponent.
	Provider string
}

// MarshalJSON writes false, true or the provider tag.
func (t TypeNode) MarshalJSON() ([]byte, error) {
	switch t.Kind {
	case ContentTemplate:
		return []byte("true"), nil
	case ContentComponent:
		return json.Marshal(t.Provider)
	default:
		return []byte("false"), nil
	}
}

// UnmarshalJSON accepts booleans, strings and numbers.
func (t *TypeNode) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case nil:
		*t = TypeNode{}
	case bool:
		if x {
			*t = TypeNode{Kind: ContentTemplate}
		} else {
			*t = TypeNode{}
		}
	case string:
		if x == "" {
			*t = TypeNode{}
			return nil
		}
		*t = TypeNode{Kind: ContentComponent, Provider: x}
	case float64:
		if x == 0 {
			*t = TypeNode{}
			return nil
		}
		*t = TypeNode{Kind: ContentComponent, Provider: strconv.FormatFloat(x, 'f', -1, 64)}
	default:
		return fmt.Errorf("typenode: unsupported value %s", string(b))
	}
	return nil
}

// Node is one record of a module.
type Node struct {
	ID       string                 `json:"-"`
	Name     string                 `json:"name"`
	Data     map[string]interface{} `json:"data"`
	Class    string                 `json:"class"`
	HTML     string                 `json:"html"`
	TypeNode TypeNode               `json:"typenode"`
	Inputs   map[string]*InputPort  `json:"inputs"`
	Outputs  map[string]*OutputPort `json:"outputs"`
	PosX     float64                `json:"pos_x"`
	PosY     float64                `json:"pos_y"`
}

// nodeAlias drops the methods of Node so the custom codec can reuse the tags.
type nodeAlias Node

type nodeWire struct {
	ID json.RawMessage `json:"id"`
	*nodeAlias
}

// MarshalJSON writes the id as a number when it is a decimal integer.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeWire{ID: encodeID(n.ID), nodeAlias: (*nodeAlias)(n)})
}

// UnmarshalJSON reads the id from either a number or a string.
func (n *Node) UnmarshalJSON(b []byte) error {
	w := nodeWire{nodeAlias: (*nodeAlias)(n)}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	id, err := decodeID(w.ID)
	if err != nil {
		return err
	}
	n.ID = id
	if n.Data == nil {
		n.Data = map[string]interface{}{}
	}
	if n.Inputs == nil {
		n.Inputs = map[string]*InputPort{}
	}
	if n.Outputs == nil {
		n.Outputs = map[string]*OutputPort{}
	}
	for k, p := range n.Inputs {
		if p == nil {
			n.Inputs[k] = &InputPort{Connections: []InLink{}}
		}
	}
	for k, p := range n.Outputs {
		if p == nil {
			n.Outputs[k] = &OutputPort{Connections: []OutLink{}}
		}
	}
	return nil
}

func encodeID(id string) json.RawMessage {
	if _, err := strconv.ParseUint(id, 10, 64); err == nil && (id == "0" || !strings.HasPrefix(id, "0")) {
		return json.RawMessage(id)
	}
	b, _ := json.Marshal(id)
	return b
}

func decodeID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return "", fmt.Errorf("node id: %w", err)
	}
	if _, err := strconv.ParseUint(num.String(), 10, 64); err == nil {
		return num.String(), nil
	}
	f, err := num.Float64()
	if err != nil {
		return "", fmt.Errorf("node id: %w", err)
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// InputNames returns the input port names in port order.
func (n *Node) InputNames() []string {
	names := make([]string, 0, len(n.Inputs))
	for k := range n.Inputs {
		names = append(names, k)
	}
	SortPorts(names)
	return names
}

// OutputNames returns the output port names in port order.
func (n *Node) OutputNames() []string {
	names := make([]string, 0, len(n.Outputs))
	for k := range n.Outputs {
		names = append(names, k)
	}
	SortPorts(names)
	return names
}

// PortNumber extracts n from "input_<n>" / "output_<n>"; ok is false for
// names that do not follow the pattern.
func PortNumber(name string) (int, bool) {
	i := strings.LastIndexByte(name, '_')
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(name[i+1:])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortPorts orders port names by their sequence number. Names without a
// number sort after numbered ones, lexically.
func SortPorts(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		a, aok := PortNumber(names[i])
		b, bok := PortNumber(names[j])
		switch {
		case aok && bok:
			if a != b {
				return a < b
			}
			return names[i] < names[j]
		case aok:
			return true
		case bok:
			return false
		}
		return names[i] < names[j]
	})
}

// PortName builds "input_<n>" or "output_<n>".
func PortName(dir Direction, n int) string {
	return string(dir) + "_" + strconv.Itoa(n)
}

// Direction selects a node's input or output side.
type Direction string

const (
	Input  Direction = "input"
	Output Direction = "output"
)

// ParseDirection accepts "input"/"inputs" and "output"/"outputs".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "input", "inputs", "in":
		return Input, nil
	case "output", "outputs", "out":
		return Output, nil
	}
	return "", fmt.Errorf("%w: unknown port direction %q", ErrInvalidOperation, s)
}
