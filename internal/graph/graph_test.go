package graph_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
)

func twoNodes(t *testing.T) (*graph.Store, *graph.Module) {
	t.Helper()
	s := graph.NewStore()
	if err := s.PutNode(graph.HomeModule, graph.NewNode("1", "a", 0, 1, 0, 0)); err != nil {
		t.Fatalf("PutNode: %v", err)
	}
	if err := s.PutNode(graph.HomeModule, graph.NewNode("2", "b", 1, 0, 200, 0)); err != nil {
		t.Fatalf("PutNode: %v", err)
	}
	m, _ := s.Module(graph.HomeModule)
	return s, m
}

func TestLink_WritesBothRecords(t *testing.T) {
	s, m := twoNodes(t)
	c := graph.Conn{OutputID: "1", OutputPort: "output_1", InputID: "2", InputPort: "input_1"}
	if err := m.Link(c); err != nil {
		t.Fatalf("Link: %v", err)
	}
	a, _ := s.GetNode("1")
	b, _ := s.GetNode("2")
	wantOut := []graph.OutLink{{Node: "2", Input: "input_1"}}
	wantIn := []graph.InLink{{Node: "1", Output: "output_1"}}
	if !reflect.DeepEqual(a.Outputs["output_1"].Connections, wantOut) {
		t.Errorf("output side = %+v, want %+v", a.Outputs["output_1"].Connections, wantOut)
	}
	if !reflect.DeepEqual(b.Inputs["input_1"].Connections, wantIn) {
		t.Errorf("input side = %+v, want %+v", b.Inputs["input_1"].Connections, wantIn)
	}
	if err := m.Link(c); !errors.Is(err, graph.ErrInvalidOperation) {
		t.Errorf("duplicate Link err = %v, want ErrInvalidOperation", err)
	}
}

func TestLink_Rejections(t *testing.T) {
	_, m := twoNodes(t)
	cases := []struct {
		name string
		conn graph.Conn
		want error
	}{
		{"self", graph.Conn{OutputID: "1", OutputPort: "output_1", InputID: "1", InputPort: "input_1"}, graph.ErrInvalidOperation},
		{"missing node", graph.Conn{OutputID: "1", OutputPort: "output_1", InputID: "9", InputPort: "input_1"}, graph.ErrNotFound},
		{"missing port", graph.Conn{OutputID: "1", OutputPort: "output_7", InputID: "2", InputPort: "input_1"}, graph.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := m.Link(tc.conn); !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestUnlink_ToleratesMissingSide(t *testing.T) {
	s, m := twoNodes(t)
	c := graph.Conn{OutputID: "1", OutputPort: "output_1", InputID: "2", InputPort: "input_1"}
	if err := m.Link(c); err != nil {
		t.Fatal(err)
	}
	b, _ := m.Node("2")
	b.Inputs["input_1"].Connections = nil
	if !m.Unlink(c) {
		t.Fatal("Unlink reported nothing removed")
	}
	a, _ := s.GetNode("1")
	if len(a.Outputs["output_1"].Connections) != 0 {
		t.Errorf("output side still holds %+v", a.Outputs["output_1"].Connections)
	}
	if m.Unlink(c) {
		t.Error("second Unlink should report false")
	}
}

func TestGetNode_ReturnsCopy(t *testing.T) {
	s, _ := twoNodes(t)
	n, err := s.GetNode("1")
	if err != nil {
		t.Fatal(err)
	}
	n.Name = "changed"
	n.Data["x"] = 1.0
	again, _ := s.GetNode("1")
	if again.Name != "a" || len(again.Data) != 0 {
		t.Errorf("store was mutated through a copy: %+v", again)
	}
	if _, err := s.GetNode("42"); !errors.Is(err, graph.ErrNotFound) {
		t.Errorf("GetNode(42) err = %v, want ErrNotFound", err)
	}
}

func TestFindNodesByName_Order(t *testing.T) {
	s := graph.NewStore()
	s.AddModule("Other")
	_ = s.PutNode(graph.HomeModule, graph.NewNode("3", "email", 0, 0, 0, 0))
	_ = s.PutNode("Other", graph.NewNode("1", "email", 0, 0, 0, 0))
	_ = s.PutNode(graph.HomeModule, graph.NewNode("2", "email", 0, 0, 0, 0))
	_ = s.PutNode(graph.HomeModule, graph.NewNode("4", "slack", 0, 0, 0, 0))
	got := s.FindNodesByName("email")
	want := []string{"3", "2", "1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindNodesByName = %v, want %v", got, want)
	}
	if mod, ok := s.ModuleOf("1"); !ok || mod != "Other" {
		t.Errorf("ModuleOf(1) = %q,%v", mod, ok)
	}
	if _, ok := s.ModuleOf("99"); ok {
		t.Error("ModuleOf(99) should not resolve")
	}
}

func TestAddPort_DoesNotRefillGaps(t *testing.T) {
	_, m := twoNodes(t)
	for i := 0; i < 2; i++ {
		if _, err := m.AddPort("2", graph.Input); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.DeletePort("2", graph.Input, "input_2"); err != nil {
		t.Fatal(err)
	}
	// inputs are now input_1, input_3: count+1 = 3 is taken, so input_4.
	name, err := m.AddPort("2", graph.Input)
	if err != nil {
		t.Fatal(err)
	}
	if name != "input_4" {
		t.Errorf("AddPort = %s, want input_4", name)
	}
	n, _ := m.Node("2")
	if got := n.InputNames(); !reflect.DeepEqual(got, []string{"input_1", "input_3", "input_4"}) {
		t.Errorf("InputNames = %v", got)
	}
}

func TestSortPorts_Numeric(t *testing.T) {
	names := []string{"output_10", "output_2", "custom", "output_1"}
	graph.SortPorts(names)
	want := []string{"output_1", "output_2", "output_10", "custom"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("SortPorts = %v, want %v", names, want)
	}
}

func TestNodeID_Encoding(t *testing.T) {
	cases := []struct {
		in     string
		wantID string
		wantJS string
	}{
		{`{"id": 7, "name": "n"}`, "7", `"id":7`},
		{`{"id": "7", "name": "n"}`, "7", `"id":7`},
		{`{"id": "3f2a-uuid", "name": "n"}`, "3f2a-uuid", `"id":"3f2a-uuid"`},
		{`{"id": "007", "name": "n"}`, "007", `"id":"007"`},
		{`{"id": 12345678901234567890, "name": "n"}`, "12345678901234567890", `"id":12345678901234567890`},
	}
	for _, tc := range cases {
		t.Run(tc.wantID, func(t *testing.T) {
			var n graph.Node
			if err := json.Unmarshal([]byte(tc.in), &n); err != nil {
				t.Fatal(err)
			}
			if n.ID != tc.wantID {
				t.Errorf("ID = %q, want %q", n.ID, tc.wantID)
			}
			out, err := json.Marshal(&n)
			if err != nil {
				t.Fatal(err)
			}
			if !containsStr(string(out), tc.wantJS) {
				t.Errorf("marshal = %s, want it to contain %s", out, tc.wantJS)
			}
		})
	}
}

func TestTypeNode_Codec(t *testing.T) {
	cases := []struct {
		in   string
		kind graph.ContentKind
		out  string
	}{
		{"false", graph.ContentLiteral, "false"},
		{"true", graph.ContentTemplate, "true"},
		{`"vue"`, graph.ContentComponent, `"vue"`},
		{"3", graph.ContentComponent, `"3"`},
	}
	for _, tc := range cases {
		var tn graph.TypeNode
		if err := json.Unmarshal([]byte(tc.in), &tn); err != nil {
			t.Fatalf("%s: %v", tc.in, err)
		}
		if tn.Kind != tc.kind {
			t.Errorf("%s: kind = %v, want %v", tc.in, tn.Kind, tc.kind)
		}
		b, _ := json.Marshal(tn)
		if string(b) != tc.out {
			t.Errorf("%s: marshal = %s, want %s", tc.in, b, tc.out)
		}
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"missing wrapper": `{"Home": {"data": {}}}`,
		"dangling peer": `{"drawflow": {"Home": {"data": {
			"1": {"id": 1, "name": "a", "data": {}, "class": "", "html": "", "typenode": false,
			      "inputs": {}, "outputs": {"output_1": {"connections": [{"node": "9", "output": "input_1"}]}},
			      "pos_x": 0, "pos_y": 0}}}}}`,
		"missing mirror": `{"drawflow": {"Home": {"data": {
			"1": {"id": 1, "name": "a", "data": {}, "class": "", "html": "", "typenode": false,
			      "inputs": {}, "outputs": {"output_1": {"connections": [{"node": "2", "output": "input_1"}]}},
			      "pos_x": 0, "pos_y": 0},
			"2": {"id": 2, "name": "b", "data": {}, "class": "", "html": "", "typenode": false,
			      "inputs": {"input_1": {"connections": []}}, "outputs": {}, "pos_x": 0, "pos_y": 0}}}}}`,
		"duplicate record": `{"drawflow": {"Home": {"data": {
			"1": {"id": 1, "name": "a", "inputs": {},
			      "outputs": {"output_1": {"connections": [{"node": "2", "output": "input_1"}, {"node": "2", "output": "input_1"}]}},
			      "pos_x": 0, "pos_y": 0},
			"2": {"id": 2, "name": "b", "outputs": {},
			      "inputs": {"input_1": {"connections": [{"node": "1", "input": "output_1"}]}}, "pos_x": 0, "pos_y": 0}}}}}`,
		"self loop": `{"drawflow": {"Home": {"data": {
			"1": {"id": 1, "name": "a", "pos_x": 0, "pos_y": 0,
			      "inputs": {"input_1": {"connections": [{"node": "1", "input": "output_1"}]}},
			      "outputs": {"output_1": {"connections": [{"node": "1", "output": "input_1"}]}}}}}}}`,
		"null node":    `{"drawflow": {"Home": {"data": {"1": null}}}}`,
		"key mismatch": `{"drawflow": {"Home": {"data": {"1": {"id": 2, "name": "a"}}}}}`,
		"not json":     `{"drawflow": `,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := graph.Decode([]byte(doc)); !errors.Is(err, graph.ErrMalformedImport) {
				t.Errorf("err = %v, want ErrMalformedImport", err)
			}
		})
	}
}

func TestDecode_NullPort(t *testing.T) {
	doc := `{"drawflow": {"Home": {"data": {
		"1": {"id": 1, "name": "a", "inputs": {"input_1": null}, "outputs": {"output_1": null}, "pos_x": 0, "pos_y": 0}}}}}`
	s, err := graph.Decode([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	n, err := s.GetNode("1")
	if err != nil {
		t.Fatal(err)
	}
	if n.Inputs["input_1"] == nil || n.Outputs["output_1"] == nil {
		t.Fatalf("null ports not replaced: %+v", n)
	}
	m, _ := s.Module(graph.HomeModule)
	if conns := m.ConnsOf("1"); len(conns) != 0 {
		t.Errorf("ConnsOf = %v", conns)
	}
}

func TestDecode_PreservesOrder(t *testing.T) {
	doc := `{"drawflow": {"Zeta": {"data": {}}, "Home": {"data": {
		"9": {"id": 9, "name": "x", "inputs": {}, "outputs": {}, "pos_x": 0, "pos_y": 0},
		"2": {"id": 2, "name": "x", "inputs": {}, "outputs": {}, "pos_x": 0, "pos_y": 0}}}}}`
	s, err := graph.Decode([]byte(doc))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.ListModules(); !reflect.DeepEqual(got, []string{"Zeta", "Home"}) {
		t.Errorf("ListModules = %v", got)
	}
	if got := s.FindNodesByName("x"); !reflect.DeepEqual(got, []string{"9", "2"}) {
		t.Errorf("FindNodesByName = %v", got)
	}
	if s.MaxNumericID() != 9 {
		t.Errorf("MaxNumericID = %d", s.MaxNumericID())
	}
}

// randomStore builds a store from seed using only the public mutators, so
// every connection goes through Link.
func randomStore(seed int64) *graph.Store {
	r := rand.New(rand.NewSource(seed))
	s := graph.NewStore()
	next := 1
	for mi := 0; mi < r.Intn(3); mi++ {
		s.AddModule(fmt.Sprintf("M%d", mi))
	}
	for _, mod := range s.ListModules() {
		m, _ := s.Module(mod)
		var ids []string
		for i := 0; i < r.Intn(6); i++ {
			id := fmt.Sprint(next)
			next++
			n := graph.NewNode(id, fmt.Sprintf("t%d", r.Intn(3)), r.Intn(3), r.Intn(3), float64(r.Intn(800)), float64(r.Intn(600)))
			n.Class = "c"
			n.HTML = "<div>x</div>"
			n.Data = map[string]interface{}{"name": fmt.Sprint(r.Intn(10)), "nested": map[string]interface{}{"v": float64(r.Intn(5))}}
			_ = s.PutNode(mod, n)
			ids = append(ids, id)
		}
		for i := 0; i < r.Intn(8) && len(ids) > 1; i++ {
			a := ids[r.Intn(len(ids))]
			b := ids[r.Intn(len(ids))]
			c := graph.Conn{OutputID: a, OutputPort: "output_1", InputID: b, InputPort: "input_1"}
			if m.Link(c) != nil {
				continue
			}
			for p := 0; p < r.Intn(3); p++ {
				_ = m.InsertPoint(c, p, graph.Point{X: float64(r.Intn(500)), Y: float64(r.Intn(500))})
			}
		}
	}
	return s
}

func paired(s *graph.Store) bool {
	for _, mod := range s.ListModules() {
		m, _ := s.Module(mod)
		for _, id := range m.IDs() {
			for _, c := range m.ConnsOf(id) {
				out, _ := m.Node(c.OutputID)
				in, _ := m.Node(c.InputID)
				if out == nil || in == nil {
					return false
				}
				foundOut, foundIn := 0, 0
				for _, l := range out.Outputs[c.OutputPort].Connections {
					if l.Node == c.InputID && l.Input == c.InputPort {
						foundOut++
					}
				}
				for _, l := range in.Inputs[c.InputPort].Connections {
					if l.Node == c.OutputID && l.Output == c.OutputPort {
						foundIn++
					}
				}
				if foundOut != 1 || foundIn != 1 {
					return false
				}
			}
		}
	}
	return true
}

func TestStoreProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("export then import reproduces the graph", prop.ForAll(
		func(seed int64) bool {
			s := randomStore(seed)
			first, err := json.Marshal(s)
			if err != nil {
				return false
			}
			back, err := graph.Decode(first)
			if err != nil {
				return false
			}
			second, err := json.Marshal(back)
			if err != nil {
				return false
			}
			return string(first) == string(second)
		},
		gen.Int64(),
	))

	properties.Property("link and unlink keep records paired", prop.ForAll(
		func(seed int64) bool {
			s := randomStore(seed)
			if !paired(s) {
				return false
			}
			r := rand.New(rand.NewSource(seed))
			for _, mod := range s.ListModules() {
				m, _ := s.Module(mod)
				for _, id := range m.IDs() {
					for _, c := range m.ConnsOf(id) {
						if r.Intn(2) == 0 {
							m.Unlink(c)
						}
					}
				}
			}
			return paired(s) && graph.Validate(s) == nil
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func containsStr(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
