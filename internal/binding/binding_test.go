package binding_test

import (
	"reflect"
	"testing"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/binding"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

func mount(t *testing.T, markup string) *scene.Element {
	t.Helper()
	s := scene.New()
	root := s.NewElement("div", scene.ClassContent)
	els, err := s.Parse(markup)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	for _, e := range els {
		root.Append(e)
	}
	return root
}

func TestPaths(t *testing.T) {
	data := map[string]interface{}{
		"name": "x",
		"address": map[string]interface{}{
			"city": "Pune",
			"geo":  map[string]interface{}{"lat": 18.5},
		},
	}
	got := binding.Paths(data)
	want := []string{"df-address-city", "df-address-geo-lat", "df-name"}
	if len(got) != len(want) {
		t.Fatalf("got %d paths, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.Attr() != want[i] {
			t.Errorf("path[%d] = %s, want %s", i, p.Attr(), want[i])
		}
	}
}

func TestApply(t *testing.T) {
	root := mount(t, `<input df-name><input df-address-city><p df-note contenteditable></p><input df-count>`)
	data := map[string]interface{}{
		"name":    "Ada",
		"address": map[string]interface{}{"city": "Pune"},
		"note":    "hello",
		"count":   float64(3),
	}
	binds := binding.Resolve(root, data)
	binding.Apply(binds, data)

	cases := []struct{ attr, want string }{
		{"df-name", "Ada"},
		{"df-address-city", "Pune"},
		{"df-count", "3"},
	}
	for _, c := range cases {
		t.Run(c.attr, func(t *testing.T) {
			f := root.QueryAttr(c.attr)
			if len(f) != 1 || f[0].Value != c.want {
				t.Errorf("%s = %+v, want %q", c.attr, f, c.want)
			}
		})
	}
	note := root.QueryAttr("df-note")[0]
	if note.TextContent() != "hello" {
		t.Errorf("contenteditable text = %q", note.TextContent())
	}
}

func TestWriteBack_CreatesIntermediateObjects(t *testing.T) {
	root := mount(t, `<input df-a-b-c>`)
	field := root.QueryAttr("df-a-b-c")[0]
	field.Value = "v"
	data := map[string]interface{}{"a": "scalar"}

	written := binding.WriteBack(nil, field, data)
	if len(written) != 1 || written[0].String() != "a.b.c" {
		t.Fatalf("written = %v", written)
	}
	got, ok := binding.Lookup(data, binding.Path{"a", "b", "c"})
	if !ok || got != "v" {
		t.Errorf("lookup = %v, %v", got, ok)
	}
}

func TestWriteBack_UsesResolvedPath(t *testing.T) {
	root := mount(t, `<div><input df-first-name><input df-last-name></div>`)
	data := map[string]interface{}{"first-name": "Ada"}
	binds := binding.Resolve(root, data)
	binding.Apply(binds, data)

	first := root.QueryAttr("df-first-name")[0]
	if first.Value != "Ada" {
		t.Fatalf("displayed %q", first.Value)
	}
	first.Value = "Grace"
	written := binding.WriteBack(binds, first, data)
	if len(written) != 1 || written[0].String() != "first-name" {
		t.Fatalf("written = %v", written)
	}
	want := map[string]interface{}{"first-name": "Grace"}
	if !reflect.DeepEqual(data, want) {
		t.Errorf("data = %v, want %v", data, want)
	}

	// No data key owns df-last-name, so its attribute name is the path.
	last := root.QueryAttr("df-last-name")[0]
	last.Value = "Lovelace"
	binding.WriteBack(binds, last, data)
	if got, _ := binding.Lookup(data, binding.Path{"last", "name"}); got != "Lovelace" {
		t.Errorf("fallback path = %v", got)
	}
}

func TestParseAttr(t *testing.T) {
	if _, ok := binding.ParseAttr("class"); ok {
		t.Error("class should not parse")
	}
	if _, ok := binding.ParseAttr("df-"); ok {
		t.Error("bare prefix should not parse")
	}
	p, ok := binding.ParseAttr("df-x-y")
	if !ok || len(p) != 2 {
		t.Errorf("ParseAttr = %v, %v", p, ok)
	}
}
