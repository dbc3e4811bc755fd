package content

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

// Template is a registered node body.
type Template struct {
	Name    string
	HTML    string
	Props   map[string]interface{}
	Options map[string]interface{}
}

// Registry maps template names to bodies and component framework tags to
// their providers. Safe for concurrent use; several editors share one.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
	providers map[string]Provider
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		templates: make(map[string]Template),
		providers: make(map[string]Provider),
	}
}

// Register adds or replaces a template.
func (r *Registry) Register(t Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.Name] = t
}

// Template returns the template registered as name.
func (r *Registry) Template(name string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[name]
	if !ok {
		return Template{}, fmt.Errorf("template %q: %w", name, graph.ErrNotFound)
	}
	return t, nil
}

// Names returns registered template names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.templates))
}

// RegisterProvider binds a component framework tag. Panics on duplicate tag
// to surface misconfiguration early.
func (r *Registry) RegisterProvider(tag string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[tag]; exists {
		panic(fmt.Sprintf("content registry: duplicate provider %q", tag))
	}
	r.providers[tag] = p
}

// ProviderFor returns the provider that renders content of the given kind.
// Templates resolve through the registry itself; components through the
// provider registered for their tag, or a Placeholder.
func (r *Registry) ProviderFor(t graph.TypeNode) Provider {
	switch t.Kind {
	case graph.ContentTemplate:
		return templateProvider{r}
	case graph.ContentComponent:
		r.mu.RLock()
		p, ok := r.providers[t.Provider]
		r.mu.RUnlock()
		if ok {
			return p
		}
		return Placeholder{Tag: t.Provider}
	}
	return Literal{}
}

// Mount renders the body of n.
func (r *Registry) Mount(sc *scene.Scene, n *graph.Node) (*Handle, error) {
	props := Props{NodeID: n.ID, Data: n.Data}
	if n.TypeNode.Kind != graph.ContentLiteral {
		if t, err := r.Template(n.HTML); err == nil {
			props.Extra = t.Props
			props.Options = t.Options
		}
	}
	return r.ProviderFor(n.TypeNode).Mount(sc, n.HTML, props)
}

type templateProvider struct {
	r *Registry
}

func (p templateProvider) Mount(sc *scene.Scene, key string, props Props) (*Handle, error) {
	t, err := p.r.Template(key)
	if err != nil {
		return nil, err
	}
	h, err := Literal{}.Mount(sc, t.HTML, props)
	if err != nil {
		return nil, err
	}
	h.Key = key
	h.provider = p
	return h, nil
}

func (templateProvider) Unmount(h *Handle) {
	Literal{}.Unmount(h)
}
