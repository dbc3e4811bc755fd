// Package content mounts node body content into the scene. Literal markup
// is parsed directly; registered templates and externally rendered
// components are reached through the Provider capability.
package content

import (
	"fmt"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

// Props is what a provider receives when mounting a node body.
type Props struct {
	NodeID string
	Data   map[string]interface{}
	// Extra carries template props and options registered with the template.
	Extra   map[string]interface{}
	Options map[string]interface{}
}

// Handle is a mounted body. Elements are the top-level scene elements the
// provider produced; the editor appends them under the node's content box.
type Handle struct {
	Key      string
	Elements []*scene.Element

	provider Provider
}

// NewHandle is how a provider outside this package builds its handle.
func NewHandle(key string, elements []*scene.Element, p Provider) *Handle {
	return &Handle{Key: key, Elements: elements, provider: p}
}

// Unmount releases h through the provider that mounted it.
func (h *Handle) Unmount() {
	if h == nil || h.provider == nil {
		return
	}
	h.provider.Unmount(h)
}

// Provider is the capability that renders a node body.
type Provider interface {
	Mount(sc *scene.Scene, key string, props Props) (*Handle, error)
	Unmount(h *Handle)
}

// Literal mounts the key itself as markup.
type Literal struct{}

func (Literal) Mount(sc *scene.Scene, markup string, _ Props) (*Handle, error) {
	els, err := sc.Parse(markup)
	if err != nil {
		return nil, fmt.Errorf("parse node markup: %w", err)
	}
	return &Handle{Key: markup, Elements: els, provider: Literal{}}, nil
}

func (Literal) Unmount(h *Handle) {
	for _, e := range h.Elements {
		e.Remove()
	}
	h.Elements = nil
}

// Placeholder stands in for a component framework nobody registered: it
// mounts an empty element naming the component so the node keeps its box.
type Placeholder struct {
	Tag string
}

func (p Placeholder) Mount(sc *scene.Scene, key string, props Props) (*Handle, error) {
	e := sc.NewElement("div", "component")
	e.SetAttr("data-component", key)
	e.SetAttr("data-provider", p.Tag)
	return &Handle{Key: key, Elements: []*scene.Element{e}, provider: p}, nil
}

func (p Placeholder) Unmount(h *Handle) {
	Literal{}.Unmount(h)
}
