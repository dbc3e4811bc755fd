// Package editor is the node-graph editor core. It keeps three things in
// step: the graph store, the scene projected from the active module, and
// the pointer-driven interaction session that mediates every edit.
package editor

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/content"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/event"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/render"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

var (
	// ErrActive is returned when options are changed after Start.
	ErrActive = errors.New("editor already started")
	// ErrNotStarted is returned by operations that need a started editor.
	ErrNotStarted = errors.New("editor not started")
	// ErrReadOnly is returned for edits outside edit mode.
	ErrReadOnly = errors.New("editor mode does not allow edits")
)

// env is what every manager shares: the store, the scene and the session.
type env struct {
	store *graph.Store
	sc    *scene.Scene
	sess  *Session
	bus   *event.Bus
	opts  *Options
	log   *slog.Logger
}

// module returns the active module.
func (d *env) module() *graph.Module {
	m, ok := d.store.Module(d.sess.Module)
	if !ok {
		// the active module always exists; recreate it rather than panic
		d.store.ResetModule(d.sess.Module)
		m, _ = d.store.Module(d.sess.Module)
	}
	return m
}

func (d *env) curvature() render.Curvature {
	return render.Curvature{
		Plain:           d.opts.Curvature,
		Reroute:         d.opts.RerouteCurvature,
		RerouteStartEnd: d.opts.RerouteCurvatureStartEnd,
	}
}

// Editor is one graph editor. It is not safe for concurrent use; the
// engine package serializes access per session.
type Editor struct {
	opts     Options
	started  bool
	env      *env
	registry *content.Registry
	nodes    *nodeManager
	conns    *connManager
}

// Option customizes New.
type Option func(*Editor)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Editor) { e.env.log = l }
}

// WithRegistry shares a content registry between editors.
func WithRegistry(r *content.Registry) Option {
	return func(e *Editor) { e.registry = r }
}

// New creates an editor holding an empty Home module. Options may still be
// changed with Configure until Start.
func New(opts Options, extra ...Option) *Editor {
	e := &Editor{opts: opts}
	e.env = &env{
		store: graph.NewStore(),
		sc:    scene.New(),
		sess:  newSession(opts.Mode),
		bus:   event.NewBus(),
		opts:  &e.opts,
		log:   slog.Default(),
	}
	for _, o := range extra {
		o(e)
	}
	if e.registry == nil {
		e.registry = content.NewRegistry()
	}
	e.conns = &connManager{env: e.env}
	e.nodes = &nodeManager{env: e.env, conns: e.conns, registry: e.registry, mounts: make(map[string]*mounted)}
	return e
}

// Configure edits the options before Start.
func (e *Editor) Configure(fn func(*Options)) error {
	if e.started {
		return ErrActive
	}
	fn(&e.opts)
	return nil
}

// Options returns a copy of the current options.
func (e *Editor) Options() Options { return e.opts }

// Start validates the options and activates the editor.
func (e *Editor) Start() error {
	if e.started {
		return ErrActive
	}
	if err := e.opts.Validate(); err != nil {
		return err
	}
	e.env.sess.Mode = e.opts.Mode
	e.started = true
	e.render()
	return nil
}

// Started reports whether Start succeeded.
func (e *Editor) Started() bool { return e.started }

// Bus returns the event bus.
func (e *Editor) Bus() *event.Bus { return e.env.bus }

// On subscribes to a named event.
func (e *Editor) On(name string, fn event.Listener) event.Token {
	return e.env.bus.On(name, fn)
}

// Off removes a subscription.
func (e *Editor) Off(name string, tok event.Token) bool {
	return e.env.bus.Off(name, tok)
}

// Scene returns the projected element tree. Callers must not modify it.
func (e *Editor) Scene() *scene.Scene { return e.env.sc }

// Session returns a copy of the interaction state.
func (e *Editor) Session() Session { return *e.env.sess }

// Registry returns the content registry.
func (e *Editor) Registry() *content.Registry { return e.registry }

// Mode returns the current mode.
func (e *Editor) Mode() Mode { return e.env.sess.Mode }

// SetMode switches mode at runtime. Any gesture in progress is dropped.
func (e *Editor) SetMode(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	e.cancelGesture()
	e.env.sess.Mode = m
	e.opts.Mode = m
	return nil
}

func (e *Editor) editable() error {
	if !e.started {
		return ErrNotStarted
	}
	if e.env.sess.Mode != ModeEdit {
		return fmt.Errorf("%w: mode is %s", ErrReadOnly, e.env.sess.Mode)
	}
	return nil
}

func (e *Editor) emit(name string, payload interface{}) {
	e.env.bus.Dispatch(name, payload)
}

// cancelGesture removes transient visuals and clears gesture flags.
func (e *Editor) cancelGesture() {
	s := e.env.sess
	if s.Draft != nil {
		s.Draft.Remove()
	}
	if s.Snap != nil {
		s.Snap.RemoveClass(ClassHighlight)
	}
	if s.Interaction == DragPoint && s.Active != nil {
		s.Active.RemoveClass(scene.ClassSelected)
	}
	s.resetGesture()
}

// render rebuilds the scene from the active module.
func (e *Editor) render() {
	d := e.env
	e.cancelGesture()
	d.sess.SelectedNode = nil
	d.sess.SelectedConnection = nil
	d.sess.Glyph = nil
	d.sess.FirstClick = nil
	e.nodes.unmountAll()
	d.sc.Reset()

	m := d.module()
	for _, id := range m.IDs() {
		n, _ := m.Node(id)
		e.nodes.importNode(n)
	}
	for _, id := range m.IDs() {
		n, _ := m.Node(id)
		for _, p := range n.OutputNames() {
			for _, l := range n.Outputs[p].Connections {
				e.conns.draw(graph.Conn{OutputID: id, OutputPort: p, InputID: l.Node, InputPort: l.Input})
			}
		}
	}
	for _, id := range m.IDs() {
		e.conns.refresh(id)
	}
}

// syncCounter keeps sequential ids ahead of every numeric id in the store.
func (e *Editor) syncCounter() {
	if next := e.env.store.MaxNumericID() + 1; next > e.env.sess.NextID {
		e.env.sess.NextID = next
	}
}
