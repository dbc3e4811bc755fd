package editor

import (
	"fmt"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/event"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
)

// AddModule creates an empty module.
func (e *Editor) AddModule(name string) error {
	if name == "" {
		return fmt.Errorf("%w: module name is required", graph.ErrInvalidOperation)
	}
	if !e.env.store.AddModule(name) {
		return fmt.Errorf("%w: module %q exists", graph.ErrInvalidOperation, name)
	}
	e.emit(event.ModuleCreated, name)
	return nil
}

// ChangeModule shows another module. The viewport resets and the scene is
// rebuilt without an import event.
func (e *Editor) ChangeModule(name string) error {
	if !e.env.store.HasModule(name) {
		return fmt.Errorf("module %q: %w", name, graph.ErrNotFound)
	}
	e.emit(event.ModuleChanged, name)
	e.env.sess.Module = name
	e.env.sess.resetView()
	e.render()
	return nil
}

// RemoveModule deletes a module and its nodes. Removing the shown module
// switches to Home first; Home itself cannot be removed.
func (e *Editor) RemoveModule(name string) error {
	if name == graph.HomeModule {
		return fmt.Errorf("%w: the %s module cannot be removed", graph.ErrInvalidOperation, graph.HomeModule)
	}
	if !e.env.store.HasModule(name) {
		return fmt.Errorf("module %q: %w", name, graph.ErrNotFound)
	}
	if e.env.sess.Module == name {
		if err := e.ChangeModule(graph.HomeModule); err != nil {
			return err
		}
	}
	e.env.store.RemoveModule(name)
	e.emit(event.ModuleRemoved, name)
	return nil
}

// ActiveModule returns the shown module's name.
func (e *Editor) ActiveModule() string { return e.env.sess.Module }

// ClearModuleSelected empties the shown module only.
func (e *Editor) ClearModuleSelected() {
	e.env.store.ResetModule(e.env.sess.Module)
	e.render()
}

// Clear drops every module and shows an empty Home. The id counter is kept.
func (e *Editor) Clear() {
	e.env.store.Clear()
	e.env.sess.Module = graph.HomeModule
	e.render()
}
