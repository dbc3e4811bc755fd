package editor

import "github.com/gyaneshwarpardhi/flowcanvas/internal/event"

// ZoomIn raises zoom by one step unless at the maximum.
func (e *Editor) ZoomIn() {
	s := e.env.sess
	if s.Zoom < e.opts.ZoomMax {
		s.Zoom += e.opts.ZoomStep
		e.zoomRefresh()
	}
}

// ZoomOut lowers zoom by one step unless at the minimum.
func (e *Editor) ZoomOut() {
	s := e.env.sess
	if s.Zoom > e.opts.ZoomMin {
		s.Zoom -= e.opts.ZoomStep
		e.zoomRefresh()
	}
}

// ZoomReset returns to zoom 1.
func (e *Editor) ZoomReset() {
	if e.env.sess.Zoom != 1 {
		e.env.sess.Zoom = 1
		e.zoomRefresh()
	}
}

// Zoom returns the current zoom level.
func (e *Editor) Zoom() float64 { return e.env.sess.Zoom }

// Translation returns the committed pan offset.
func (e *Editor) Translation() (x, y float64) {
	return e.env.sess.CanvasX, e.env.sess.CanvasY
}

// zoomRefresh rescales the pan offset so the zoom keeps its anchor.
func (e *Editor) zoomRefresh() {
	s := e.env.sess
	e.emit(event.Zoom, s.Zoom)
	s.CanvasX = s.CanvasX / s.ZoomLast * s.Zoom
	s.CanvasY = s.CanvasY / s.ZoomLast * s.Zoom
	s.ZoomLast = s.Zoom
}
