package render

import "strings"

// Curvature holds the handle fractions for plain connections and for the
// outer and inner segments of rerouted ones.
type Curvature struct {
	Plain           float64
	Reroute         float64
	RerouteStartEnd float64
}

// Route returns the segments of a connection from src through points to dst.
// Without points it is a single Standalone segment; otherwise the first
// segment is Start, the last End and the ones in between Middle.
func Route(src, dst Vec, points []Vec, cv Curvature) []Cubic {
	if len(points) == 0 {
		return []Cubic{Segment(src.X, src.Y, dst.X, dst.Y, cv.Plain, Standalone)}
	}
	segs := make([]Cubic, 0, len(points)+1)
	first := points[0]
	segs = append(segs, Segment(src.X, src.Y, first.X, first.Y, cv.RerouteStartEnd, Start))
	for i := 1; i < len(points); i++ {
		a, b := points[i-1], points[i]
		segs = append(segs, Segment(a.X, a.Y, b.X, b.Y, cv.Reroute, Middle))
	}
	last := points[len(points)-1]
	segs = append(segs, Segment(last.X, last.Y, dst.X, dst.Y, cv.RerouteStartEnd, End))
	return segs
}

// Join concatenates segment paths into one continuous path string.
func Join(segs []Cubic) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Path())
	}
	return b.String()
}

// Viewport is the zoom/pan state: a canvas point c is drawn on screen at
// Origin + c*Zoom.
type Viewport struct {
	Origin Vec
	Zoom   float64
}

// ScreenToCanvas maps a pointer position to canvas space:
// canvasX = screenX/zoom - origin.X/zoom.
func ScreenToCanvas(screenX, screenY float64, origin Vec, zoom float64) Vec {
	if zoom == 0 {
		zoom = 1
	}
	return Vec{
		X: screenX/zoom - origin.X/zoom,
		Y: screenY/zoom - origin.Y/zoom,
	}
}

// ToCanvas maps a screen point into canvas space.
func (v Viewport) ToCanvas(screenX, screenY float64) Vec {
	return ScreenToCanvas(screenX, screenY, v.Origin, v.Zoom)
}

// ToScreen maps a canvas point to the screen.
func (v Viewport) ToScreen(p Vec) Vec {
	z := v.Zoom
	if z == 0 {
		z = 1
	}
	return Vec{X: v.Origin.X + p.X*z, Y: v.Origin.Y + p.Y*z}
}
