// Package render turns connection anchors into SVG cubic-bezier paths and
// maps pointer coordinates between screen and canvas space.
package render

import (
	"math"
	"strconv"
	"strings"
)

// SegmentKind selects how control handles are mirrored for one segment.
type SegmentKind int

const (
	// Standalone is a plain two-point connection.
	Standalone SegmentKind = iota
	// Start leaves an output port towards the first reroute point.
	Start
	// End arrives at an input port from the last reroute point.
	End
	// Middle joins two reroute points.
	Middle
)

func (k SegmentKind) String() string {
	switch k {
	case Start:
		return "start"
	case End:
		return "end"
	case Middle:
		return "middle"
	}
	return "standalone"
}

// Vec is a 2D coordinate.
type Vec struct {
	X, Y float64
}

// Cubic is one bezier segment; C1 and C2 are the control handles.
type Cubic struct {
	P0, C1, C2, P1 Vec
}

// Handles computes the horizontal control-handle positions for a segment
// from (x0,y0) to (x1,y1). Each handle sits curvature*|x1-x0| away from its
// endpoint; when the start is at or right of the end, Start flips the
// closing handle, End flips the opening handle and Middle flips both, so the
// curve keeps opening out of a port and closing into one.
func Handles(x0, x1, curvature float64, kind SegmentKind) (hx1, hx2 float64) {
	span := math.Abs(x1 - x0)
	backwards := x0 >= x1
	switch kind {
	case Start:
		hx1 = x0 + span*curvature
		if backwards {
			hx2 = x1 - span*(curvature*-1)
		} else {
			hx2 = x1 - span*curvature
		}
	case End:
		if backwards {
			hx1 = x0 + span*(curvature*-1)
		} else {
			hx1 = x0 + span*curvature
		}
		hx2 = x1 - span*curvature
	case Middle:
		if backwards {
			hx1 = x0 + span*(curvature*-1)
			hx2 = x1 - span*(curvature*-1)
		} else {
			hx1 = x0 + span*curvature
			hx2 = x1 - span*curvature
		}
	default:
		hx1 = x0 + span*curvature
		hx2 = x1 - span*curvature
	}
	return hx1, hx2
}

// Segment returns the bezier for one segment.
func Segment(x0, y0, x1, y1, curvature float64, kind SegmentKind) Cubic {
	hx1, hx2 := Handles(x0, x1, curvature, kind)
	return Cubic{
		P0: Vec{x0, y0},
		C1: Vec{hx1, y0},
		C2: Vec{hx2, y1},
		P1: Vec{x1, y1},
	}
}

// Path formats c as an SVG path fragment: " M x0 y0 C hx1 y0 hx2 y1 x1  y1".
func (c Cubic) Path() string {
	var b strings.Builder
	b.WriteString(" M ")
	b.WriteString(num(c.P0.X))
	b.WriteByte(' ')
	b.WriteString(num(c.P0.Y))
	b.WriteString(" C ")
	b.WriteString(num(c.C1.X))
	b.WriteByte(' ')
	b.WriteString(num(c.C1.Y))
	b.WriteByte(' ')
	b.WriteString(num(c.C2.X))
	b.WriteByte(' ')
	b.WriteString(num(c.C2.Y))
	b.WriteByte(' ')
	b.WriteString(num(c.P1.X))
	b.WriteString("  ")
	b.WriteString(num(c.P1.Y))
	return b.String()
}

// CurvePath is Segment(...).Path().
func CurvePath(x0, y0, x1, y1, curvature float64, kind SegmentKind) string {
	return Segment(x0, y0, x1, y1, curvature, kind).Path()
}

// At evaluates the curve at t in [0,1].
func (c Cubic) At(t float64) Vec {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	d := 3 * u * t * t
	e := t * t * t
	return Vec{
		X: a*c.P0.X + b*c.C1.X + d*c.C2.X + e*c.P1.X,
		Y: a*c.P0.Y + b*c.C1.Y + d*c.C2.Y + e*c.P1.Y,
	}
}

// curveSamples is the polyline resolution used for distance queries.
const curveSamples = 32

// Distance approximates the shortest distance from p to the curve.
func (c Cubic) Distance(p Vec) float64 {
	best := math.Inf(1)
	prev := c.P0
	for i := 1; i <= curveSamples; i++ {
		cur := c.At(float64(i) / curveSamples)
		if d := segmentDistance(p, prev, cur); d < best {
			best = d
		}
		prev = cur
	}
	return best
}

func segmentDistance(p, a, b Vec) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(p.X-(a.X+t*dx), p.Y-(a.Y+t*dy))
}

func num(f float64) string {
	if f == 0 {
		return "0"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
