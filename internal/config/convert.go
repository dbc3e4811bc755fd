package config

import (
	"time"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/content"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/editor"
)

// EditorOptions turns the editor and layout sections into editor options.
func (c *Config) EditorOptions() editor.Options {
	e := c.Editor
	mode := editor.Mode(e.Mode)
	if mode == "" {
		mode = editor.ModeEdit
	}
	return editor.Options{
		Curvature:                e.Curvature,
		Reroute:                  e.Reroute,
		RerouteFixCurvature:      e.RerouteFixCurvature,
		RerouteCurvature:         e.RerouteCurvature,
		RerouteCurvatureStartEnd: e.RerouteCurvatureStartEnd,
		RerouteWidth:             e.RerouteWidth,
		LinePath:                 e.LinePath,
		ForceFirstInput:          e.ForceFirstInput,
		DraggableInputs:          e.DraggableInputs,
		Mode:                     mode,
		ZoomMin:                  e.Zoom.Min,
		ZoomMax:                  e.Zoom.Max,
		ZoomStep:                 e.Zoom.Step,
		UseUUID:                  e.UseUUID,
		Layout: editor.Layout{
			NodeWidth:   c.Layout.NodeWidth,
			MinHeight:   c.Layout.MinHeight,
			PortTop:     c.Layout.PortTop,
			PortSpacing: c.Layout.PortSpacing,
			PortRadius:  c.Layout.PortRadius,
		},
	}
}

// RegisterTemplates adds every configured template to r, replacing any of
// the same name.
func (c *Config) RegisterTemplates(r *content.Registry) {
	for _, t := range c.Templates {
		r.Register(content.Template{Name: t.Name, HTML: t.HTML, Props: t.Props, Options: t.Options})
	}
}

// CommandTimeout is the host command timeout as a duration.
func (h HostConf) CommandTimeout() time.Duration {
	return time.Duration(h.CommandTimeoutMs) * time.Millisecond
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// ReadTimeout converts read_timeout_ms.
func (s ServerConf) ReadTimeout() time.Duration  { return ms(s.ReadTimeoutMs) }
func (s ServerConf) WriteTimeout() time.Duration { return ms(s.WriteTimeoutMs) }
func (s ServerConf) IdleTimeout() time.Duration  { return ms(s.IdleTimeoutMs) }
