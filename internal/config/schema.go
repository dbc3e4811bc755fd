package config

// Config is the top-level configuration file.
type Config struct {
	Version   string     `yaml:"version" toml:"version" validate:"required"`
	Server    ServerConf `yaml:"server" toml:"server"`
	Host      HostConf   `yaml:"host" toml:"host"`
	Editor    EditorConf `yaml:"editor" toml:"editor"`
	Layout    LayoutConf `yaml:"layout" toml:"layout"`
	Templates []Template `yaml:"templates" toml:"templates" validate:"dive"`
}

// ServerConf holds HTTP listener settings.
type ServerConf struct {
	Addr           string `yaml:"addr" toml:"addr" validate:"required"`
	ReadTimeoutMs  int    `yaml:"read_timeout_ms" toml:"read_timeout_ms" validate:"gte=0"`
	WriteTimeoutMs int    `yaml:"write_timeout_ms" toml:"write_timeout_ms" validate:"gte=0"`
	IdleTimeoutMs  int    `yaml:"idle_timeout_ms" toml:"idle_timeout_ms" validate:"gte=0"`
}

// HostConf holds tunable session host settings.
type HostConf struct {
	QueueDepth       int `yaml:"queue_depth" toml:"queue_depth" validate:"gt=0"`
	CommandTimeoutMs int `yaml:"command_timeout_ms" toml:"command_timeout_ms" validate:"gt=0"`
	MaxSessions      int `yaml:"max_sessions" toml:"max_sessions" validate:"gte=0"` // 0 = unlimited
	EventBuffer      int `yaml:"event_buffer" toml:"event_buffer" validate:"gt=0"`
}

// EditorConf are the editor options applied to new sessions.
type EditorConf struct {
	Curvature                float64  `yaml:"curvature" toml:"curvature" validate:"gte=0"`
	Reroute                  bool     `yaml:"reroute" toml:"reroute"`
	RerouteFixCurvature      bool     `yaml:"reroute_fix_curvature" toml:"reroute_fix_curvature"`
	RerouteCurvature         float64  `yaml:"reroute_curvature" toml:"reroute_curvature" validate:"gte=0"`
	RerouteCurvatureStartEnd float64  `yaml:"reroute_curvature_start_end" toml:"reroute_curvature_start_end" validate:"gte=0"`
	RerouteWidth             float64  `yaml:"reroute_width" toml:"reroute_width" validate:"gte=0"`
	LinePath                 float64  `yaml:"line_path" toml:"line_path" validate:"gte=0"`
	ForceFirstInput          bool     `yaml:"force_first_input" toml:"force_first_input"`
	DraggableInputs          bool     `yaml:"draggable_inputs" toml:"draggable_inputs"`
	Mode                     string   `yaml:"mode" toml:"mode" validate:"omitempty,oneof=edit fixed view"`
	Zoom                     ZoomConf `yaml:"zoom" toml:"zoom"`
	UseUUID                  bool     `yaml:"use_uuid" toml:"use_uuid"`
}

// ZoomConf bounds the zoom level.
type ZoomConf struct {
	Min  float64 `yaml:"min" toml:"min" validate:"gte=0"`
	Max  float64 `yaml:"max" toml:"max" validate:"gtefield=Min"`
	Step float64 `yaml:"step" toml:"step" validate:"gte=0"`
}

// LayoutConf is the headless node geometry.
type LayoutConf struct {
	NodeWidth   float64 `yaml:"node_width" toml:"node_width" validate:"gte=0"`
	MinHeight   float64 `yaml:"min_height" toml:"min_height" validate:"gte=0"`
	PortTop     float64 `yaml:"port_top" toml:"port_top" validate:"gte=0"`
	PortSpacing float64 `yaml:"port_spacing" toml:"port_spacing" validate:"gte=0"`
	PortRadius  float64 `yaml:"port_radius" toml:"port_radius" validate:"gte=0"`
}

// Template is a named block of node markup registered for typenode nodes.
type Template struct {
	Name    string                 `yaml:"name" toml:"name" validate:"required"`
	HTML    string                 `yaml:"html" toml:"html" validate:"required"`
	Props   map[string]interface{} `yaml:"props" toml:"props"`
	Options map[string]interface{} `yaml:"options" toml:"options"`
}
