package event

import "time"

// Names of the events an editor emits.
const (
	NodeCreated     = "nodeCreated"
	NodeRemoved     = "nodeRemoved"
	NodeSelected    = "nodeSelected"
	NodeUnselected  = "nodeUnselected"
	NodeMoved       = "nodeMoved"
	NodeDataChanged = "nodeDataChanged"

	ConnectionStart      = "connectionStart"
	ConnectionCancel     = "connectionCancel"
	ConnectionCreated    = "connectionCreated"
	ConnectionRemoved    = "connectionRemoved"
	ConnectionSelected   = "connectionSelected"
	ConnectionUnselected = "connectionUnselected"

	AddReroute    = "addReroute"
	RemoveReroute = "removeReroute"
	RerouteMoved  = "rerouteMoved"

	ModuleCreated = "moduleCreated"
	ModuleChanged = "moduleChanged"
	ModuleRemoved = "moduleRemoved"

	Zoom      = "zoom"
	Translate = "translate"
	Import    = "import"
	Export    = "export"

	Click       = "click"
	ClickEnd    = "clickEnd"
	MouseMove   = "mouseMove"
	MouseUp     = "mouseUp"
	KeyDown     = "keydown"
	ContextMenu = "contextmenu"
)

// Event is one notification delivered to listeners.
type Event struct {
	Seq     uint64      `json:"seq"`
	Name    string      `json:"name"`
	Payload interface{} `json:"payload"`
	At      time.Time   `json:"at"`
}

// Position is the payload of translate and mouseMove.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DraftStart is the payload of connectionStart.
type DraftStart struct {
	OutputID   string `json:"output_id"`
	OutputPort string `json:"output_class"`
}

// Key is the payload of keydown.
type Key struct {
	Key   string `json:"key"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
	Shift bool   `json:"shift,omitempty"`
}
