package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/config"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/editor"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/engine"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/event"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/metrics"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

// Handler holds all HTTP handler dependencies.
type Handler struct {
	host   *engine.Host
	loader *config.Loader
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes. loader may be nil,
// in which case the config routes answer 404.
func New(host *engine.Host, loader *config.Loader) http.Handler {
	h := &Handler{host: host, loader: loader, mux: http.NewServeMux()}

	h.mux.HandleFunc("POST /v1/sessions", h.openSession)
	h.mux.HandleFunc("GET /v1/sessions", h.listSessions)
	h.mux.HandleFunc("GET /v1/sessions/{id}", h.getSession)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}", h.closeSession)
	h.mux.HandleFunc("PUT /v1/sessions/{id}/mode", h.setMode)

	h.mux.HandleFunc("POST /v1/sessions/{id}/nodes", h.addNode)
	h.mux.HandleFunc("GET /v1/sessions/{id}/nodes", h.findNodes)
	h.mux.HandleFunc("GET /v1/sessions/{id}/nodes/{node}", h.getNode)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}/nodes/{node}", h.removeNode)
	h.mux.HandleFunc("PUT /v1/sessions/{id}/nodes/{node}/position", h.moveNode)
	h.mux.HandleFunc("PUT /v1/sessions/{id}/nodes/{node}/data", h.updateData)
	h.mux.HandleFunc("POST /v1/sessions/{id}/nodes/{node}/ports/{dir}", h.addPort)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}/nodes/{node}/ports/{dir}/{port}", h.removePort)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}/nodes/{node}/connections", h.removeNodeConnections)

	h.mux.HandleFunc("POST /v1/sessions/{id}/connections", h.addConnection)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}/connections", h.removeConnection)
	h.mux.HandleFunc("POST /v1/sessions/{id}/connections/points", h.addPoint)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}/connections/points", h.removePoint)

	h.mux.HandleFunc("GET /v1/sessions/{id}/modules", h.listModules)
	h.mux.HandleFunc("POST /v1/sessions/{id}/modules", h.addModule)
	h.mux.HandleFunc("PUT /v1/sessions/{id}/modules/active", h.changeModule)
	h.mux.HandleFunc("POST /v1/sessions/{id}/modules/active/clear", h.clearModule)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}/modules/{name}", h.removeModule)
	h.mux.HandleFunc("DELETE /v1/sessions/{id}/graph", h.clearGraph)

	h.mux.HandleFunc("POST /v1/sessions/{id}/zoom/{op}", h.zoom)

	h.mux.HandleFunc("POST /v1/sessions/{id}/input/pointer", h.pointer)
	h.mux.HandleFunc("POST /v1/sessions/{id}/input/key", h.key)
	h.mux.HandleFunc("POST /v1/sessions/{id}/input/wheel", h.wheel)
	h.mux.HandleFunc("POST /v1/sessions/{id}/input/field", h.field)

	h.mux.HandleFunc("GET /v1/sessions/{id}/scene", h.sceneMarkup)
	h.mux.HandleFunc("GET /v1/sessions/{id}/export", h.export)
	h.mux.HandleFunc("POST /v1/sessions/{id}/import", h.importGraph)
	h.mux.HandleFunc("GET /v1/sessions/{id}/events", h.events)

	h.mux.HandleFunc("GET /v1/config", h.getConfig)
	h.mux.HandleFunc("POST /v1/config/reload", h.reloadConfig)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// session resolves the {id} path value. A false return means the response
// has been written.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*engine.Session, bool) {
	s, err := h.host.Get(r.PathValue("id"))
	if err != nil {
		writeErr(w, err)
		return nil, false
	}
	return s, true
}

// do runs fn on the session worker and answers with its error, or with
// status and the value fn returned.
func (h *Handler) do(w http.ResponseWriter, r *http.Request, status int, fn func(*editor.Editor) (interface{}, error)) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	out, err := engine.Call(r.Context(), s, fn)
	if err != nil {
		writeErr(w, err)
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, out)
}

// ── Sessions ──

type sessionRequest struct {
	Mode                string   `json:"mode" validate:"omitempty,oneof=edit fixed view"`
	Curvature           *float64 `json:"curvature" validate:"omitempty,gte=0"`
	Reroute             *bool    `json:"reroute"`
	RerouteFixCurvature *bool    `json:"reroute_fix_curvature"`
	ForceFirstInput     *bool    `json:"force_first_input"`
	DraggableInputs     *bool    `json:"draggable_inputs"`
	UseUUID             *bool    `json:"use_uuid"`
}

func (req sessionRequest) apply(o *editor.Options) {
	if req.Mode != "" {
		o.Mode = editor.Mode(req.Mode)
	}
	if req.Curvature != nil {
		o.Curvature = *req.Curvature
	}
	setBool(&o.Reroute, req.Reroute)
	setBool(&o.RerouteFixCurvature, req.RerouteFixCurvature)
	setBool(&o.ForceFirstInput, req.ForceFirstInput)
	setBool(&o.DraggableInputs, req.DraggableInputs)
	setBool(&o.UseUUID, req.UseUUID)
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

type sessionInfo struct {
	ID         string        `json:"id"`
	Created    time.Time     `json:"created"`
	Mode       editor.Mode   `json:"mode"`
	Module     string        `json:"module"`
	Zoom       float64       `json:"zoom"`
	TranslateX float64       `json:"translate_x"`
	TranslateY float64       `json:"translate_y"`
	Modules    []graph.Stats `json:"modules"`
	QueueUsage float64       `json:"queue_utilization"`
	Templates  []string      `json:"templates"`
}

func (h *Handler) info(r *http.Request, s *engine.Session) (sessionInfo, error) {
	return engine.Call(r.Context(), s, func(ed *editor.Editor) (sessionInfo, error) {
		x, y := ed.Translation()
		return sessionInfo{
			ID:         s.ID,
			Created:    s.Created,
			Mode:       ed.Mode(),
			Module:     ed.ActiveModule(),
			Zoom:       ed.Zoom(),
			TranslateX: x,
			TranslateY: y,
			Modules:    ed.Stats(),
			QueueUsage: s.QueueUtilization(),
			Templates:  ed.Registry().Names(),
		}, nil
	})
}

// POST /v1/sessions — open a session; the body overrides default options.
func (h *Handler) openSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if r.ContentLength != 0 {
		if !decode(w, r, &req) {
			return
		}
	}
	s, err := h.host.Open(req.apply)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}
	info, err := h.info(r, s)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// GET /v1/sessions
func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": h.host.List(),
	})
}

// GET /v1/sessions/{id}
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	info, err := h.info(r, s)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// DELETE /v1/sessions/{id}
func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	if err := h.host.Close(r.PathValue("id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type modeRequest struct {
	Mode string `json:"mode" validate:"required,oneof=edit fixed view"`
}

// PUT /v1/sessions/{id}/mode
func (h *Handler) setMode(w http.ResponseWriter, r *http.Request) {
	var req modeRequest
	if !decode(w, r, &req) {
		return
	}
	h.do(w, r, http.StatusOK, func(ed *editor.Editor) (interface{}, error) {
		if err := ed.SetMode(editor.Mode(req.Mode)); err != nil {
			return nil, err
		}
		return map[string]editor.Mode{"mode": ed.Mode()}, nil
	})
}

// ── Nodes ──

type nodeRequest struct {
	Name     string                 `json:"name" validate:"required"`
	Inputs   int                    `json:"inputs" validate:"gte=0,lte=64"`
	Outputs  int                    `json:"outputs" validate:"gte=0,lte=64"`
	X        float64                `json:"pos_x"`
	Y        float64                `json:"pos_y"`
	Class    string                 `json:"class"`
	Data     map[string]interface{} `json:"data"`
	HTML     string                 `json:"html"`
	TypeNode graph.TypeNode         `json:"typenode"`
}

// POST /v1/sessions/{id}/nodes
func (h *Handler) addNode(w http.ResponseWriter, r *http.Request) {
	var req nodeRequest
	if !decode(w, r, &req) {
		return
	}
	spec := editor.NodeSpec(req)
	h.do(w, r, http.StatusCreated, func(ed *editor.Editor) (interface{}, error) {
		id, err := ed.AddNode(spec)
		if err != nil {
			return nil, err
		}
		return map[string]string{"id": id}, nil
	})
}

// GET /v1/sessions/{id}/nodes?name=
func (h *Handler) findNodes(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	h.do(w, r, http.StatusOK, func(ed *editor.Editor) (interface{}, error) {
		ids := ed.FindNodesByName(name)
		if ids == nil {
			ids = []string{}
		}
		return map[string][]string{"ids": ids}, nil
	})
}

// GET /v1/sessions/{id}/nodes/{node}
func (h *Handler) getNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("node")
	h.do(w, r, http.StatusOK, func(ed *editor.Editor) (interface{}, error) {
		n, err := ed.GetNode(id)
		if err != nil {
			return nil, err
		}
		module, _ := ed.ModuleOf(id)
		return map[string]interface{}{"module": module, "node": n}, nil
	})
}

// DELETE /v1/sessions/{id}/nodes/{node}
func (h *Handler) removeNode(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("node")
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		return nil, ed.RemoveNode(id)
	})
}

type positionRequest struct {
	X *float64 `json:"pos_x" validate:"required"`
	Y *float64 `json:"pos_y" validate:"required"`
}

// PUT /v1/sessions/{id}/nodes/{node}/position
func (h *Handler) moveNode(w http.ResponseWriter, r *http.Request) {
	var req positionRequest
	if !decode(w, r, &req) {
		return
	}
	id := r.PathValue("node")
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		return nil, ed.MoveNode(id, *req.X, *req.Y)
	})
}

type dataRequest struct {
	Data map[string]interface{} `json:"data" validate:"required"`
}

// PUT /v1/sessions/{id}/nodes/{node}/data
func (h *Handler) updateData(w http.ResponseWriter, r *http.Request) {
	var req dataRequest
	if !decode(w, r, &req) {
		return
	}
	id := r.PathValue("node")
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		return nil, ed.UpdateData(id, req.Data)
	})
}

// POST /v1/sessions/{id}/nodes/{node}/ports/{dir}
func (h *Handler) addPort(w http.ResponseWriter, r *http.Request) {
	dir, err := graph.ParseDirection(r.PathValue("dir"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id := r.PathValue("node")
	h.do(w, r, http.StatusCreated, func(ed *editor.Editor) (interface{}, error) {
		port, err := ed.AddPort(id, dir)
		if err != nil {
			return nil, err
		}
		return map[string]string{"port": port}, nil
	})
}

// DELETE /v1/sessions/{id}/nodes/{node}/ports/{dir}/{port}
func (h *Handler) removePort(w http.ResponseWriter, r *http.Request) {
	dir, err := graph.ParseDirection(r.PathValue("dir"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, port := r.PathValue("node"), r.PathValue("port")
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		return nil, ed.RemovePort(id, dir, port)
	})
}

// DELETE /v1/sessions/{id}/nodes/{node}/connections
func (h *Handler) removeNodeConnections(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("node")
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		return nil, ed.RemoveNodeConnections(id)
	})
}

// ── Connections ──

type connRequest struct {
	OutputID   string `json:"output_id" validate:"required"`
	OutputPort string `json:"output_class" validate:"required"`
	InputID    string `json:"input_id" validate:"required"`
	InputPort  string `json:"input_class" validate:"required"`
}

func (c connRequest) conn() graph.Conn { return graph.Conn(c) }

// POST /v1/sessions/{id}/connections — 409 when the editor refuses the edge.
func (h *Handler) addConnection(w http.ResponseWriter, r *http.Request) {
	var req connRequest
	if !decode(w, r, &req) {
		return
	}
	c := req.conn()
	h.do(w, r, http.StatusCreated, func(ed *editor.Editor) (interface{}, error) {
		if ed.Mode() != editor.ModeEdit {
			return nil, fmt.Errorf("%w: mode is %s", editor.ErrReadOnly, ed.Mode())
		}
		if !ed.AddConnection(c) {
			return nil, fmt.Errorf("connection %s: %w", c, graph.ErrInvalidOperation)
		}
		return c, nil
	})
}

// DELETE /v1/sessions/{id}/connections
func (h *Handler) removeConnection(w http.ResponseWriter, r *http.Request) {
	var req connRequest
	if !decode(w, r, &req) {
		return
	}
	c := req.conn()
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		return nil, ed.RemoveConnection(c)
	})
}

type pointRequest struct {
	Connection connRequest `json:"connection"`
	Index      *int        `json:"index"`
	X          float64     `json:"pos_x"`
	Y          float64     `json:"pos_y"`
}

// POST /v1/sessions/{id}/connections/points — a missing index appends.
func (h *Handler) addPoint(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decode(w, r, &req) {
		return
	}
	i := -1
	if req.Index != nil {
		i = *req.Index
	}
	c := req.Connection.conn()
	h.do(w, r, http.StatusOK, func(ed *editor.Editor) (interface{}, error) {
		added, err := ed.AddReroutePoint(c, i, graph.Point{X: req.X, Y: req.Y})
		if err != nil {
			return nil, err
		}
		return map[string]bool{"added": added}, nil
	})
}

// DELETE /v1/sessions/{id}/connections/points
func (h *Handler) removePoint(w http.ResponseWriter, r *http.Request) {
	var req pointRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Index == nil {
		writeError(w, http.StatusBadRequest, "index is required")
		return
	}
	c := req.Connection.conn()
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		return nil, ed.RemoveReroutePoint(c, *req.Index)
	})
}

// ── Modules ──

type moduleRequest struct {
	Name string `json:"name" validate:"required"`
}

// GET /v1/sessions/{id}/modules
func (h *Handler) listModules(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, http.StatusOK, func(ed *editor.Editor) (interface{}, error) {
		return map[string]interface{}{
			"active":  ed.ActiveModule(),
			"modules": ed.ListModules(),
		}, nil
	})
}

// POST /v1/sessions/{id}/modules
func (h *Handler) addModule(w http.ResponseWriter, r *http.Request) {
	var req moduleRequest
	if !decode(w, r, &req) {
		return
	}
	h.do(w, r, http.StatusCreated, func(ed *editor.Editor) (interface{}, error) {
		if err := ed.AddModule(req.Name); err != nil {
			return nil, err
		}
		return map[string]string{"name": req.Name}, nil
	})
}

// PUT /v1/sessions/{id}/modules/active
func (h *Handler) changeModule(w http.ResponseWriter, r *http.Request) {
	var req moduleRequest
	if !decode(w, r, &req) {
		return
	}
	h.do(w, r, http.StatusOK, func(ed *editor.Editor) (interface{}, error) {
		if err := ed.ChangeModule(req.Name); err != nil {
			return nil, err
		}
		return map[string]string{"active": ed.ActiveModule()}, nil
	})
}

// POST /v1/sessions/{id}/modules/active/clear
func (h *Handler) clearModule(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		ed.ClearModuleSelected()
		return nil, nil
	})
}

// DELETE /v1/sessions/{id}/modules/{name}
func (h *Handler) removeModule(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		return nil, ed.RemoveModule(name)
	})
}

// DELETE /v1/sessions/{id}/graph — back to a single empty Home module.
func (h *Handler) clearGraph(w http.ResponseWriter, r *http.Request) {
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		ed.Clear()
		return nil, nil
	})
}

// POST /v1/sessions/{id}/zoom/{op} — op is in, out or reset.
func (h *Handler) zoom(w http.ResponseWriter, r *http.Request) {
	var fn func(*editor.Editor)
	switch r.PathValue("op") {
	case "in":
		fn = (*editor.Editor).ZoomIn
	case "out":
		fn = (*editor.Editor).ZoomOut
	case "reset":
		fn = (*editor.Editor).ZoomReset
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown zoom op %q", r.PathValue("op")))
		return
	}
	h.do(w, r, http.StatusOK, func(ed *editor.Editor) (interface{}, error) {
		fn(ed)
		return map[string]float64{"zoom": ed.Zoom()}, nil
	})
}

// ── Input ──

// POST /v1/sessions/{id}/input/pointer
func (h *Handler) pointer(w http.ResponseWriter, r *http.Request) {
	var p editor.Pointer
	if !decode(w, r, &p) {
		return
	}
	h.do(w, r, http.StatusOK, func(ed *editor.Editor) (interface{}, error) {
		ed.Pointer(p)
		return map[string]string{"interaction": ed.Session().Interaction.String()}, nil
	})
}

type keyRequest struct {
	Key   string `json:"key" validate:"required"`
	Ctrl  bool   `json:"ctrl"`
	Meta  bool   `json:"meta"`
	Shift bool   `json:"shift"`
}

// POST /v1/sessions/{id}/input/key
func (h *Handler) key(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if !decode(w, r, &req) {
		return
	}
	k := event.Key(req)
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		ed.Key(k)
		return nil, nil
	})
}

// POST /v1/sessions/{id}/input/wheel
func (h *Handler) wheel(w http.ResponseWriter, r *http.Request) {
	var wh editor.Wheel
	if !decode(w, r, &wh) {
		return
	}
	h.do(w, r, http.StatusOK, func(ed *editor.Editor) (interface{}, error) {
		ed.WheelEvent(wh)
		return map[string]float64{"zoom": ed.Zoom()}, nil
	})
}

type fieldRequest struct {
	Key   string `json:"key" validate:"required"`
	Value string `json:"value"`
}

// POST /v1/sessions/{id}/input/field — a value typed into a bound field.
func (h *Handler) field(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	if !decode(w, r, &req) {
		return
	}
	h.do(w, r, http.StatusNoContent, func(ed *editor.Editor) (interface{}, error) {
		return nil, ed.Input(req.Key, req.Value)
	})
}

// ── Scene and serialized graph ──

// GET /v1/sessions/{id}/scene — the projection as HTML markup.
func (h *Handler) sceneMarkup(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	markup, err := engine.Call(r.Context(), s, func(ed *editor.Editor) (string, error) {
		return scene.Markup(ed.Scene().Root), nil
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, markup)
}

// GET /v1/sessions/{id}/export
func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	data, err := engine.Call(r.Context(), s, func(ed *editor.Editor) ([]byte, error) {
		return ed.ExportJSON()
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// POST /v1/sessions/{id}/import?notify=false — replaces the whole graph.
func (h *Handler) importGraph(w http.ResponseWriter, r *http.Request) {
	notify := true
	if v := r.URL.Query().Get("notify"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid notify %q", v))
			return
		}
		notify = b
	}
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.do(w, r, http.StatusOK, func(ed *editor.Editor) (interface{}, error) {
		if err := ed.Import(data, notify); err != nil {
			metrics.ImportsRejected.Inc()
			return nil, err
		}
		return map[string]interface{}{"modules": ed.Stats()}, nil
	})
}

// ── Config and probes ──

// GET /v1/config
func (h *Handler) getConfig(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusNotFound, "no config file loaded")
		return
	}
	cfg := h.loader.Config()
	names := make([]string, len(cfg.Templates))
	for i, t := range cfg.Templates {
		names[i] = t.Name
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"version":   cfg.Version,
		"path":      h.loader.Path(),
		"editor":    cfg.Editor,
		"templates": names,
	})
}

// POST /v1/config/reload — re-read the config file. Subscribers registered
// through the loader's OnChange apply it.
func (h *Handler) reloadConfig(w http.ResponseWriter, r *http.Request) {
	if h.loader == nil {
		writeError(w, http.StatusNotFound, "no config file loaded")
		return
	}
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":  true,
		"version":   cfg.Version,
		"templates": len(cfg.Templates),
	})
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if any session queue is >80% full.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	util := h.host.QueueUtilization()
	metrics.QueueUtilization.Set(util)
	if util > 0.8 {
		writeJSON(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":            "overloaded",
			"queue_utilization": util,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":            "ready",
		"queue_utilization": util,
		"sessions":          h.host.Len(),
	})
}
