// Package engine hosts editor sessions. Every session owns one editor and a
// single-worker queue; all access to the editor goes through that queue, so
// an editor only ever runs on one goroutine at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/config"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/content"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/editor"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/metrics"
)

var (
	// ErrQueueFull is returned when a session's command queue is full.
	ErrQueueFull = errors.New("command queue full")
	// ErrTimeout is returned when a command does not finish in time.
	ErrTimeout = errors.New("command timeout")
	// ErrTooManySessions is returned when max_sessions is reached.
	ErrTooManySessions = errors.New("too many sessions")
	// ErrClosed is returned for commands on a closed session or host.
	ErrClosed = errors.New("session closed")
)

// Host owns the open sessions.
type Host struct {
	ctx      context.Context
	log      *slog.Logger
	registry *content.Registry

	conf     atomic.Pointer[config.HostConf]
	defaults atomic.Pointer[editor.Options]

	mu       sync.RWMutex
	sessions map[string]*Session
	closed   bool
}

// New creates a Host. Sessions share registry, so templates registered on
// it are visible to every editor.
func New(ctx context.Context, conf config.HostConf, defaults editor.Options, registry *content.Registry, log *slog.Logger) *Host {
	if log == nil {
		log = slog.Default()
	}
	if registry == nil {
		registry = content.NewRegistry()
	}
	h := &Host{
		ctx:      ctx,
		log:      log,
		registry: registry,
		sessions: make(map[string]*Session),
	}
	h.conf.Store(&conf)
	h.defaults.Store(&defaults)
	return h
}

// Apply swaps in a reloaded config. Open sessions keep the options they
// were started with; templates are re-registered.
func (h *Host) Apply(cfg *config.Config) {
	conf := cfg.Host
	opts := cfg.EditorOptions()
	h.conf.Store(&conf)
	h.defaults.Store(&opts)
	cfg.RegisterTemplates(h.registry)
	h.log.Info("host config applied", "queue_depth", conf.QueueDepth, "mode", opts.Mode, "templates", len(cfg.Templates))
}

// Defaults returns the editor options new sessions start with.
func (h *Host) Defaults() editor.Options { return *h.defaults.Load() }

// Registry returns the shared content registry.
func (h *Host) Registry() *content.Registry { return h.registry }

// Open starts a new session. configure, when set, adjusts the default
// options before the editor starts.
func (h *Host) Open(configure func(*editor.Options)) (*Session, error) {
	conf := *h.conf.Load()
	opts := h.Defaults()
	if configure != nil {
		configure(&opts)
	}
	ed := editor.New(opts, editor.WithLogger(h.log), editor.WithRegistry(h.registry))
	if err := ed.Start(); err != nil {
		return nil, fmt.Errorf("start editor: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil, ErrClosed
	}
	if conf.MaxSessions > 0 && len(h.sessions) >= conf.MaxSessions {
		return nil, fmt.Errorf("%w (limit %d)", ErrTooManySessions, conf.MaxSessions)
	}
	s := newSession(h.ctx, uuid.NewString(), ed, conf, h.log)
	h.sessions[s.ID] = s
	metrics.SessionsActive.Set(float64(len(h.sessions)))
	h.log.Info("session opened", "session", s.ID, "mode", opts.Mode)
	return s, nil
}

// Get returns an open session.
func (h *Host) Get(id string) (*Session, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, graph.ErrNotFound)
	}
	return s, nil
}

// List returns the open session ids, oldest first.
func (h *Host) List() []string {
	h.mu.RLock()
	all := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		all = append(all, s)
	}
	h.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool {
		if all[i].Created.Equal(all[j].Created) {
			return all[i].ID < all[j].ID
		}
		return all[i].Created.Before(all[j].Created)
	})
	ids := make([]string, len(all))
	for i, s := range all {
		ids[i] = s.ID
	}
	return ids
}

// Len returns the number of open sessions.
func (h *Host) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Close drains and removes a session.
func (h *Host) Close(id string) error {
	h.mu.Lock()
	s, ok := h.sessions[id]
	if ok {
		delete(h.sessions, id)
	}
	n := len(h.sessions)
	h.mu.Unlock()
	if !ok {
		return fmt.Errorf("session %s: %w", id, graph.ErrNotFound)
	}
	metrics.SessionsActive.Set(float64(n))
	s.close()
	h.log.Info("session closed", "session", id)
	return nil
}

// QueueUtilization returns the highest queue used / capacity (0–1) of any
// session.
func (h *Host) QueueUtilization() float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	u := 0.0
	for _, s := range h.sessions {
		u = max(u, s.QueueUtilization())
	}
	return u
}

// Shutdown drains every session. The host accepts no new sessions after.
func (h *Host) Shutdown() {
	h.mu.Lock()
	h.closed = true
	all := h.sessions
	h.sessions = make(map[string]*Session)
	h.mu.Unlock()
	for _, s := range all {
		s.close()
	}
	metrics.SessionsActive.Set(0)
}

// Call runs fn on the session's worker and returns its result.
func Call[R any](ctx context.Context, s *Session, fn func(*editor.Editor) (R, error)) (R, error) {
	var out R
	err := s.Do(ctx, func(ed *editor.Editor) error {
		var err error
		out, err = fn(ed)
		return err
	})
	return out, err
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
