package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/config"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/editor"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/event"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/metrics"
)

// Session is one editor behind a serialized command queue.
type Session struct {
	ID      string
	Created time.Time

	ed      *editor.Editor
	pool    *workerPool[*command]
	timeout time.Duration
	buffer  int
	log     *slog.Logger

	mu      sync.Mutex
	subs    map[int]chan event.Event
	nextSub int
	closed  bool
}

type command struct {
	fn      func(*editor.Editor) error
	queued  time.Time
	resultC chan error
}

func newSession(ctx context.Context, id string, ed *editor.Editor, conf config.HostConf, log *slog.Logger) *Session {
	s := &Session{
		ID:      id,
		Created: time.Now(),
		ed:      ed,
		timeout: conf.CommandTimeout(),
		buffer:  conf.EventBuffer,
		log:     log.With("session", id),
		subs:    make(map[int]chan event.Event),
	}
	s.pool = newWorkerPool[*command](ctx, 1, conf.QueueDepth, s.exec)
	ed.Bus().Tap(s.fanout)
	return s
}

// exec runs on the session worker. A panicking command fails alone.
func (s *Session) exec(_ context.Context, c *command) {
	var err error
	func() {
		defer func() {
			if v := recover(); v != nil {
				err = fmt.Errorf("command panic: %v", v)
				s.log.Error("command panicked", "panic", v)
			}
		}()
		err = c.fn(s.ed)
	}()
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.CommandsProcessed.WithLabelValues(status).Inc()
	metrics.CommandDuration.Observe(elapsedMs(c.queued))
	c.resultC <- err
}

// Do runs fn on the session worker and waits for it. The queue never
// blocks the caller: a full queue fails with ErrQueueFull.
func (s *Session) Do(ctx context.Context, fn func(*editor.Editor) error) error {
	c := &command{fn: fn, queued: time.Now(), resultC: make(chan error, 1)}
	if !s.pool.Submit(c) {
		if s.isClosed() {
			return ErrClosed
		}
		metrics.CommandsDropped.Inc()
		return fmt.Errorf("%w (capacity %d)", ErrQueueFull, s.pool.QueueCap())
	}
	metrics.CommandsEnqueued.Inc()
	metrics.QueueUtilization.Set(s.QueueUtilization())

	select {
	case err := <-c.resultC:
		return err
	case <-time.After(s.timeout):
		return fmt.Errorf("%w after %v", ErrTimeout, s.timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// QueueUtilization returns queue used / capacity (0–1).
func (s *Session) QueueUtilization() float64 {
	if s.pool.QueueCap() == 0 {
		return 0
	}
	return float64(s.pool.QueueLen()) / float64(s.pool.QueueCap())
}

// Subscribe streams the session's events. Slow readers lose events rather
// than stall the editor. cancel must be called when done.
func (s *Session) Subscribe() (<-chan event.Event, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan event.Event, s.buffer)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

// fanout is the bus tap; it runs on the session worker.
func (s *Session) fanout(ev event.Event) {
	metrics.EventsDispatched.WithLabelValues(ev.Name).Inc()
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
			metrics.StreamFramesDropped.Inc()
		}
	}
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// close drains queued commands and ends every stream.
func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.pool.Drain()
	s.mu.Lock()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()
}
