package event

import (
	"sync"
	"time"
)

// Listener receives events synchronously on the dispatching goroutine.
type Listener func(Event)

// Token identifies a subscription for removal.
type Token uint64

type subscription struct {
	tok Token
	fn  Listener
}

// Bus delivers named events to listeners in subscription order. Taps see
// every event after the named listeners.
type Bus struct {
	mu        sync.RWMutex
	next      Token
	seq       uint64
	listeners map[string][]subscription
	taps      []subscription
	now       func() time.Time
}

// NewBus creates an empty Bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[string][]subscription), now: time.Now}
}

// On subscribes fn to name.
func (b *Bus) On(name string, fn Listener) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.listeners[name] = append(b.listeners[name], subscription{tok: b.next, fn: fn})
	return b.next
}

// Off removes the subscription tok from name.
func (b *Bus) Off(name string, tok Token) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.listeners[name]
	for i, s := range subs {
		if s.tok == tok {
			b.listeners[name] = append(subs[:i:i], subs[i+1:]...)
			if len(b.listeners[name]) == 0 {
				delete(b.listeners, name)
			}
			return true
		}
	}
	return false
}

// Tap subscribes fn to every event.
func (b *Bus) Tap(fn Listener) Token {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.taps = append(b.taps, subscription{tok: b.next, fn: fn})
	return b.next
}

// Untap removes a tap.
func (b *Bus) Untap(tok Token) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.taps {
		if s.tok == tok {
			b.taps = append(b.taps[:i:i], b.taps[i+1:]...)
			return true
		}
	}
	return false
}

// Count returns the number of listeners on name.
func (b *Bus) Count(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}

// Dispatch delivers an event. Listeners run without the lock held, so they
// may subscribe or unsubscribe.
func (b *Bus) Dispatch(name string, payload interface{}) {
	b.mu.Lock()
	b.seq++
	ev := Event{Seq: b.seq, Name: name, Payload: payload, At: b.now()}
	subs := append([]subscription(nil), b.listeners[name]...)
	taps := append([]subscription(nil), b.taps...)
	b.mu.Unlock()

	for _, s := range subs {
		s.fn(ev)
	}
	for _, s := range taps {
		s.fn(ev)
	}
}
