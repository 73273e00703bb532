package service

import (
	"sync"

	"github.com/damedesign/portfolio/internal/ports"
)

// AuthEventBus is an in-process ports.AuthEventBus keyed by session ID.
// Slow subscribers drop events rather than block publishers.
type AuthEventBus struct {
	mu   sync.Mutex
	subs map[string]map[chan ports.AuthEvent]struct{}
}

// NewAuthEventBus creates an empty bus.
func NewAuthEventBus() *AuthEventBus {
	return &AuthEventBus{subs: make(map[string]map[chan ports.AuthEvent]struct{})}
}

// Publish delivers ev to subscribers of ev.SessionID.
func (b *AuthEventBus) Publish(ev ports.AuthEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[ev.SessionID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe returns a channel of events for sessionID and a cancel func that closes it.
func (b *AuthEventBus) Subscribe(sessionID string) (<-chan ports.AuthEvent, func()) {
	ch := make(chan ports.AuthEvent, 4)

	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan ports.AuthEvent]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[sessionID], ch)
			if len(b.subs[sessionID]) == 0 {
				delete(b.subs, sessionID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

var _ ports.AuthEventBus = (*AuthEventBus)(nil)
