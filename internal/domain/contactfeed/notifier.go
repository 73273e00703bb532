// Package contactfeed fans out contact_submissions change notifications to
// in-process subscribers such as the admin inbox websocket.
package contactfeed

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/damedesign/portfolio/internal/domain/model"
)

// ErrWaiterRequired indicates a notifier cannot be constructed without a waiter.
var ErrWaiterRequired = errors.New("notifier waiter is required")

// Waiter blocks until the next change notification arrives.
type Waiter interface {
	WaitForNotification(ctx context.Context) (model.ContactEvent, error)
}

// Feed is the subscription side of the notifier.
type Feed interface {
	Subscribe() (func(), <-chan model.ContactEvent)
}

// NotifierOptions configure the notifier.
type NotifierOptions struct {
	Waiter     Waiter
	WaitWindow time.Duration
	Backoff    time.Duration
	MaxBackoff time.Duration
	Buffer     int
	Logger     *slog.Logger
}

// Notifier listens for change events while at least one subscriber exists and
// copies each event to every subscriber. Slow subscribers miss events rather
// than block the listener.
type Notifier struct {
	waiter     Waiter
	waitWindow time.Duration
	backoff    time.Duration
	maxBackoff time.Duration
	buffer     int
	logger     *slog.Logger

	mu     sync.Mutex
	subs   map[chan model.ContactEvent]struct{}
	cancel context.CancelFunc
}

// NewNotifier constructs a Notifier.
func NewNotifier(opts NotifierOptions) (*Notifier, error) {
	if opts.Waiter == nil {
		return nil, ErrWaiterRequired
	}

	n := &Notifier{
		waiter:     opts.Waiter,
		waitWindow: opts.WaitWindow,
		backoff:    opts.Backoff,
		maxBackoff: opts.MaxBackoff,
		buffer:     opts.Buffer,
		logger:     opts.Logger,
		subs:       make(map[chan model.ContactEvent]struct{}),
	}
	if n.waitWindow <= 0 {
		n.waitWindow = time.Minute
	}
	if n.backoff <= 0 {
		n.backoff = 250 * time.Millisecond
	}
	if n.maxBackoff < n.backoff {
		n.maxBackoff = 30 * time.Second
	}
	if n.buffer <= 0 {
		n.buffer = 8
	}
	if n.logger == nil {
		n.logger = slog.Default()
	}
	n.logger = n.logger.With("component", "contact_feed")
	return n, nil
}

// Subscribe registers a subscriber. The returned func unsubscribes and closes the channel.
func (n *Notifier) Subscribe() (func(), <-chan model.ContactEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		n.cancel = cancel
		go n.listenLoop(ctx)
	}

	ch := make(chan model.ContactEvent, n.buffer)
	n.subs[ch] = struct{}{}

	var once sync.Once
	unsub := func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			if _, ok := n.subs[ch]; !ok {
				return
			}
			delete(n.subs, ch)
			drainAndClose(ch)
			if len(n.subs) == 0 {
				n.stopListener()
			}
		})
	}
	return unsub, ch
}

// Subscribers reports the current subscriber count.
func (n *Notifier) Subscribers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs)
}

// StopAll stops the listener and closes every subscriber channel.
func (n *Notifier) StopAll() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.stopListener()
	for ch := range n.subs {
		drainAndClose(ch)
		delete(n.subs, ch)
	}
}

func (n *Notifier) stopListener() {
	if n.cancel == nil {
		return
	}
	n.cancel()
	n.cancel = nil
}

func (n *Notifier) listenLoop(ctx context.Context) {
	delay := n.backoff
	for ctx.Err() == nil {
		waitCtx, cancel := context.WithTimeout(ctx, n.waitWindow)
		evt, err := n.waiter.WaitForNotification(waitCtx)
		cancel()

		switch {
		case err == nil:
			delay = n.backoff
			n.broadcast(evt)
			continue
		case ctx.Err() != nil:
			return
		case errors.Is(err, context.DeadlineExceeded):
			// Quiet window elapsed; listen again.
			continue
		}

		n.logger.WarnContext(ctx, "contact feed listen failed, retrying", "error", err, "backoff", delay)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
		delay = min(delay*2, n.maxBackoff)
	}
}

func (n *Notifier) broadcast(evt model.ContactEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for ch := range n.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// drainAndClose removes any buffered events before closing the channel so
// receivers observe a closed channel immediately.
func drainAndClose(ch chan model.ContactEvent) {
	for {
		select {
		case <-ch:
		default:
			close(ch)
			return
		}
	}
}

var _ Feed = (*Notifier)(nil)
