// Package notification models the transient toast messages shown to visitors.
package notification

import (
	"net/url"
	"strings"
	"sync"
	"time"
)

// Query parameters carrying a one-shot message across a redirect.
const (
	QueryMessage = "notification_message"
	QueryType    = "notification_type"
)

// VisibleFor is how long a message stays on screen after it was added.
const VisibleFor = 4 * time.Second

// Kind is the toast flavour.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
)

// ParseKind maps s to a Kind, defaulting to info.
func ParseKind(s string) Kind {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSuccess:
		return KindSuccess
	case KindError:
		return KindError
	default:
		return KindInfo
	}
}

// Message is one toast.
type Message struct {
	Text string `json:"message"`
	Kind Kind   `json:"type"`
}

// Success, Error and Info build messages.
func Success(text string) Message { return Message{Text: text, Kind: KindSuccess} }
func Error(text string) Message   { return Message{Text: text, Kind: KindError} }
func Info(text string) Message    { return Message{Text: text, Kind: KindInfo} }

// Channel holds at most one message. A new Add replaces the current message
// and restarts its visibility window.
type Channel struct {
	mu      sync.Mutex
	now     func() time.Time
	current Message
	shownAt time.Time
	set     bool
}

// NewChannel returns a channel using clock, or time.Now when clock is nil.
func NewChannel(clock func() time.Time) *Channel {
	if clock == nil {
		clock = time.Now
	}
	return &Channel{now: clock}
}

// Add replaces the slot with a new message.
func (c *Channel) Add(text string, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = Message{Text: text, Kind: kind}
	c.shownAt = c.now()
	c.set = true
}

// Current returns the visible message, if any.
func (c *Channel) Current() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set {
		return Message{}, false
	}
	if c.now().Sub(c.shownAt) >= VisibleFor {
		c.set = false
		c.current = Message{}
		return Message{}, false
	}
	return c.current, true
}

// Remaining returns how long the current message stays visible.
func (c *Channel) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.set {
		return 0
	}
	left := VisibleFor - c.now().Sub(c.shownAt)
	if left < 0 {
		return 0
	}
	return left
}

// FromQuery decodes a message when both query parameters are present.
func FromQuery(q url.Values) (Message, bool) {
	if !q.Has(QueryMessage) || !q.Has(QueryType) {
		return Message{}, false
	}
	text := strings.TrimSpace(q.Get(QueryMessage))
	if text == "" {
		return Message{}, false
	}
	return Message{Text: text, Kind: ParseKind(q.Get(QueryType))}, true
}

// HasQuery reports whether u carries any notification parameter.
func HasQuery(u *url.URL) bool {
	if u == nil {
		return false
	}
	q := u.Query()
	return q.Has(QueryMessage) || q.Has(QueryType)
}

// StripQuery returns a copy of u without the notification parameters.
func StripQuery(u *url.URL) *url.URL {
	if u == nil {
		return nil
	}
	out := *u
	q := out.Query()
	q.Del(QueryMessage)
	q.Del(QueryType)
	out.RawQuery = q.Encode()
	return &out
}

// RedirectURL appends msg to target as query parameters.
func RedirectURL(target string, msg Message) string {
	u, err := url.Parse(target)
	if err != nil || target == "" {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	q.Set(QueryMessage, msg.Text)
	q.Set(QueryType, string(msg.Kind))
	u.RawQuery = q.Encode()
	return u.String()
}
