package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/damedesign/portfolio/internal/domain/notification"
)

const (
	feedPingInterval = 30 * time.Second
	feedWriteTimeout = 10 * time.Second
)

//nolint:gochecknoglobals // shared upgrader; the default origin check rejects cross-site pages
var inboxUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// InboxPage lists contact submissions, newest first.
// GET /admin/inbox.
func (h *UIHandlers) InboxPage(w http.ResponseWriter, r *http.Request) {
	h.Page(w, r, PageSpec{
		Meta: PageMeta{Title: "Skrzynka odbiorcza", CurrentPage: PageInbox},
		Fetch: func(ctx context.Context, data map[string]any) error {
			inbox, err := h.Inbox.Load(ctx)
			if err != nil {
				return err
			}
			data["Submissions"] = inbox.Submissions
			data["Unread"] = inbox.Unread
			data["FeedEnabled"] = h.Feed != nil
			return nil
		},
	})
}

// InboxMarkRead flags one submission as read.
// POST /admin/inbox/{id}/read.
func (h *UIHandlers) InboxMarkRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if err := h.Inbox.MarkRead(r.Context(), id); err != nil {
		h.toastError(w, r, err)
		return
	}
	if IsHTMX(r) {
		SetHXTrigger(w, "inbox:read", map[string]int64{"id": id})
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/admin/inbox", http.StatusSeeOther)
}

// InboxDelete removes exactly one submission.
// POST /admin/inbox/{id}/delete.
func (h *UIHandlers) InboxDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	if err := h.Inbox.Delete(r.Context(), id); err != nil {
		h.toastError(w, r, err)
		return
	}
	respondDeleted(w, r, notification.Success("Wiadomość usunięta."), "/admin/inbox")
}

// InboxFeed streams contact submission changes over a websocket. The inbox
// page plays a sound on inserts and reloads its list on every event.
// GET /admin/inbox/feed.
func (h *UIHandlers) InboxFeed(w http.ResponseWriter, r *http.Request) {
	if h.Feed == nil {
		http.Error(w, "feed unavailable", http.StatusServiceUnavailable)
		return
	}
	conn, err := inboxUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger().WarnContext(r.Context(), "inbox feed upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	unsubscribe, events := h.Feed.Subscribe()
	defer unsubscribe()
	h.Metrics.FeedConnected(1)
	defer h.Metrics.FeedConnected(-1)

	// The client never sends data; reading surfaces the close handshake.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger().DebugContext(r.Context(), "inbox feed read", "error", err)
				}
				return
			}
		}
	}()

	ping := time.NewTicker(feedPingInterval)
	defer ping.Stop()
	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case evt, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(feedWriteTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(feedWriteTimeout))
			if err := conn.WriteJSON(evt); err != nil {
				h.logger().DebugContext(r.Context(), "inbox feed write", "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(feedWriteTimeout)); err != nil {
				return
			}
		}
	}
}
