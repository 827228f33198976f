package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"tableside-ordering/kiosk-svc/internal/logger"
	"tableside-ordering/kiosk-svc/internal/service"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SnapshotHub pushes session snapshots to every connected kiosk screen.
// Only Run writes to connections.
type SnapshotHub struct {
	session    service.FlowController
	log        *logger.Logger
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	notify     chan struct{}
	done       chan struct{}

	mu     sync.Mutex
	latest *service.Snapshot
}

func NewSnapshotHub(session service.FlowController, log *logger.Logger) *SnapshotHub {
	if log == nil {
		log = logger.Discard()
	}
	return &SnapshotHub{
		session:    session,
		log:        log,
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		notify:     make(chan struct{}, 1),
		done:       make(chan struct{}),
	}
}

// Publish never blocks; a burst of snapshots collapses into the newest one.
func (h *SnapshotHub) Publish(snap service.Snapshot) {
	h.mu.Lock()
	if h.latest == nil || snap.Revision > h.latest.Revision {
		h.latest = &snap
	}
	h.mu.Unlock()

	select {
	case h.notify <- struct{}{}:
	default:
	}
}

// Run must be called exactly once. Snapshots older than the last one pushed
// are dropped.
func (h *SnapshotHub) Run(ctx context.Context) {
	defer close(h.done)
	var sent uint64
	for {
		select {
		case <-ctx.Done():
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			return

		case conn := <-h.register:
			h.clients[conn] = true
			snap := h.session.Snapshot()
			h.write(conn, snap)
			if snap.Revision > sent {
				sent = snap.Revision
			}

		case conn := <-h.unregister:
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}

		case <-h.notify:
			h.mu.Lock()
			snap := h.latest
			h.latest = nil
			h.mu.Unlock()
			if snap == nil || snap.Revision <= sent {
				continue
			}
			sent = snap.Revision
			for conn := range h.clients {
				h.write(conn, *snap)
			}
		}
	}
}

func (h *SnapshotHub) write(conn *websocket.Conn, snap service.Snapshot) {
	if err := conn.WriteJSON(snap); err != nil {
		h.log.Warn("ws_write", snap.SessionID, "Dropping websocket client", slog.String("error", err.Error()))
		conn.Close()
		delete(h.clients, conn)
	}
}

func (h *SnapshotHub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws_upgrade", "", "Websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}
	go h.listen(conn)
}

// listen drains client frames so close and ping control messages are handled.
func (h *SnapshotHub) listen(conn *websocket.Conn) {
	defer func() {
		select {
		case h.unregister <- conn:
		case <-h.done:
		}
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
