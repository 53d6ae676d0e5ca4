package server

import (
	"net/http"

	"github.com/gorilla/websocket"

	"AlbumGap/logger"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ProgressEvent is one scan progress update pushed to websocket clients.
// There is no ordering guarantee between updates from different scanner
// workers; clients should treat counters as monotonic highwater marks.
type ProgressEvent struct {
	RunID      string `json:"runId"`
	Processed  int    `json:"processed"`
	Discovered int    `json:"discovered"`
}

// ProgressHub fans scan progress out to connected websocket clients.
type ProgressHub struct {
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	events     chan ProgressEvent
	clients    map[*websocket.Conn]bool
}

// NewProgressHub creates the hub; call Run in a goroutine to start it.
func NewProgressHub() *ProgressHub {
	return &ProgressHub{
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		events:     make(chan ProgressEvent, 64),
		clients:    make(map[*websocket.Conn]bool),
	}
}

// Run owns the client set; all mutation happens on this goroutine.
func (h *ProgressHub) Run() {
	for {
		select {
		case conn := <-h.register:
			h.clients[conn] = true
		case conn := <-h.unregister:
			if h.clients[conn] {
				delete(h.clients, conn)
				conn.Close()
			}
		case event := <-h.events:
			for conn := range h.clients {
				if err := conn.WriteJSON(event); err != nil {
					logger.Debug("progress client dropped", logger.ErrorField(err))
					delete(h.clients, conn)
					conn.Close()
				}
			}
		}
	}
}

// Broadcast queues a progress event; slow consumers never block the scanner.
func (h *ProgressHub) Broadcast(event ProgressEvent) {
	select {
	case h.events <- event:
	default:
	}
}

// ProgressSocketHandler upgrades the connection and streams scan progress
// until the client disconnects.
func (h *APIHandler) ProgressSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", logger.ErrorField(err))
		return
	}

	h.hub.register <- conn

	// Drain (and discard) client reads so pings and close frames are handled.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.hub.unregister <- conn
				return
			}
		}
	}()
}
