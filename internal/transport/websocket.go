// SPDX-License-Identifier: MIT
package transport

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"pitchbatch/internal/log"
)

// WebSocketTransport broadcasts progress events as JSON to every client
// connected to /ws. Slow consumers never stall the batch: events are queued
// on a buffered channel and dropped when it fills.
type WebSocketTransport struct {
	addr      string
	upgrader  websocket.Upgrader
	clients   map[*websocket.Conn]struct{}
	clientsMu sync.Mutex
	events    chan any
	server    *http.Server
}

// NewWebSocketTransport starts a progress server listening on addr.
func NewWebSocketTransport(addr string) *WebSocketTransport {
	t := &WebSocketTransport{
		addr: addr,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Progress data is not sensitive; any origin may watch.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*websocket.Conn]struct{}),
		events:  make(chan any, 64),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", t.handleConnect)
	t.server = &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Infof("progress server listening on %s", addr)
		if err := t.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("progress server: %v", err)
		}
	}()
	go t.broadcast()

	return t
}

func (t *WebSocketTransport) handleConnect(w http.ResponseWriter, r *http.Request) {
	conn, err := t.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warnf("progress client upgrade failed: %v", err)
		return
	}

	t.clientsMu.Lock()
	t.clients[conn] = struct{}{}
	n := len(t.clients)
	t.clientsMu.Unlock()
	log.Debugf("progress client connected, total %d", n)

	go func() {
		// Block until the peer goes away, then deregister.
		if _, _, err := conn.ReadMessage(); err != nil {
			t.clientsMu.Lock()
			delete(t.clients, conn)
			t.clientsMu.Unlock()
			conn.Close()
			log.Debugf("progress client disconnected")
		}
	}()
}

func (t *WebSocketTransport) broadcast() {
	for data := range t.events {
		t.clientsMu.Lock()
		for conn := range t.clients {
			if err := conn.WriteJSON(data); err != nil {
				log.Warnf("progress send failed, dropping client: %v", err)
				conn.Close()
				delete(t.clients, conn)
			}
		}
		t.clientsMu.Unlock()
	}
}

// Send queues data for broadcast. Never blocks; returns nil even when the
// queue is full and the event is dropped.
func (t *WebSocketTransport) Send(data any) error {
	select {
	case t.events <- data:
	default:
	}
	return nil
}

// Close disconnects all clients and shuts the server down.
func (t *WebSocketTransport) Close() error {
	t.clientsMu.Lock()
	for conn := range t.clients {
		conn.Close()
	}
	t.clients = make(map[*websocket.Conn]struct{})
	t.clientsMu.Unlock()

	close(t.events)
	return t.server.Close()
}

var _ Transport = (*WebSocketTransport)(nil)
