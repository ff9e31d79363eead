package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lvalen91/pi-carplay-capture-sub001/internal/logging"
	"github.com/lvalen91/pi-carplay-capture-sub001/internal/protocol"
)

const (
	// Time allowed to write a message to a monitor client
	writeWait = 10 * time.Second

	// Interval between pings to idle clients
	pingPeriod = 30 * time.Second
)

// Envelope is the JSON shape broadcast to monitor clients, one per
// decoded frame. Payload bytes are summarized, never forwarded: video
// and audio data would swamp the stream.
type Envelope struct {
	Type       uint32    `json:"type"`
	Name       string    `json:"name"`
	Length     uint32    `json:"length"`
	Summary    string    `json:"summary,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// Server streams decoded protocol messages to websocket monitor
// clients. Clients are read-only; anything they send is discarded.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

// New creates a monitor server listening on addr.
func New(addr string) *Server {
	s := &Server{
		addr:    addr,
		clients: make(map[*websocket.Conn]bool),
		upgrader: websocket.Upgrader{
			// monitor stream is local diagnostics, any origin may attach
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	s.httpSrv = &http.Server{Addr: addr, Handler: mux}

	return s
}

// Start serves until the context is cancelled, then shuts down
// gracefully and closes all client connections.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)
	go func() {
		logging.Info("Monitor stream listening", zap.String("addr", s.addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("monitor server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s.mu.Lock()
	for conn := range s.clients {
		_ = conn.Close()
	}
	s.clients = make(map[*websocket.Conn]bool)
	s.mu.Unlock()

	return s.httpSrv.Shutdown(shutdownCtx)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn("Monitor client upgrade failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
		return
	}

	logging.Info("Monitor client connected", zap.String("remote_addr", r.RemoteAddr))

	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	// Drain the client and keep it alive; removal happens on first
	// failed write or read.
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}()

	go func() {
		defer s.drop(conn, r.RemoteAddr)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) drop(conn *websocket.Conn, remoteAddr string) {
	s.mu.Lock()
	delete(s.clients, conn)
	s.mu.Unlock()
	_ = conn.Close()
	logging.Info("Monitor client disconnected", zap.String("remote_addr", remoteAddr))
}

// ClientCount returns the number of attached monitor clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends one decoded message to every attached client.
// Clients that fail the write are dropped.
func (s *Server) Broadcast(hdr *protocol.Header, msg protocol.Message) {
	env := Envelope{
		Type:       uint32(hdr.Type),
		Name:       hdr.Type.String(),
		Length:     hdr.Length,
		ReceivedAt: time.Now(),
	}
	if msg != nil {
		env.Summary = msg.String()
	}

	data, err := json.Marshal(env)
	if err != nil {
		logging.Error("Failed to marshal monitor envelope", zap.Error(err))
		return
	}

	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for conn := range s.clients {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	for _, conn := range conns {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.drop(conn, conn.RemoteAddr().String())
		}
	}
}
