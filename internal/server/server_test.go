package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lvalen91/pi-carplay-capture-sub001/internal/protocol"
)

func TestBroadcastEnvelope(t *testing.T) {
	s := New("127.0.0.1:0")

	ts := httptest.NewServer(s.httpSrv.Handler)
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error = %v", err)
	}
	defer conn.Close()

	// wait until the server registered the client
	deadline := time.Now().Add(2 * time.Second)
	for s.ClientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("client never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hdr := &protocol.Header{Type: protocol.MsgTypeCommand, Length: 4}
	msg := &protocol.CommandMessage{Value: protocol.CmdPlay}
	s.Broadcast(hdr, msg)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error = %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("envelope is not valid JSON: %v", err)
	}
	if env.Name != "Command" || env.Type != uint32(protocol.MsgTypeCommand) {
		t.Errorf("envelope = %+v, want Command type", env)
	}
	if !strings.Contains(env.Summary, "play") {
		t.Errorf("summary = %q, want play command", env.Summary)
	}
}

func TestBroadcastWithoutClients(t *testing.T) {
	s := New("127.0.0.1:0")
	// must not panic or block
	s.Broadcast(&protocol.Header{Type: protocol.MsgTypeHeartBeat}, nil)
	if s.ClientCount() != 0 {
		t.Errorf("client count = %d, want 0", s.ClientCount())
	}
}

func TestStart_ShutdownOnCancel(t *testing.T) {
	s := New("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start() error = %v, want nil after graceful shutdown", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Start() did not return after cancel")
	}
}
