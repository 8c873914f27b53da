package http

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/peerlink-games/rendezvous-server/internal/auth"
	"github.com/peerlink-games/rendezvous-server/internal/config"
	"github.com/peerlink-games/rendezvous-server/internal/core"
	"github.com/peerlink-games/rendezvous-server/internal/proto"
	"github.com/peerlink-games/rendezvous-server/internal/session"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "hunter22"
)

// startTestServer spins up the full router with a live hub and a login
// service backed by temp files.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := core.NewHub(2, nil)
	go hub.Run(ctx)

	dir := t.TempDir()
	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	credsPath := filepath.Join(dir, "credentials.csv")
	if err := os.WriteFile(credsPath, []byte("email,password_hash\n"+testEmail+","+hash+"\n"), 0o600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}

	tokens := session.NewStore(filepath.Join(dir, "tokens.json"), 15*time.Minute)
	authService := auth.NewService(auth.NewVerifier(credsPath), tokens, nil)

	cfg := config.Default()
	cfg.Addr = ":0"

	nop := zerolog.Nop()
	server := NewServer(hub, authService, &cfg, &nop)

	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)
	return ts
}

type outboundFrame struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

// readUntil reads frames until one of the wanted type arrives.
func readUntil(t *testing.T, ctx context.Context, conn *websocket.Conn, wantType string) outboundFrame {
	t.Helper()

	for {
		var frame outboundFrame
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			t.Fatalf("read waiting for %q: %v", wantType, err)
		}
		if frame.Type == wantType {
			return frame
		}
	}
}

func sendInbound(t *testing.T, ctx context.Context, conn *websocket.Conn, msgType string, data any) {
	t.Helper()

	var raw json.RawMessage
	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			t.Fatalf("marshal %s payload: %v", msgType, err)
		}
		raw = payload
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: raw}); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}
