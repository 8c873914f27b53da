package http

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/peerlink-games/rendezvous-server/internal/proto"
)

func TestHealthEndpoint(t *testing.T) {
	ts := startTestServer(t)

	resp, err := ts.Client().Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

// The upgrade must succeed through the assembled server handler, not just
// through the raw WSHandler: hijacking fails behind the gin router, so /ws
// has to stay on the outer mux.
func TestUpgradeThroughServerHandler(t *testing.T) {
	ts := startTestServer(t)
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, resp, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial through server handler: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	if resp.StatusCode != 101 {
		t.Fatalf("expected switching protocols, got %d", resp.StatusCode)
	}

	sendInbound(t, ctx, conn, proto.InboundTypePing, nil)
	readUntil(t, ctx, conn, proto.OutboundTypePong)
}

func TestPunchExchangeOverWebSocket(t *testing.T) {
	ts := startTestServer(t)
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial A: %v", err)
	}
	defer connA.Close(websocket.StatusNormalClosure, "done")

	connB, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial B: %v", err)
	}
	defer connB.Close(websocket.StatusNormalClosure, "done")

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{Room: "r1", LocalPort: 100})
	joinedA := readUntil(t, ctx, connA, proto.OutboundTypeJoined)
	var ackA proto.JoinedData
	if err := json.Unmarshal(joinedA.Data, &ackA); err != nil {
		t.Fatalf("unmarshal joined ack: %v", err)
	}
	if ackA.Room != "r1" || ackA.PlayerCount != 1 || ackA.ClientID == "" {
		t.Fatalf("unexpected joined ack: %+v", ackA)
	}

	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{Room: "r1", LocalPort: 200})
	readUntil(t, ctx, connB, proto.OutboundTypeJoined)

	// Existing member hears about the arrival.
	notice := readUntil(t, ctx, connA, proto.OutboundTypePlayerJoined)
	var joinedData proto.PlayerJoinedData
	if err := json.Unmarshal(notice.Data, &joinedData); err != nil {
		t.Fatalf("unmarshal player_joined: %v", err)
	}
	if !strings.HasSuffix(joinedData.Player.Endpoint, ":200") {
		t.Fatalf("unexpected arrival endpoint: %q", joinedData.Player.Endpoint)
	}

	sendInbound(t, ctx, connA, proto.InboundTypeReady, proto.ReadyData{Ready: true})
	sendInbound(t, ctx, connB, proto.InboundTypeReady, proto.ReadyData{Ready: true})

	punchA := readUntil(t, ctx, connA, proto.OutboundTypePunch)
	var peersA proto.PunchData
	if err := json.Unmarshal(punchA.Data, &peersA); err != nil {
		t.Fatalf("unmarshal punch A: %v", err)
	}
	if len(peersA.Peers) != 1 || !strings.HasSuffix(peersA.Peers[0].Endpoint, ":200") {
		t.Fatalf("unexpected peers for A: %+v", peersA.Peers)
	}
	if peersA.Peers[0].ClientID == ackA.ClientID {
		t.Fatal("peer list must not include the recipient")
	}

	punchB := readUntil(t, ctx, connB, proto.OutboundTypePunch)
	var peersB proto.PunchData
	if err := json.Unmarshal(punchB.Data, &peersB); err != nil {
		t.Fatalf("unmarshal punch B: %v", err)
	}
	if len(peersB.Peers) != 1 || !strings.HasSuffix(peersB.Peers[0].Endpoint, ":100") {
		t.Fatalf("unexpected peers for B: %+v", peersB.Peers)
	}
}

func TestUnknownMessageKeepsConnectionOpen(t *testing.T) {
	ts := startTestServer(t)
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	sendInbound(t, ctx, conn, "bogus", nil)
	frame := readUntil(t, ctx, conn, proto.OutboundTypeError)
	if frame.Error == nil || frame.Error.Code != "invalid_message" {
		t.Fatalf("unexpected error frame: %+v", frame)
	}

	// The connection survives the protocol error.
	sendInbound(t, ctx, conn, proto.InboundTypePing, nil)
	readUntil(t, ctx, conn, proto.OutboundTypePong)
}

func TestMalformedFrameKeepsConnectionOpen(t *testing.T) {
	ts := startTestServer(t)
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	if err := conn.Write(ctx, websocket.MessageText, []byte("{not json")); err != nil {
		t.Fatalf("write malformed frame: %v", err)
	}
	readUntil(t, ctx, conn, proto.OutboundTypeError)

	sendInbound(t, ctx, conn, proto.InboundTypePing, nil)
	readUntil(t, ctx, conn, proto.OutboundTypePong)
}

func TestDisconnectCleansUpRoom(t *testing.T) {
	ts := startTestServer(t)
	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial A: %v", err)
	}
	defer connA.Close(websocket.StatusNormalClosure, "done")

	connB, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial B: %v", err)
	}

	sendInbound(t, ctx, connA, proto.InboundTypeJoin, proto.JoinData{Room: "r1", LocalPort: 100})
	readUntil(t, ctx, connA, proto.OutboundTypeJoined)
	sendInbound(t, ctx, connB, proto.InboundTypeJoin, proto.JoinData{Room: "r1", LocalPort: 200})
	readUntil(t, ctx, connB, proto.OutboundTypeJoined)
	readUntil(t, ctx, connA, proto.OutboundTypePlayerJoined)

	connB.Close(websocket.StatusNormalClosure, "bye")

	// Survivor sees the room shrink back to one member.
	for {
		frame := readUntil(t, ctx, connA, proto.OutboundTypeRoomStatus)
		var status proto.RoomStatusData
		if err := json.Unmarshal(frame.Data, &status); err != nil {
			t.Fatalf("unmarshal status: %v", err)
		}
		if status.TotalPlayers == 1 {
			if status.AllReady {
				t.Fatalf("lone player must not be all_ready: %+v", status)
			}
			return
		}
	}
}
