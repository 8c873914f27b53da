package http

import (
	"encoding/json"
	"testing"

	"github.com/peerlink-games/rendezvous-server/internal/core"
	"github.com/peerlink-games/rendezvous-server/internal/proto"
)

func TestInboundToCommand(t *testing.T) {
	cases := []struct {
		name     string
		inbound  proto.Inbound
		wantKind core.CommandKind
		wantErr  string
	}{
		{
			name:     "join",
			inbound:  proto.Inbound{Type: "join", Data: json.RawMessage(`{"room":"r1","local_port":100,"game_id":"tanks"}`)},
			wantKind: core.CommandJoin,
		},
		{
			name:    "join without room",
			inbound: proto.Inbound{Type: "join", Data: json.RawMessage(`{"local_port":100}`)},
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:    "join with bad port",
			inbound: proto.Inbound{Type: "join", Data: json.RawMessage(`{"room":"r1","local_port":70000}`)},
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:    "join with malformed payload",
			inbound: proto.Inbound{Type: "join", Data: json.RawMessage(`"nope"`)},
			wantErr: core.ErrCodeBadRequest,
		},
		{
			name:     "ready",
			inbound:  proto.Inbound{Type: "ready", Data: json.RawMessage(`{"ready":true}`)},
			wantKind: core.CommandSetReady,
		},
		{
			name:     "ready_state alias",
			inbound:  proto.Inbound{Type: "ready_state", Data: json.RawMessage(`{"ready":false}`)},
			wantKind: core.CommandSetReady,
		},
		{
			name:     "status",
			inbound:  proto.Inbound{Type: "status"},
			wantKind: core.CommandStatus,
		},
		{
			name:     "quit",
			inbound:  proto.Inbound{Type: "quit"},
			wantKind: core.CommandLeave,
		},
		{
			name:     "leave alias",
			inbound:  proto.Inbound{Type: "leave"},
			wantKind: core.CommandLeave,
		},
		{
			name:     "ping",
			inbound:  proto.Inbound{Type: "ping"},
			wantKind: core.CommandPing,
		},
		{
			name:    "unknown type",
			inbound: proto.Inbound{Type: "teleport"},
			wantErr: core.ErrCodeUnknownMessage,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, protoErr := inboundToCommand(tc.inbound)
			if tc.wantErr != "" {
				if protoErr == nil || protoErr.Code != tc.wantErr {
					t.Fatalf("expected error %q, got cmd=%+v err=%+v", tc.wantErr, cmd, protoErr)
				}
				return
			}
			if protoErr != nil {
				t.Fatalf("unexpected error: %+v", protoErr)
			}
			if cmd.Kind != tc.wantKind {
				t.Fatalf("expected kind %v, got %v", tc.wantKind, cmd.Kind)
			}
		})
	}
}

func TestOutboundFromEvent(t *testing.T) {
	punch := outboundFromEvent(&core.Event{
		Kind: core.EventPunch,
		Room: "r1",
		Peers: []core.PlayerSnapshot{
			{ClientID: "c2", Endpoint: "10.0.0.2:200", Ready: true},
		},
	})
	if punch.Type != proto.OutboundTypePunch {
		t.Fatalf("expected PUNCHNOW, got %q", punch.Type)
	}
	data, ok := punch.Data.(proto.PunchData)
	if !ok {
		t.Fatalf("unexpected punch payload type %T", punch.Data)
	}
	if len(data.Peers) != 1 || data.Peers[0].Endpoint != "10.0.0.2:200" {
		t.Fatalf("unexpected punch payload: %+v", data)
	}

	status := outboundFromEvent(&core.Event{
		Kind: core.EventRoomStatus,
		Room: "r1",
		Status: &core.RoomStatus{
			Room:         "r1",
			TotalPlayers: 2,
			ReadyCount:   1,
			Players: []core.PlayerSnapshot{
				{ClientID: "c1", Endpoint: "10.0.0.1:100", Ready: true},
				{ClientID: "c2", Endpoint: "10.0.0.2:200"},
			},
		},
	})
	sd, ok := status.Data.(proto.RoomStatusData)
	if !ok {
		t.Fatalf("unexpected status payload type %T", status.Data)
	}
	if sd.TotalPlayers != 2 || sd.ReadyCount != 1 || sd.AllReady {
		t.Fatalf("unexpected status payload: %+v", sd)
	}
	if sd.Players[0].ClientID != "c1" || sd.Players[1].ClientID != "c2" {
		t.Fatalf("status must preserve join order: %+v", sd.Players)
	}

	errFrame := outboundFromEvent(&core.Event{Kind: core.EventError, Error: &core.CoreError{Code: "not_joined", Message: "join a room first"}})
	if errFrame.Type != proto.OutboundTypeError || errFrame.Error == nil || errFrame.Error.Code != "not_joined" {
		t.Fatalf("unexpected error frame: %+v", errFrame)
	}
}
