package http

import (
	"encoding/json"

	"github.com/peerlink-games/rendezvous-server/internal/core"
	"github.com/peerlink-games/rendezvous-server/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*core.Command, *proto.Error) {
	switch inbound.Type {
	case proto.InboundTypeJoin:
		var join proto.JoinData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &join); err != nil {
				return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed join payload"}
			}
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "room is required"}
		}
		if join.LocalPort <= 0 || join.LocalPort > 65535 {
			return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "local_port must be 1-65535"}
		}
		return &core.Command{
			Kind:      core.CommandJoin,
			Room:      join.Room,
			LocalPort: join.LocalPort,
			GameID:    join.GameID,
		}, nil
	case proto.InboundTypeReady, proto.InboundTypeReadyState:
		var ready proto.ReadyData
		if len(inbound.Data) > 0 {
			if err := json.Unmarshal(inbound.Data, &ready); err != nil {
				return nil, &proto.Error{Code: core.ErrCodeBadRequest, Msg: "malformed ready payload"}
			}
		}
		return &core.Command{
			Kind:  core.CommandSetReady,
			Ready: ready.Ready,
		}, nil
	case proto.InboundTypeStatus:
		return &core.Command{Kind: core.CommandStatus}, nil
	case proto.InboundTypeQuit, proto.InboundTypeLeave:
		return &core.Command{Kind: core.CommandLeave}, nil
	case proto.InboundTypePing:
		return &core.Command{Kind: core.CommandPing}, nil
	default:
		return nil, &proto.Error{Code: core.ErrCodeUnknownMessage, Msg: "unknown message type"}
	}
}

func outboundFromEvent(event *core.Event) proto.Outbound {
	switch event.Kind {
	case core.EventJoined:
		return proto.Outbound{
			Type: proto.OutboundTypeJoined,
			Data: proto.JoinedData{
				ClientID:    event.ClientID,
				Room:        event.Room,
				PlayerCount: event.PlayerCount,
			},
		}
	case core.EventPlayerJoined:
		data := proto.PlayerJoinedData{Room: event.Room}
		if event.Player != nil {
			data.Player = playerInfo(*event.Player)
		}
		return proto.Outbound{Type: proto.OutboundTypePlayerJoined, Data: data}
	case core.EventRoomStatus:
		data := proto.RoomStatusData{Room: event.Room}
		if event.Status != nil {
			data = roomStatusData(event.Status)
		}
		return proto.Outbound{Type: proto.OutboundTypeRoomStatus, Data: data}
	case core.EventReadyAck:
		return proto.Outbound{
			Type: proto.OutboundTypeReadyAck,
			Data: proto.ReadyAckData{Ready: event.Ready},
		}
	case core.EventPong:
		return proto.Outbound{Type: proto.OutboundTypePong}
	case core.EventPunch:
		peers := make([]proto.PlayerInfo, 0, len(event.Peers))
		for _, p := range event.Peers {
			peers = append(peers, playerInfo(p))
		}
		return proto.Outbound{
			Type: proto.OutboundTypePunch,
			Data: proto.PunchData{Room: event.Room, Peers: peers},
		}
	case core.EventQuit:
		return proto.Outbound{
			Type: proto.OutboundTypeQuit,
			Data: proto.QuitData{Room: event.Room},
		}
	case core.EventError:
		if event.Error == nil {
			return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unknown error"}}
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeError,
			Error: &proto.Error{Code: event.Error.Code, Msg: event.Error.Message},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeError, Error: &proto.Error{Code: "unknown", Msg: "unmapped event"}}
	}
}

func playerInfo(p core.PlayerSnapshot) proto.PlayerInfo {
	return proto.PlayerInfo{
		ClientID: p.ClientID,
		Endpoint: p.Endpoint,
		Ready:    p.Ready,
		GameID:   p.GameID,
	}
}

func roomStatusData(s *core.RoomStatus) proto.RoomStatusData {
	players := make([]proto.PlayerInfo, 0, len(s.Players))
	for _, p := range s.Players {
		players = append(players, playerInfo(p))
	}
	return proto.RoomStatusData{
		Room:         s.Room,
		TotalPlayers: s.TotalPlayers,
		ReadyCount:   s.ReadyCount,
		AllReady:     s.AllReady,
		Players:      players,
	}
}
