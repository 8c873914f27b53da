package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeJoin       = "join"
	InboundTypeReady      = "ready"
	InboundTypeReadyState = "ready_state" // alias kept for older clients
	InboundTypeStatus     = "status"
	InboundTypeQuit       = "quit"
	InboundTypeLeave      = "leave" // alias kept for older clients
	InboundTypePing       = "ping"

	OutboundTypeJoined       = "joined"
	OutboundTypePlayerJoined = "player_joined"
	OutboundTypeRoomStatus   = "room_status"
	OutboundTypeReadyAck     = "ready_ack"
	OutboundTypePong         = "pong"
	OutboundTypePunch        = "PUNCHNOW"
	OutboundTypeQuit         = "quit"
	OutboundTypeError        = "error"
)

// JoinData requests membership in a room. The server derives the player's
// punch endpoint from the observed source IP and the declared local port.
type JoinData struct {
	Room      string `json:"room"`
	LocalPort int    `json:"local_port"`
	GameID    string `json:"game_id,omitempty"`
}

// ReadyData toggles the sender's readiness flag.
type ReadyData struct {
	Ready bool `json:"ready"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// PlayerInfo is the public view of a player shared with room peers.
type PlayerInfo struct {
	ClientID string `json:"client_id"`
	Endpoint string `json:"endpoint"`
	Ready    bool   `json:"ready"`
	GameID   string `json:"game_id,omitempty"`
}

// JoinedData acknowledges a join to the joining client.
type JoinedData struct {
	ClientID    string `json:"client_id"`
	Room        string `json:"room"`
	PlayerCount int    `json:"player_count"`
}

// PlayerJoinedData notifies pre-existing members about a new arrival.
type PlayerJoinedData struct {
	Room   string     `json:"room"`
	Player PlayerInfo `json:"player"`
}

// RoomStatusData is the aggregate room snapshot fanned out to members.
type RoomStatusData struct {
	Room         string       `json:"room"`
	TotalPlayers int          `json:"total_players"`
	ReadyCount   int          `json:"ready_count"`
	AllReady     bool         `json:"all_ready"`
	Players      []PlayerInfo `json:"players"`
}

// ReadyAckData echoes the applied readiness value back to the sender.
type ReadyAckData struct {
	Ready bool `json:"ready"`
}

// PunchData carries the peer endpoints a ready client should punch toward.
// Peers are listed in room join order and never include the recipient.
type PunchData struct {
	Room  string       `json:"room"`
	Peers []PlayerInfo `json:"peers"`
}

// QuitData acknowledges an explicit leave.
type QuitData struct {
	Room string `json:"room,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
