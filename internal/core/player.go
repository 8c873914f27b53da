package core

// PlayerState is the per-client mutable record held while the client is
// joined to a room. It is created on join, mutated by ready toggles and
// destroyed on leave or disconnect, always in lockstep with the room index.
type PlayerState struct {
	Room     string
	Ready    bool
	Endpoint string // ip:port the peer expects direct connection attempts on
	GameID   string
}

// PlayerSnapshot is the public view of a player, safe to fan out to peers.
type PlayerSnapshot struct {
	ClientID string
	Endpoint string
	Ready    bool
	GameID   string
}

// RoomStatus is an aggregate snapshot of one room at a point in time.
type RoomStatus struct {
	Room         string
	TotalPlayers int
	ReadyCount   int
	AllReady     bool
	Players      []PlayerSnapshot
}

// RoomSummary is the condensed listing entry used by admin endpoints.
type RoomSummary struct {
	Room         string
	TotalPlayers int
	ReadyCount   int
	AllReady     bool
}
