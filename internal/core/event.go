package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventJoined acknowledges a join to the joining client.
	EventJoined EventKind = iota
	// EventPlayerJoined notifies existing members about a new arrival.
	EventPlayerJoined
	// EventRoomStatus delivers an aggregate room snapshot.
	EventRoomStatus
	// EventReadyAck confirms a readiness toggle to its sender.
	EventReadyAck
	// EventPong answers a ping.
	EventPong
	// EventPunch tells a ready client to start hole punching toward its peers.
	EventPunch
	// EventQuit acknowledges an explicit leave or an admin room clear.
	EventQuit
	// EventError notifies the sender about a rejected request.
	EventError
)

// Event is sent to clients to describe what happened in the system.
// Only the fields relevant to the Kind are populated.
type Event struct {
	Kind        EventKind
	Room        string
	ClientID    string
	PlayerCount int
	Ready       bool
	Player      *PlayerSnapshot  // EventPlayerJoined
	Status      *RoomStatus      // EventRoomStatus
	Peers       []PlayerSnapshot // EventPunch
	Error       *CoreError       // EventError
}
