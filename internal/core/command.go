package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandJoin enrolls the client into a room.
	CommandJoin CommandKind = iota
	// CommandSetReady toggles the client's readiness flag.
	CommandSetReady
	// CommandStatus requests a snapshot of the client's room.
	CommandStatus
	// CommandLeave removes the client from its room.
	CommandLeave
	// CommandPing is a liveness probe answered with a pong.
	CommandPing
)

// Command represents an action requested by a client.
type Command struct {
	Kind      CommandKind
	Room      string
	LocalPort int
	GameID    string
	Ready     bool
}
