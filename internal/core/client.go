package core

// Client is one live connection as seen by the core layer. Addr is the
// observed source IP, used to build the player's punch endpoint.
type Client struct {
	ID       string
	Addr     string
	Commands chan *Command
	Events   chan *Event
}

// NewClient constructs a client with initialized channels.
func NewClient(id, addr string) *Client {
	return &Client{
		ID:       id,
		Addr:     addr,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 8),
	}
}
