package core

import (
	"context"
	"net"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/peerlink-games/rendezvous-server/internal/metrics"
)

// Hub is the session coordinator. A single goroutine started by Run owns
// the connection registry, the player state table and the room index, so
// every mutation and every snapshot observes a consistent state without
// locks. Transport handlers talk to it through channels only.
type Hub struct {
	quorum int
	log    zerolog.Logger

	register   chan *Client
	unregister chan *Client
	inbox      chan envelope
	queries    chan func()

	clients map[string]*Client      // connection registry
	players map[string]*PlayerState // player state table
	rooms   map[string]*Room        // room index
}

type envelope struct {
	client *Client
	cmd    *Command
}

// NewHub constructs a coordinator with the given ready quorum. A quorum
// below 2 is clamped to 2; a nil logger disables logging.
func NewHub(quorum int, logger *zerolog.Logger) *Hub {
	if quorum < 2 {
		quorum = 2
	}
	lg := zerolog.Nop()
	if logger != nil {
		lg = *logger
	}
	return &Hub{
		quorum:     quorum,
		log:        lg,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan envelope, 64),
		queries:    make(chan func()),
		clients:    make(map[string]*Client),
		players:    make(map[string]*PlayerState),
		rooms:      make(map[string]*Room),
	}
}

// RegisterClient adds a live connection to the registry.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c
}

// UnregisterClient removes a connection and cleans up all state tied to it.
// Safe to call for a client that was never registered or already removed.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Run processes registrations, commands and admin queries until the context
// is cancelled. All table mutations happen on this goroutine.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c.ID] = c
			metrics.ConnectedClients.Inc()
			h.log.Debug().Str("client_id", c.ID).Str("addr", c.Addr).Msg("client registered")
			go h.pump(ctx, c)
		case c := <-h.unregister:
			h.drop(c)
		case env := <-h.inbox:
			h.dispatch(env.client, env.cmd)
		case fn := <-h.queries:
			fn()
		}
	}
}

// pump forwards a client's commands into the hub's single inbox, preserving
// per-connection receipt order.
func (h *Hub) pump(ctx context.Context, c *Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-c.Commands:
			if !ok {
				return
			}
			select {
			case h.inbox <- envelope{client: c, cmd: cmd}:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *Hub) dispatch(c *Client, cmd *Command) {
	if _, live := h.clients[c.ID]; !live {
		// Command raced with a disconnect; the client is gone.
		return
	}
	metrics.CommandsTotal.WithLabelValues(commandLabel(cmd.Kind)).Inc()

	switch cmd.Kind {
	case CommandJoin:
		h.handleJoin(c, cmd)
	case CommandSetReady:
		h.handleSetReady(c, cmd)
	case CommandStatus:
		h.handleStatus(c)
	case CommandLeave:
		h.handleLeave(c)
	case CommandPing:
		h.send(c, &Event{Kind: EventPong})
	}
}

func (h *Hub) handleJoin(c *Client, cmd *Command) {
	// Re-join without leave: detach from the previous room first so a
	// client can never appear twice in any member list.
	if prev, ok := h.players[c.ID]; ok {
		h.detach(c, prev)
	}

	endpoint := net.JoinHostPort(c.Addr, strconv.Itoa(cmd.LocalPort))
	h.players[c.ID] = &PlayerState{
		Room:     cmd.Room,
		Endpoint: endpoint,
		GameID:   cmd.GameID,
	}

	room, ok := h.rooms[cmd.Room]
	if !ok {
		room = NewRoom(cmd.Room)
		h.rooms[cmd.Room] = room
		metrics.ActiveRooms.Inc()
	}
	existing := room.Members()
	room.Append(c)
	room.punched = false

	h.log.Info().
		Str("client_id", c.ID).
		Str("room", cmd.Room).
		Str("endpoint", endpoint).
		Int("players", room.Len()).
		Msg("player joined")

	h.send(c, &Event{
		Kind:        EventJoined,
		Room:        cmd.Room,
		ClientID:    c.ID,
		PlayerCount: room.Len(),
	})

	joined := h.snapshotPlayer(c.ID)
	for _, m := range existing {
		h.send(m, &Event{Kind: EventPlayerJoined, Room: cmd.Room, ClientID: c.ID, Player: joined})
	}

	room.Broadcast(h.statusEvent(room))
}

func (h *Hub) handleSetReady(c *Client, cmd *Command) {
	st, ok := h.players[c.ID]
	if !ok {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeNotJoined, "join a room first")})
		return
	}

	if st.Ready != cmd.Ready {
		st.Ready = cmd.Ready
		if room, ok := h.rooms[st.Room]; ok && !cmd.Ready {
			room.punched = false
		}
	}

	h.send(c, &Event{Kind: EventReadyAck, Room: st.Room, Ready: st.Ready})

	if room, ok := h.rooms[st.Room]; ok {
		h.checkRoomReady(room)
	}
}

func (h *Hub) handleStatus(c *Client) {
	st, ok := h.players[c.ID]
	if !ok {
		h.send(c, &Event{Kind: EventError, Error: coreError(ErrCodeNotJoined, "join a room first")})
		return
	}
	if room, ok := h.rooms[st.Room]; ok {
		h.send(c, h.statusEvent(room))
	}
}

func (h *Hub) handleLeave(c *Client) {
	st, joined := h.players[c.ID]
	if joined {
		h.detach(c, st)
	}
	// Ack even a redundant quit; the second leave is a pure no-op otherwise.
	room := ""
	if joined {
		room = st.Room
	}
	h.send(c, &Event{Kind: EventQuit, Room: room})
}

// drop handles a disconnect: full cleanup, no ack.
func (h *Hub) drop(c *Client) {
	if _, live := h.clients[c.ID]; !live {
		return
	}
	delete(h.clients, c.ID)
	metrics.ConnectedClients.Dec()

	if st, ok := h.players[c.ID]; ok {
		h.detach(c, st)
	}
	// The transport has stopped reading and writing by the time it
	// unregisters, so both channels can be torn down here. Closing
	// Commands also ends the pump goroutine for this client.
	close(c.Commands)
	close(c.Events)
	h.log.Debug().Str("client_id", c.ID).Msg("client unregistered")
}

// detach removes the client from the player table and its room, deletes the
// room if it emptied, and otherwise re-checks readiness for the survivors.
func (h *Hub) detach(c *Client, st *PlayerState) {
	delete(h.players, c.ID)

	room, ok := h.rooms[st.Room]
	if !ok {
		return
	}
	room.Remove(c)
	room.punched = false

	if room.Empty() {
		delete(h.rooms, st.Room)
		metrics.ActiveRooms.Dec()
		h.log.Info().Str("room", st.Room).Msg("room emptied and removed")
		return
	}
	h.checkRoomReady(room)
}

// checkRoomReady broadcasts the room status and, when every member of a
// quorum-sized room is ready, fans out one PUNCHNOW per member carrying the
// other ready members' endpoints in join order.
func (h *Hub) checkRoomReady(room *Room) {
	status := h.roomStatus(room)
	room.Broadcast(&Event{Kind: EventRoomStatus, Room: room.Name, Status: status})

	if !status.AllReady || room.punched {
		return
	}
	room.punched = true
	metrics.PunchRounds.Inc()
	h.log.Info().Str("room", room.Name).Int("players", status.TotalPlayers).Msg("room ready, sending punch notifications")

	for _, member := range room.Members() {
		peers := make([]PlayerSnapshot, 0, len(status.Players)-1)
		for _, p := range status.Players {
			if p.ClientID != member.ID {
				peers = append(peers, p)
			}
		}
		h.send(member, &Event{Kind: EventPunch, Room: room.Name, Peers: peers})
	}
}

// send delivers an event to one client, best effort. A full event buffer
// means the client misses this update; it can recover with a status query.
func (h *Hub) send(c *Client, event *Event) {
	select {
	case c.Events <- event:
	default:
		h.log.Warn().Str("client_id", c.ID).Msg("event dropped for slow consumer")
	}
}

func (h *Hub) statusEvent(room *Room) *Event {
	return &Event{Kind: EventRoomStatus, Room: room.Name, Status: h.roomStatus(room)}
}

func (h *Hub) roomStatus(room *Room) *RoomStatus {
	status := &RoomStatus{
		Room:         room.Name,
		TotalPlayers: room.Len(),
		Players:      make([]PlayerSnapshot, 0, room.Len()),
	}
	for _, m := range room.Members() {
		snap := h.snapshotPlayer(m.ID)
		if snap == nil {
			continue
		}
		if snap.Ready {
			status.ReadyCount++
		}
		status.Players = append(status.Players, *snap)
	}
	// A room is all-ready only once it could actually punch: every member
	// ready and at least a quorum of them present.
	status.AllReady = status.TotalPlayers >= h.quorum && status.ReadyCount == status.TotalPlayers
	return status
}

func (h *Hub) snapshotPlayer(clientID string) *PlayerSnapshot {
	st, ok := h.players[clientID]
	if !ok {
		return nil
	}
	return &PlayerSnapshot{
		ClientID: clientID,
		Endpoint: st.Endpoint,
		Ready:    st.Ready,
		GameID:   st.GameID,
	}
}

// ListRooms returns a summary of every live room, sorted by name. It runs
// on the coordinator goroutine, like every other state access.
func (h *Hub) ListRooms(ctx context.Context) ([]RoomSummary, error) {
	var out []RoomSummary
	err := h.do(ctx, func() {
		out = make([]RoomSummary, 0, len(h.rooms))
		for _, room := range h.rooms {
			s := h.roomStatus(room)
			out = append(out, RoomSummary{
				Room:         s.Room,
				TotalPlayers: s.TotalPlayers,
				ReadyCount:   s.ReadyCount,
				AllReady:     s.AllReady,
			})
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Room < out[j].Room })
	})
	return out, err
}

// RoomDetail returns a full snapshot of one room, or ErrRoomNotFound.
func (h *Hub) RoomDetail(ctx context.Context, name string) (*RoomStatus, error) {
	var status *RoomStatus
	err := h.do(ctx, func() {
		if room, ok := h.rooms[name]; ok {
			status = h.roomStatus(room)
		}
	})
	if err != nil {
		return nil, err
	}
	if status == nil {
		return nil, ErrRoomNotFound
	}
	return status, nil
}

// ClearRoom force-removes every member of a room, acknowledging each with a
// quit event. Connections stay open; the clients fall back to unjoined.
// Returns the number of members removed, or ErrRoomNotFound.
func (h *Hub) ClearRoom(ctx context.Context, name string) (int, error) {
	cleared := -1
	err := h.do(ctx, func() {
		room, ok := h.rooms[name]
		if !ok {
			return
		}
		members := room.Members()
		cleared = len(members)
		for _, m := range members {
			delete(h.players, m.ID)
			room.Remove(m)
			h.send(m, &Event{Kind: EventQuit, Room: name})
		}
		delete(h.rooms, name)
		metrics.ActiveRooms.Dec()
		h.log.Info().Str("room", name).Int("players", cleared).Msg("room cleared by admin")
	})
	if err != nil {
		return 0, err
	}
	if cleared < 0 {
		return 0, ErrRoomNotFound
	}
	return cleared, nil
}

// do runs fn on the coordinator goroutine and waits for completion.
func (h *Hub) do(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	select {
	case h.queries <- func() { fn(); close(done) }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func commandLabel(k CommandKind) string {
	switch k {
	case CommandJoin:
		return "join"
	case CommandSetReady:
		return "ready"
	case CommandStatus:
		return "status"
	case CommandLeave:
		return "leave"
	case CommandPing:
		return "ping"
	default:
		return "unknown"
	}
}
