package core

// Room tracks its members in join order. Order matters: peer lists in punch
// notifications enumerate members as they arrived, with no extra sorting.
type Room struct {
	Name    string
	members []*Client

	// punched marks that a punch round already fired for the current
	// readiness epoch. It resets whenever membership changes or any
	// member drops readiness, so a round fires once per epoch.
	punched bool
}

// NewRoom constructs a room with no members.
func NewRoom(name string) *Room {
	return &Room{Name: name}
}

// Append adds a client at the tail. Returns false if already a member.
func (r *Room) Append(c *Client) bool {
	for _, m := range r.members {
		if m == c {
			return false
		}
	}
	r.members = append(r.members, c)
	return true
}

// Remove deletes a client preserving the order of the remaining members.
// Returns true if the client was a member.
func (r *Room) Remove(c *Client) bool {
	for i, m := range r.members {
		if m == c {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return true
		}
	}
	return false
}

// Members returns a snapshot of the member list in join order.
func (r *Room) Members() []*Client {
	out := make([]*Client, len(r.members))
	copy(out, r.members)
	return out
}

// Len returns the current member count.
func (r *Room) Len() int {
	return len(r.members)
}

// Empty returns true if no clients remain in the room.
func (r *Room) Empty() bool {
	return len(r.members) == 0
}

// Broadcast sends an event to all members. Delivery is best effort: a
// slow consumer misses the event rather than stalling the coordinator.
func (r *Room) Broadcast(event *Event) {
	for _, client := range r.members {
		select {
		case client.Events <- event:
		default:
			// Drop if slow consumer.
		}
	}
}
