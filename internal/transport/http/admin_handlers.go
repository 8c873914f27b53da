package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peerlink-games/rendezvous-server/internal/core"
)

// AdminHandlers exposes room snapshots for debugging. Every handler goes
// through the coordinator goroutine, so snapshots are never torn.
type AdminHandlers struct {
	hub *core.Hub
	log *zerolog.Logger
}

// NewAdminHandlers creates a new admin handlers instance.
func NewAdminHandlers(hub *core.Hub, logger *zerolog.Logger) *AdminHandlers {
	return &AdminHandlers{
		hub: hub,
		log: logger,
	}
}

// RoomSummaryResponse represents a room in the listing.
type RoomSummaryResponse struct {
	Room         string `json:"room"`
	TotalPlayers int    `json:"total_players"`
	ReadyCount   int    `json:"ready_count"`
	AllReady     bool   `json:"all_ready"`
}

// PlayerResponse represents one member in a room detail.
type PlayerResponse struct {
	ClientID string `json:"client_id"`
	Endpoint string `json:"endpoint"`
	Ready    bool   `json:"ready"`
	GameID   string `json:"game_id,omitempty"`
}

// RoomDetailResponse represents a full room snapshot.
type RoomDetailResponse struct {
	Room         string           `json:"room"`
	TotalPlayers int              `json:"total_players"`
	ReadyCount   int              `json:"ready_count"`
	AllReady     bool             `json:"all_ready"`
	Players      []PlayerResponse `json:"players"`
}

// ClearRoomResponse reports how many members an admin clear removed.
type ClearRoomResponse struct {
	Room    string `json:"room"`
	Cleared int    `json:"cleared"`
}

// ListRooms returns a summary of all live rooms.
// GET /api/rooms
func (h *AdminHandlers) ListRooms(c *gin.Context) {
	rooms, err := h.hub.ListRooms(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list rooms")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	response := make([]RoomSummaryResponse, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, RoomSummaryResponse{
			Room:         room.Room,
			TotalPlayers: room.TotalPlayers,
			ReadyCount:   room.ReadyCount,
			AllReady:     room.AllReady,
		})
	}
	c.JSON(http.StatusOK, response)
}

// RoomDetail returns a full snapshot of one room.
// GET /api/rooms/:room
func (h *AdminHandlers) RoomDetail(c *gin.Context) {
	name := c.Param("room")

	status, err := h.hub.RoomDetail(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, core.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Str("room", name).Msg("failed to fetch room detail")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	players := make([]PlayerResponse, 0, len(status.Players))
	for _, p := range status.Players {
		players = append(players, PlayerResponse{
			ClientID: p.ClientID,
			Endpoint: p.Endpoint,
			Ready:    p.Ready,
			GameID:   p.GameID,
		})
	}
	c.JSON(http.StatusOK, RoomDetailResponse{
		Room:         status.Room,
		TotalPlayers: status.TotalPlayers,
		ReadyCount:   status.ReadyCount,
		AllReady:     status.AllReady,
		Players:      players,
	})
}

// ClearRoom force-removes every member of a room.
// DELETE /api/rooms/:room
func (h *AdminHandlers) ClearRoom(c *gin.Context) {
	name := c.Param("room")

	cleared, err := h.hub.ClearRoom(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, core.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
			return
		}
		h.log.Error().Err(err).Str("room", name).Msg("failed to clear room")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
		return
	}

	h.log.Info().Str("room", name).Int("cleared", cleared).Msg("room cleared")
	c.JSON(http.StatusOK, ClearRoomResponse{Room: name, Cleared: cleared})
}
