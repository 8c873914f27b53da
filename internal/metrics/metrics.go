package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// ConnectedClients tracks live WebSocket connections.
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rendezvous_connected_clients",
		Help: "Number of currently connected clients.",
	})

	// ActiveRooms tracks rooms with at least one member.
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "rendezvous_active_rooms",
		Help: "Number of rooms with at least one member.",
	})

	// PunchRounds counts completed endpoint exchanges.
	PunchRounds = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rendezvous_punch_rounds_total",
		Help: "Number of PUNCHNOW rounds fanned out.",
	})

	// CommandsTotal counts processed client commands by type.
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rendezvous_commands_total",
		Help: "Number of client commands processed, by command type.",
	}, []string{"type"})
)

// Handler exposes the prometheus registry, mounted at /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
