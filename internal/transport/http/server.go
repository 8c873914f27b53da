package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peerlink-games/rendezvous-server/internal/auth"
	"github.com/peerlink-games/rendezvous-server/internal/config"
	"github.com/peerlink-games/rendezvous-server/internal/core"
	"github.com/peerlink-games/rendezvous-server/internal/metrics"
)

// NewServer builds the HTTP server: health, metrics, login, the admin room
// endpoints and the WebSocket entry into the coordinator.
//
// The WebSocket route hangs off a plain ServeMux rather than gin: the
// upgrade hijacks the connection, and gin's ResponseWriter refuses to
// hijack once the 101 status has been written.
func NewServer(hub *core.Hub, authService *auth.Service, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery(), LoggerMiddleware(logger))

	router.GET("/healthz", healthHandler)
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := NewAPIHandlers(authService, logger)
	router.POST("/login", api.Login)

	admin := NewAdminHandlers(hub, logger)
	adminGroup := router.Group("/api", AuthMiddleware(authService, logger))
	adminGroup.GET("/rooms", admin.ListRooms)
	adminGroup.GET("/rooms/:room", admin.RoomDetail)
	adminGroup.DELETE("/rooms/:room", admin.ClearRoom)

	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", NewWSHandler(hub, cfg.MaxMessageBytes, logger))
	mux.Handle("/", router)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
