package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/deniz/fleettrack/internal/app/models"
)

// Authorizer decides whether a user may subscribe to a bus topic
type Authorizer interface {
	CanSubscribeBus(ctx context.Context, userID string, role models.RoleType, busID string) error
}

// Handler for WebSocket connections
type Handler struct {
	hub        *Hub
	authorizer Authorizer
	logger     zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authorizer Authorizer, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		authorizer: authorizer,
		logger:     logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to a bus's live location feed
// @Description Upgrades the HTTP connection to a WebSocket subscription on the bus topic
// @Tags tracking, websocket
// @Security BearerAuth
// @Param id path string true "Bus ID"
// @Success 101 {string} string "Switching Protocols to WebSocket"
// @Failure 401 {object} gin.H "Unauthorized: JWT token missing or invalid"
// @Failure 403 {object} gin.H "Forbidden: User has no relationship with this bus"
// @Router /ws/buses/{id}/location [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	busID := c.Param("id")

	// Set by the auth middleware
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in context",
		})
		return
	}
	userID, _ := userIDValue.(string)

	roleValue, _ := c.Get("userRole")
	role, _ := roleValue.(models.RoleType)

	if err := h.authorizer.CanSubscribeBus(c, userID, role, busID); err != nil {
		h.logger.Warn().
			Str("busID", busID).
			Str("userID", userID).
			Msg("Subscription denied")
		c.JSON(http.StatusForbidden, gin.H{
			"error": "You are not allowed to track this bus",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("busID", busID).
			Str("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, h.hub.sendBufferSize),
		userID: userID,
		busID:  busID,
		logger: h.logger,
	}
	h.hub.Subscribe(busID, client)

	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("busID", busID).
		Str("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
