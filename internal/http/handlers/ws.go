package handlers

import (
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
)

// WS upgrades authenticated clients (?token=) onto the realtime hub.
func (h *Handler) WS(hub *ws.Hub, allowedOrigin string) gin.HandlerFunc {
	return ws.HandleWS(hub, h.Auth, allowedOrigin)
}
