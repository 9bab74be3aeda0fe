package handlers

import (
	"net/http"

	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// UpdateUser only lets callers change their own name.
func (h *Handler) UpdateUser(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateUserInput
	if !bind(c, &req, "El formato de la solicitud es inválido") {
		return
	}

	updated, err := h.Users.Update(c.Request.Context(), u.ID, id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
