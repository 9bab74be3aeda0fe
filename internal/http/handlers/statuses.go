package handlers

import (
	"net/http"

	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListStatuses(c *gin.Context) {
	statuses, err := h.Statuses.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (h *Handler) CreateStatus(c *gin.Context) {
	var req service.CreateStatusInput
	if !bind(c, &req, "Nombre y color son requeridos") {
		return
	}
	st, err := h.Statuses.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, st)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateStatusInput
	if !bind(c, &req, "El formato de la solicitud es inválido") {
		return
	}
	st, err := h.Statuses.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) DeleteStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.Statuses.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	message(c, "Estado eliminado exitosamente")
}

// ReorderStatuses takes {"orders": [{"id": 1, "order": 2}, ...]}.
func (h *Handler) ReorderStatuses(c *gin.Context) {
	var req service.ReorderInput
	if !bind(c, &req, "El formato de la solicitud es inválido") {
		return
	}
	statuses, err := h.Statuses.Reorder(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}
