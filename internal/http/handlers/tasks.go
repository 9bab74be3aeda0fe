package handlers

import (
	"net/http"

	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) ListTasks(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	tasks, err := h.Tasks.List(c.Request.Context(), u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) TaskStats(c *gin.Context) {
	stats, err := h.Tasks.Stats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) RecentTasks(c *gin.Context) {
	tasks, err := h.Tasks.Recent(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

func (h *Handler) CreateTask(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	var req service.CreateTaskInput
	if !bind(c, &req, "Todos los campos son requeridos") {
		return
	}

	task, err := h.Tasks.Create(c.Request.Context(), u, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *Handler) UpdateTask(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.UpdateTaskInput
	if !bind(c, &req, "El formato de la solicitud es inválido") {
		return
	}

	task, err := h.Tasks.Update(c.Request.Context(), u, id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.Tasks.Delete(c.Request.Context(), u, id); err != nil {
		h.respondError(c, err)
		return
	}
	message(c, "Tarea eliminada exitosamente")
}

func (h *Handler) AddComment(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req service.CommentInput
	if !bind(c, &req, "El texto del comentario es requerido") {
		return
	}

	comment, err := h.Tasks.AddComment(c.Request.Context(), u, id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
