package handlers

import (
	"net/http"

	"taskboard/internal/domain"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Dashboard takes ?period=today|week|month; anything else means today.
func (h *Handler) Dashboard(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	d, err := h.Stats.Dashboard(c.Request.Context(), u.ID, domain.ParsePeriod(c.Query("period")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) UserStats(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		return
	}
	st, err := h.Stats.UserStats(c.Request.Context(), u.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) SystemStats(c *gin.Context) {
	st, err := h.Stats.SystemStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) TaskReport(c *gin.Context) {
	r, err := service.ParseRange(c.Query("startDate"), c.Query("endDate"), true)
	if err != nil {
		h.respondError(c, err)
		return
	}
	rep, err := h.Stats.TaskReport(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) UserReport(c *gin.Context) {
	r, err := service.ParseRange(c.Query("startDate"), c.Query("endDate"), true)
	if err != nil {
		h.respondError(c, err)
		return
	}
	rep, err := h.Stats.UserReport(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (h *Handler) SystemReport(c *gin.Context) {
	r, err := service.ParseRange(c.Query("startDate"), c.Query("endDate"), false)
	if err != nil {
		h.respondError(c, err)
		return
	}
	rep, err := h.Stats.SystemReport(c.Request.Context(), r)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rep)
}
