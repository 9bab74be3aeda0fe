package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/domain"
	"taskboard/internal/http/middleware"
	"taskboard/internal/logger"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
)

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	// Production hides internal error details from clients.
	Production bool
}

type Handler struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Tasks         *service.TaskService
	Statuses      *service.StatusService
	Activities    *service.ActivityService
	Notifications *service.NotificationService
	Stats         *service.StatsService

	cfg HandlerConfig
}

// Services groups what the handlers call into.
type Services struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Tasks         *service.TaskService
	Statuses      *service.StatusService
	Activities    *service.ActivityService
	Notifications *service.NotificationService
	Stats         *service.StatsService
}

func NewHandler(s Services, cfg HandlerConfig) *Handler {
	return &Handler{
		Auth:          s.Auth,
		Users:         s.Users,
		Tasks:         s.Tasks,
		Statuses:      s.Statuses,
		Activities:    s.Activities,
		Notifications: s.Notifications,
		Stats:         s.Stats,
		cfg:           cfg,
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if msg := domain.Message(err); msg != "" {
		switch {
		case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrConflict):
			c.JSON(http.StatusBadRequest, gin.H{"message": msg})
			return
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"message": msg})
			return
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"message": msg})
			return
		case errors.Is(err, domain.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": msg})
			return
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "request timeout"})
		return
	}

	_ = c.Error(err)
	logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
	if h.cfg.Production {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error en el servidor"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Error en el servidor", "error": err.Error()})
}

// currentUser writes a 401 when the auth middleware did not run.
func currentUser(c *gin.Context) (*domain.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No autorizado"})
	}
	return u, ok
}

// paramID parses a positive path id, writing a 400 otherwise.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "ID inválido"})
		return 0, false
	}
	return id, true
}

// bind decodes the JSON body, answering 400 with msg on failure.
func bind(c *gin.Context, dst any, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": msg})
		return false
	}
	return true
}

func message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"message": msg})
}
