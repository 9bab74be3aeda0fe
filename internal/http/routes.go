package http

import (
	"time"

	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Limits are the rate limiter budgets.
type Limits struct {
	API        int
	APIWindow  time.Duration
	Auth       int
	AuthWindow time.Duration
}

type Deps struct {
	Handler  *handlers.Handler
	Health   *handlers.HealthHandler
	Hub      *ws.Hub
	Limiter  *middleware.RateLimiter
	Limits   Limits
	Timeout  time.Duration
	Frontend string
	// WSOrigin restricts websocket upgrades; empty allows any origin.
	WSOrigin string
}

// NewEngine builds the gin engine with the shared middleware stack.
func NewEngine(d Deps) *gin.Engine {
	middleware.RegisterValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(d.Frontend))

	RegisterRoutes(r, d)
	return r
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	h := d.Handler
	if d.Limiter == nil {
		d.Limiter = middleware.NewRateLimiter(nil)
	}

	// Health checks (no rate limiting)
	if d.Health != nil {
		r.GET("/health", d.Health.Health)
		r.GET("/healthz", d.Health.Liveness)
		r.GET("/readyz", d.Health.Readiness)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if d.Hub != nil {
		r.GET("/ws", h.WS(d.Hub, d.WSOrigin))
	}

	api := r.Group("/api")
	api.Use(middleware.Timeout(d.Timeout))

	authRL := d.Limiter.Limit("auth", d.Limits.Auth, d.Limits.AuthWindow)
	auth := api.Group("/auth")
	{
		auth.POST("/register", authRL, h.Register)
		auth.POST("/login", authRL, h.Login)
	}

	// everything below needs a bearer token
	private := api.Group("")
	private.Use(middleware.Auth(h.Auth))
	private.Use(d.Limiter.Limit("api", d.Limits.API, d.Limits.APIWindow))
	registerAPIRoutes(private, h)
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler) {
	api.GET("/auth/me", h.Me)
	api.GET("/auth/check", h.Check)

	tasks := api.Group("/tasks")
	{
		tasks.GET("", h.ListTasks)
		tasks.POST("", h.CreateTask)
		tasks.GET("/stats", h.TaskStats)
		tasks.GET("/recent", h.RecentTasks)
		tasks.PATCH("/:id", h.UpdateTask)
		tasks.DELETE("/:id", h.DeleteTask)
		tasks.POST("/:id/comments", h.AddComment)
	}

	statuses := api.Group("/task-status")
	{
		statuses.GET("", h.ListStatuses)
		statuses.POST("", h.CreateStatus)
		statuses.POST("/reorder", h.ReorderStatuses)
		statuses.PUT("/:id", h.UpdateStatus)
		statuses.DELETE("/:id", h.DeleteStatus)
	}

	api.GET("/users", h.ListUsers)
	api.PATCH("/users/:id", h.UpdateUser)

	activity := api.Group("/activity")
	{
		activity.GET("/recent", h.RecentActivity)
		activity.GET("/user", h.UserActivity)
		activity.GET("/task/:taskId", h.TaskActivity)
	}

	notifications := api.Group("/notifications")
	{
		notifications.GET("/unread", h.UnreadNotifications)
		notifications.GET("/count", h.NotificationCount)
		notifications.POST("/read-all", h.MarkAllNotificationsRead)
		notifications.POST("/:activityId/read", h.MarkNotificationRead)
	}

	api.GET("/dashboard", h.Dashboard)

	api.GET("/stats/system", h.SystemStats)
	api.GET("/stats/user", h.UserStats)

	reports := api.Group("/reports")
	{
		reports.GET("/tasks", h.TaskReport)
		reports.GET("/users", h.UserReport)
		reports.GET("/system", h.SystemReport)
	}
}
