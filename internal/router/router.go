package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/handlers"
	"github.com/monocle-dev/taskboard/internal/middleware"
)

type Options struct {
	Issuer         *auth.Issuer
	Users          middleware.UserLookup
	AllowedOrigins []string
	RequestTimeout time.Duration
}

func NewRouter(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     opts.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	requireAuth := middleware.AuthMiddleware(opts.Issuer, opts.Users)
	timeout := middleware.Timeout(opts.RequestTimeout)

	api := r.Group("/api")
	{
		api.GET("/health", h.HealthCheck)

		// Long lived; no request timeout.
		api.GET("/ws", requireAuth, h.WebSocket)

		authGroup := api.Group("/auth", timeout)
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
		}

		tasks := api.Group("/tasks", timeout, requireAuth)
		{
			tasks.GET("", h.ListTasks)
			tasks.POST("", h.CreateTask)
			tasks.GET("/export", h.ExportBoard)
			tasks.PUT("/:id", h.UpdateTask)
			tasks.DELETE("/:id", h.DeleteTask)
			tasks.POST("/:id/smart-assign", h.SmartAssign)
		}

		users := api.Group("/users", timeout, requireAuth)
		{
			users.GET("", h.ListUsers)
			users.GET("/me", h.Me)
		}

		api.GET("/actions", timeout, requireAuth, h.RecentActions)
	}

	return r
}
