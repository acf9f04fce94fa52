package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dogwatch-dev/dogwatch/internal/access"
	"github.com/dogwatch-dev/dogwatch/internal/auth"
	"github.com/dogwatch-dev/dogwatch/internal/handlers"
	"github.com/dogwatch-dev/dogwatch/internal/logging"
	"github.com/dogwatch-dev/dogwatch/internal/metrics"
	"github.com/dogwatch-dev/dogwatch/internal/middleware"
	"github.com/dogwatch-dev/dogwatch/internal/services"
	"github.com/dogwatch-dev/dogwatch/internal/store"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Store          *store.Store
	Sessions       *auth.Manager
	Metrics        *metrics.Metrics
	Logger         *slog.Logger
	Health         handlers.HealthReporter
	Notifier       *services.Notifier
	AllowedOrigins []string
	Version        string
}

// NewRouter wires every route behind the session middleware and the access
// gate. Each route names the operation it performs.
func NewRouter(deps Deps) (*gin.Engine, *handlers.Handler) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	m := deps.Metrics
	if m == nil {
		m = metrics.New()
	}

	gate := access.NewGate(access.DefaultPolicy(), m)
	hub := handlers.NewHub(deps.AllowedOrigins, logger)
	handlers.NotifyListings(hub, deps.Notifier, logger)

	h := handlers.New(handlers.Options{
		Store:    deps.Store,
		Sessions: deps.Sessions,
		Gate:     gate,
		Hub:      hub,
		Health:   deps.Health,
		Logger:   logger,
		Version:  deps.Version,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.RequestLogger(logger))
	r.Use(m.Middleware())

	if len(deps.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     deps.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Requested-With"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(middleware.Session(deps.Sessions, deps.Store, logger))

	r.GET("/health", gate.Guard(access.OpHealth), h.HealthCheck)
	r.GET("/metrics", gate.Guard(access.OpMetrics), gin.WrapH(m.Handler()))
	r.GET("/ws/dogs", gate.Guard(access.OpDogFeed), h.DogFeed)

	r.POST("/signup", gate.Guard(access.OpSignup), h.CreateUser)
	r.POST("/login", gate.Guard(access.OpLogin), h.LoginUser)
	r.DELETE("/logout", gate.Guard(access.OpLogout), h.LogoutUser)
	r.GET("/check_session", gate.Guard(access.OpCheckSession), h.Me)
	r.DELETE("/account", gate.Guard(access.OpDeleteAccount), h.DeleteUser)

	r.GET("/breeds", gate.Guard(access.OpListBreeds), h.ListBreeds)
	r.GET("/breeds/api/:api_id/dogs", gate.Guard(access.OpListDogsByBreed), h.ListDogsByBreed)

	dogs := r.Group("/dogs")
	{
		dogs.GET("", gate.Guard(access.OpListDogs), h.ListDogs)
		dogs.POST("", gate.Guard(access.OpCreateDog), h.CreateDog)
		dogs.GET("/:id", gate.Guard(access.OpGetDog), h.GetDog)
		dogs.PATCH("/:id", gate.Guard(access.OpUpdateDog), h.UpdateDog)
		dogs.DELETE("/:id", gate.Guard(access.OpDeleteDog), h.DeleteDog)
	}

	r.NoRoute(func(ctx *gin.Context) {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r, h
}
