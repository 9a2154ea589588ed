// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"routebee/internal/http/handlers"
	"routebee/internal/http/middleware"
)

type RouterDeps struct {
	Planner     handlers.Planner
	Metrics     middleware.RequestObserver
	MetricsPage http.Handler
	Log         *zap.Logger
	CORSOrigins []string
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	// Recovery sits inside Logging and Metrics so a recovered panic still
	// produces an access line and a 500 sample.
	r.Use(middleware.Logging(deps.Log))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.Recovery(deps.Log))
	r.Use(cors.New(corsConfig(deps.CORSOrigins)))

	routeHandler := handlers.NewRouteHandler(deps.Planner, deps.Log)
	r.GET("/api/routes", routeHandler.Search)
	r.GET("/health", handlers.Health)
	if deps.MetricsPage != nil {
		r.GET("/metrics", gin.WrapH(deps.MetricsPage))
	}
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", middleware.RequestIDHeader}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
