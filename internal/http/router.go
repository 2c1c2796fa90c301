package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/Daffa964/api-edutrash/internal/config"
	"github.com/Daffa964/api-edutrash/internal/http/handler"
	httpmiddleware "github.com/Daffa964/api-edutrash/internal/http/middleware"
	"github.com/Daffa964/api-edutrash/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, authHandler *handler.AuthHandler, authMiddleware *httpmiddleware.Auth, rateLimiter *middleware.RateLimiter, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(logger))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/", authHandler.Root)
	r.GET("/healthz", authHandler.Healthz)

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)
	r.GET("/user/:id", authMiddleware.ValidateJWT, authHandler.GetUser)

	r.POST("/generatefunfact", authHandler.GenerateFunFact)

	return r
}
