package api

import (
	"time"

	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/quantex/fixgate/internal/gateway"
)

// Server represents the API server
type Server struct {
	router    *gin.Engine
	logger    *zap.Logger
	svc       *gateway.Service
	validator *validator.Validate
}

// NewServer creates a new API server around the gateway service
func NewServer(logger *zap.Logger, svc *gateway.Service) *Server {
	server := &Server{
		logger:    logger,
		svc:       svc,
		validator: validator.New(),
	}

	router := gin.New()
	router.Use(ginzap.Ginzap(logger, time.RFC3339, true))
	router.Use(ginzap.RecoveryWithZap(logger, true))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server.router = router
	server.registerRoutes()
	return server
}

// Start starts the API server
func (s *Server) Start(addr string) error {
	s.logger.Info("Starting API server", zap.String("addr", addr))
	return s.router.Run(addr)
}

// Router returns the internal Gin engine for testing purposes
func (s *Server) Router() *gin.Engine {
	return s.router
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/metrics", gin.WrapH(promhttp.Handler()))
		v1.GET("/health", s.healthCheck)

		orders := v1.Group("/orders")
		{
			orders.POST("", s.createOrder)
		}

		fixGroup := v1.Group("/fix")
		{
			fixGroup.POST("/decode", s.decodeMessage)
			fixGroup.POST("/messages", s.processMessage)
		}

		v1.GET("/positions/:symbol", s.getPosition)
	}
}
