package handler

import (
	"nft-escrow-broker/internal/adapter/http/middleware"
	"nft-escrow-broker/internal/core/ports"
	"nft-escrow-broker/internal/observability"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	ManagementSvc  ports.EscrowManagementService
	TokenSvc       ports.TokenService
	HealthCheckers []ports.HealthChecker
	Metrics        *observability.Metrics // nil = default prometheus handler
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// API v1 routes (JWT-authenticated service API)
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	v1 := r.Group("/api/v1", jwtAuth)

	escrowHandler := NewEscrowHandler(deps.ManagementSvc)
	escrows := v1.Group("/escrows")
	{
		escrows.POST("", escrowHandler.CreateEscrow)
		escrows.GET("/:id", escrowHandler.GetEscrow)
	}

	projectHandler := NewProjectHandler(deps.ManagementSvc)
	projects := v1.Group("/projects")
	{
		projects.POST("", projectHandler.CreateProject)
		projects.GET("/:id", projectHandler.GetProject)
	}

	return r
}
