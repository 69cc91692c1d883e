package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "budgetbuddy/docs" // registers the OpenAPI document with swag
	"budgetbuddy/internal/handler"
	"budgetbuddy/internal/middleware"
	"budgetbuddy/internal/service"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	authSvc service.AuthService,
	allowedOrigins []string,
	logger *zap.Logger,
	authH *handler.AuthHandler,
	chatH *handler.ChatHandler,
	expenseH *handler.ExpenseHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authH.Register)
	auth.POST("/login", authH.Login)
	auth.POST("/refresh", authH.RefreshToken)

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	chat := protected.Group("/chat")
	chat.POST("/turns", chatH.StartTurn)
	chat.POST("/turns/continue", chatH.ContinueTurn)

	expenses := protected.Group("/expenses")
	expenses.POST("", expenseH.Create)
	expenses.GET("", expenseH.List)
	expenses.GET("/summary", expenseH.Summary)
	expenses.GET("/export", expenseH.Export)
	expenses.POST("/export/link", expenseH.ExportLink)
	expenses.GET("/:id", expenseH.GetByID)
	expenses.DELETE("/:id", expenseH.Delete)

	return r
}
