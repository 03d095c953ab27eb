package handlers

import (
	"net/http"
	"time"

	"expense_tracker/internal/logger"
	"expense_tracker/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const statusOK = "ok"

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services   *service.Service
	log        *logger.Logger
	loc        *time.Location
	production bool
}

type Option func(*Handler)

// WithLocation sets the zone used to read date-only inputs.
func WithLocation(loc *time.Location) Option {
	return func(h *Handler) {
		if loc != nil {
			h.loc = loc
		}
	}
}

// WithProduction hides error traces from 500 responses.
func WithProduction(production bool) Option {
	return func(h *Handler) { h.production = production }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log, loc: time.UTC}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(h.requestLogger, gin.CustomRecovery(h.recoverPanic))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	h.registerUserRoutes(router)
	h.registerExpenseRoutes(router)

	// Dashboard stream (HTTP upgrade) on the same port
	router.GET("/ws/dashboard", h.userIdMiddleware, h.wsDashboard)

	return router
}

func (h *Handler) registerUserRoutes(r *gin.Engine) {
	users := r.Group("/api/users")
	{
		users.POST("/signup", h.signUp)
		users.POST("/login", h.login)
		users.GET("/me", h.userIdMiddleware, h.me)
	}
}

func (h *Handler) registerExpenseRoutes(r *gin.Engine) {
	expenses := r.Group("/api/expenses", h.userIdMiddleware)
	{
		expenses.GET("", h.listExpenses)
		expenses.POST("", h.createExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpense)

		expenses.GET("/dashboard", h.dashboard)
		expenses.GET("/calendar", h.calendar)
		expenses.GET("/history", h.history)
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}
