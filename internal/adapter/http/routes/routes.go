package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todolists/internal/adapter/http/handler"
	"todolists/internal/adapter/http/middleware"
	"todolists/internal/core/port"
	"todolists/internal/shared"
)

type HandlersConfig struct {
	AuthHandler *handler.AuthHandler
	ListHandler *handler.ListHandler
	TodoHandler *handler.TodoHandler
	Sessions    port.SessionStore
}

func SetupRouter(handlers HandlersConfig, metrics *shared.AppMetrics, logger *shared.LokiLogger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, shared.GetDefaultConfig())
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *shared.AppMetrics, logger *shared.LokiLogger, config *shared.AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	shared.SetupGinMiddlewareWithConfig(router, "todolists", metrics, logger, config)

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if handlers.AuthHandler != nil {
		setupPublicRoutes(router, handlers.AuthHandler)
		setupAccountRoutes(router, handlers)
	}

	if handlers.ListHandler != nil || handlers.TodoHandler != nil {
		setupProtectedRoutes(router, handlers)
	}
}

func setupPublicRoutes(router *gin.Engine, authHandler *handler.AuthHandler) {
	public := router.Group("/")
	{
		public.POST("/signup", authHandler.RegisterByEmailAndPassword)
		public.POST("/auth", authHandler.AuthByEmailAndPassword)
	}
}

func setupAccountRoutes(router *gin.Engine, handlers HandlersConfig) {
	account := router.Group("/")
	account.Use(middleware.SessionMiddleware(handlers.Sessions))
	account.Use(middleware.CurrentMiddleware())
	{
		account.POST("/logout", handlers.AuthHandler.Logout)
		account.DELETE("/account", handlers.AuthHandler.DeleteAccount)
	}
}

func setupProtectedRoutes(router *gin.Engine, handlers HandlersConfig) {
	protected := router.Group("/api")
	protected.Use(middleware.SessionMiddleware(handlers.Sessions))
	protected.Use(middleware.CurrentMiddleware())
	{
		if handlers.ListHandler != nil {
			protected.GET("/lists", handlers.ListHandler.GetAllLists)
			protected.POST("/lists", handlers.ListHandler.CreateList)
			// Reorder is registered before :uuid so gin does not treat
			// "reorder" as an identifier.
			protected.POST("/lists/reorder", handlers.ListHandler.ReorderLists)
			protected.GET("/lists/:uuid", handlers.ListHandler.GetList)
			protected.PUT("/lists/:uuid", handlers.ListHandler.UpdateList)
			protected.DELETE("/lists/:uuid", handlers.ListHandler.DeleteList)
		}

		if handlers.TodoHandler != nil {
			protected.GET("/todos/search", handlers.TodoHandler.SearchTodos)
			protected.POST("/todos", handlers.TodoHandler.CreateTodo)
			protected.GET("/todos/:uuid", handlers.TodoHandler.GetTodo)
			protected.PUT("/todos/:uuid", handlers.TodoHandler.UpdateTodo)
			protected.PATCH("/todos/:uuid/toggle", handlers.TodoHandler.ToggleTodo)
			protected.DELETE("/todos/:uuid", handlers.TodoHandler.DeleteTodo)
			protected.POST("/todos/:uuid/reorder", handlers.TodoHandler.ReorderTodo)
		}
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	registerRoutes(router, handlers)

	return router
}
