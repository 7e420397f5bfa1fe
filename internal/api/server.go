package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/dhima/recipe-list-platform/docs"
	"github.com/dhima/recipe-list-platform/internal/api/handlers"
	"github.com/dhima/recipe-list-platform/internal/api/middleware"
	"github.com/dhima/recipe-list-platform/internal/app"
	"github.com/dhima/recipe-list-platform/internal/logging"
	"github.com/dhima/recipe-list-platform/pkg/config"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// Server orchestrates HTTP routing for the API service.
type Server struct {
	config config.App
	logger logging.Logger
	router *gin.Engine
	app    *app.App
}

// NewServer builds the router over an already wired app.
func NewServer(a *app.App) *Server {
	if a.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	server := &Server{
		config: a.Config,
		logger: logging.Component(a.Logger, "api"),
		app:    a,
	}
	server.setupRouter()
	return server
}

// Router exposes the configured engine, mainly for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) setupRouter() {
	router := gin.New()
	zapLogger := s.logger.Zap()

	// Recovery first so panics in later middleware are caught.
	router.Use(ginzap.RecoveryWithZap(zapLogger, true))
	router.Use(middleware.RequestID())
	router.Use(ginzap.GinzapWithConfig(zapLogger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/health", "/metrics"},
		Context: func(c *gin.Context) []zap.Field {
			return []zap.Field{zap.String("request_id", c.GetString(middleware.RequestIDKey))}
		},
	}))
	router.Use(s.app.Metrics.GinMiddleware())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: !allowsAnyOrigin(s.config.CORSOrigins),
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handlers.NewHealthHandler(s.logger, s.app.Store).Health)
	router.GET("/metrics", gin.WrapH(s.app.Metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		recipeHandler := handlers.NewRecipeHandler(s.logger, s.app.RecipeList, s.app.RecipeMain)
		recipes := v1.Group("/recipes")
		{
			recipes.GET("", recipeHandler.ListRecipes)
			recipes.POST("", recipeHandler.SaveRecipe)
			recipes.PUT("/:id", recipeHandler.UpdateRecipe)
			recipes.DELETE("/:id", recipeHandler.RemoveRecipe)
		}
	}

	s.router = router
}

// gin-contrib/cors rejects a wildcard origin combined with credentials.
func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return len(origins) == 0
}

// Serve starts the HTTP server and blocks until SIGINT or SIGTERM, then
// shuts down gracefully.
func (s *Server) Serve() error {
	addr := ":" + s.config.APIPort
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.logger.Info("starting API server",
			zap.String("address", addr),
			zap.String("environment", s.config.Environment),
			zap.String("database_driver", s.app.Store.Dialect().Name),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-quit
	s.logger.Info("shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	s.logger.Info("server stopped")
	return nil
}
