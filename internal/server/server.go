package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskplanner/internal/config"
	"taskplanner/internal/database"
	"taskplanner/internal/handler"
	"taskplanner/internal/middleware"
	"taskplanner/internal/planner"
	"taskplanner/internal/repository"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger *log.Logger
}

func Init(cfg *config.Config, logger *log.Logger) (*Server, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	logger.Info("✅ Connected to database", "driver", cfg.DBDriver)

	if cfg.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			return nil, fmt.Errorf("❌ failed to migrate: %w", err)
		}
		logger.Info("✅ Schema migrated")
	}

	uow := repository.NewUnitOfWork(db, cfg.TxRetries, logger)
	svc := planner.New(uow, planner.Options{
		PlanStart: cfg.PlanStartDate,
		Logger:    logger,
	})

	return &Server{
		Engine: NewRouter(svc, cfg.JWTSecret),
		DB:     db,
		Config: cfg,
		Logger: logger,
	}, nil
}

// NewRouter registers every API route. Mutating routes require a bearer
// token when jwtSecret is set.
func NewRouter(p handler.Planner, jwtSecret string) *gin.Engine {
	r := gin.Default()

	taskHandler := handler.NewTaskHandler(p)
	subtaskHandler := handler.NewSubtaskHandler(p)
	dependencyHandler := handler.NewDependencyHandler(p)
	planHandler := handler.NewPlanHandler(p)

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/tasks", taskHandler.GetAll)
		api.GET("/tasks/:id", taskHandler.GetByID)
		api.GET("/tasks/:id/dependents", taskHandler.GetDependents)
		api.GET("/graph", planHandler.Graph)
		api.GET("/board", planHandler.Board)
	}

	writes := r.Group("/api")
	if jwtSecret != "" {
		writes.Use(middleware.JWTAuthMiddleware(jwtSecret))
	}
	{
		// Task routes
		writes.POST("/tasks", taskHandler.Create)
		writes.PUT("/tasks/:id", taskHandler.Update)
		writes.DELETE("/tasks/:id", taskHandler.Delete)
		writes.POST("/tasks/:id/status", taskHandler.SetStatus)

		// Subtask routes
		writes.POST("/tasks/:id/subtasks", subtaskHandler.Create)
		writes.POST("/subtasks/:id/toggle", subtaskHandler.Toggle)
		writes.DELETE("/subtasks/:id", subtaskHandler.Delete)

		// Dependency routes
		writes.POST("/tasks/:id/dependencies", dependencyHandler.Create)
		writes.DELETE("/tasks/:id/dependencies/:dep", dependencyHandler.Delete)
	}
	return r
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Logger.Info("🚀 Server running", "port", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Fatal("❌ Failed to listen", "err", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Logger.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Logger.Fatal("❌ Server forced to shutdown", "err", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		sqlDB.Close()
	}
	s.Logger.Info("✅ Server exited properly")
}
