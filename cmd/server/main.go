package main

import (
	"github.com/charmbracelet/log"

	_ "taskplanner/docs"
	"taskplanner/internal/config"
	"taskplanner/internal/logging"
	"taskplanner/internal/server"
)

// @title           Task Planner API
// @version         1.0
// @description     Weekly task plan with subtasks, dependencies and derived statuses.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @schemes http
func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, "planner")
	log.SetDefault(logger)

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.Fatal("❌ Server initialization failed", "err", err)
	}

	s.Run()
}
