package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"

	"eventboard/config"
	_ "eventboard/docs"
	"eventboard/internal/adapters/stats"
	delivery "eventboard/internal/delivery/http"
	"eventboard/internal/delivery/http/controllers"
	"eventboard/internal/delivery/http/middleware"
	"eventboard/internal/repository/postgres"
	"eventboard/internal/services"
)

const contextTimeout = 5 * time.Second

// @title Eventboard API
// @version 1.0
// @description Event registration platform: event lifecycle, participation requests, categories, users and compilations.
// @BasePath /
func main() {
	logger := config.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		logger.Error("failed to open database", "err", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		logger.Error("failed to reach database", "err", err)
		os.Exit(1)
	}

	eventRepo := postgres.NewEventRepository(db)
	requestRepo := postgres.NewRequestRepository(db)
	userRepo := postgres.NewUserRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	compilationRepo := postgres.NewCompilationRepository(db)
	commentRepo := postgres.NewCommentRepository(db)

	statsClient := stats.NewClient(cfg.StatsURL, cfg.AppName, &http.Client{Timeout: 2 * time.Second}, logger)

	eventService := services.NewEventService(eventRepo, userRepo, categoryRepo, requestRepo, statsClient, contextTimeout)
	requestService := services.NewRequestService(requestRepo, eventRepo, userRepo, contextTimeout)
	categoryService := services.NewCategoryService(categoryRepo, eventRepo, contextTimeout)
	userService := services.NewUserService(userRepo, contextTimeout)
	compilationService := services.NewCompilationService(compilationRepo, eventRepo, contextTimeout)
	commentService := services.NewCommentService(commentRepo, eventRepo, userRepo, contextTimeout)

	router := delivery.NewRouter(
		controllers.NewEventController(logger, eventService),
		controllers.NewRequestController(logger, requestService),
		controllers.NewCategoryController(logger, categoryService),
		controllers.NewUserController(logger, userService),
		controllers.NewCompilationController(logger, compilationService),
		controllers.NewCommentController(logger, commentService),
	)

	handler := middleware.RequestID(middleware.LoggingMiddleware(logger, router))
	if len(cfg.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.AllowedOrigins, handler)
	}

	addr := ":" + cfg.Port
	logger.Info("starting server", "addr", addr, "env", cfg.Environment)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
