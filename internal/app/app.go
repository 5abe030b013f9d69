package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	taskHTTP "taskmaster/internal/controller/http"
	"taskmaster/internal/realtime"
	"taskmaster/internal/repo/persistent"
	"taskmaster/internal/usecase"
	"taskmaster/pkg/config"
	"taskmaster/pkg/jwt"
	"taskmaster/pkg/logger"
	"taskmaster/pkg/middleware"
)

func Run(cfg *config.Config, log *logger.Logger, db *gorm.DB, redisClient *redis.Client) {
	jwtService := jwt.NewService(cfg.JWTSecret, time.Duration(cfg.JWTExpirationHours)*time.Hour)

	userRepo := persistent.NewUserRepository(db)
	taskRepo := persistent.NewTaskRepository(db)
	notificationRepo := persistent.NewNotificationRepository(db)

	bus := realtime.NewBus()
	registry := realtime.NewRegistry(log)

	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, bus, log)
	authUseCase := usecase.NewAuthUseCase(userRepo, jwtService, log)
	taskUseCase := usecase.NewTaskUseCase(taskRepo, notificationUseCase, log)
	statsUseCase := usecase.NewStatsUseCase(taskRepo, log)
	scheduler := usecase.NewScheduler(taskRepo, notificationUseCase, cfg.SchedulerInterval, log)

	authHandler := taskHTTP.NewAuthHandler(authUseCase, log)
	taskHandler := taskHTTP.NewTaskHandler(taskUseCase, log)
	notificationHandler := taskHTTP.NewNotificationHandler(notificationUseCase, registry, log)
	statsHandler := taskHTTP.NewStatsHandler(statsUseCase, log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	api := r.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		auth := api.Group("/auth")
		auth.Use(middleware.RateLimitMiddleware(redisClient, 20, time.Minute))
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtService))
		protected.Use(middleware.RateLimitMiddleware(redisClient, 300, time.Minute))
		{
			protected.GET("/auth/me", authHandler.Me)

			protected.POST("/tasks", taskHandler.CreateTask)
			protected.GET("/tasks", taskHandler.ListTasks)
			protected.GET("/tasks/:id", taskHandler.GetTask)
			protected.PUT("/tasks/:id", taskHandler.UpdateTask)
			protected.DELETE("/tasks/:id", taskHandler.DeleteTask)

			protected.GET("/notifications", notificationHandler.GetNotifications)
			protected.GET("/notifications/unread-count", notificationHandler.GetUnreadCount)
			protected.POST("/notifications/mark-read", notificationHandler.MarkAsRead)

			protected.GET("/stats/statistics", statsHandler.GetOverview)
			protected.GET("/stats/completion", statsHandler.GetCompletion)
		}
	}
	// WebSocket endpoint authenticates in-band on the socket itself.
	r.GET("/ws/notifications", notificationHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:    cfg.ServerHost + ":" + cfg.ServerPort,
		Handler: r,
	}

	runCtx, stopBackground := context.WithCancel(context.Background())
	go registry.Run(runCtx, bus.Subscribe(256))
	go scheduler.Start(runCtx)

	go func() {
		log.Info("Server starting on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down...")

	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Close(); err != nil {
		log.Error("Error closing Redis: %v", err)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
		panic(err)
	}

	log.Info("Server exited")
}
