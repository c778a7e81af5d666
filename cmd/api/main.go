package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/buihuuthinh2018/backend-crm-task/docs" // swagger docs
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/handlers"
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/middleware"
	"github.com/buihuuthinh2018/backend-crm-task/internal/api/routes"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/activity"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/authz"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/membership"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/project"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/task"
	"github.com/buihuuthinh2018/backend-crm-task/internal/domain/user"
	"github.com/buihuuthinh2018/backend-crm-task/internal/infrastructure/cache"
	"github.com/buihuuthinh2018/backend-crm-task/internal/infrastructure/persistence/postgres/connection"
	"github.com/buihuuthinh2018/backend-crm-task/internal/infrastructure/persistence/postgres/migrations"
	"github.com/buihuuthinh2018/backend-crm-task/pkg/config"
	"github.com/buihuuthinh2018/backend-crm-task/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           CRM Task API
// @version         1.0
// @description     A multi-tenant task and project management API with role-based permissions and an activity audit trail.

// @host      localhost:8000
// @BasePath

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// RequestLoggerMiddleware logs all incoming HTTP requests
func RequestLoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		log.Info("Request completed",
			zap.String("path", path),
			zap.String("method", method),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func main() {
	cfg, err := config.LoadConfig("") // searches default locations
	if err != nil {
		stdlog.Fatalf("Failed to load configuration: %v", err)
	}

	log := logger.NewLoggerWithLevel(cfg.Logging.Level)
	defer log.Sync()

	log.Info("Configuration loaded successfully")
	log.Info("Server mode: " + cfg.Server.Mode)

	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	gin.DefaultWriter = os.Stdout

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggerMiddleware(log))

	metricsMiddleware := middleware.NewMetricsMiddleware()
	router.Use(metricsMiddleware.CollectMetrics())

	router.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowedOrigins,
		AllowMethods: cfg.CORS.AllowedMethods,
		AllowHeaders: append(cfg.CORS.AllowedHeaders,
			"Accept-Encoding",
			"Content-Type",
			"Authorization",
		),
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	// Prometheus metrics endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Connect to database
	db, err := connection.NewDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if err := migrations.AutoMigrate(db, log); err != nil {
		log.Fatal("Failed to run database migrations", zap.Error(err))
	}

	// Redis is optional; without it the API runs uncached
	var redisClient *cache.RedisClient
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(cfg)
		if err != nil {
			log.Warn("Failed to connect to Redis, running without cache", zap.Error(err))
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}
	cacheMiddleware := middleware.NewCacheMiddleware(redisClient, "crmtask", 5*time.Minute)

	// Initialize repositories
	userRepo := user.NewRepository(db)
	projectRepo := project.NewRepository(db)
	taskRepo := task.NewRepository(db)
	activityRepo := activity.NewRepository(db)
	memberResolver := membership.NewResolver(db)

	// Initialize services
	engine := authz.NewEngine(memberResolver)
	userService := user.NewService(userRepo, cfg.Auth.BcryptCost)
	projectService := project.NewService(projectRepo, userRepo, engine)
	taskService := task.NewService(taskRepo, userRepo, memberResolver, engine)
	activityService := activity.NewService(activityRepo, memberResolver)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, &cfg.Auth)
	userHandler := handlers.NewUserHandler(userService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	activityHandler := handlers.NewActivityHandler(activityService)

	// Register routes
	routes.SetupHealthRoutes(router, db, redisClient)

	authRoutes := routes.NewAuthRoutes(authHandler)
	authRoutes.RegisterRoutes(router)
	log.Info("Registered auth routes at /api/auth")

	userRoutes := routes.NewUserRoutes(userHandler, cfg.Auth.JWTSecret)
	userRoutes.RegisterRoutes(router)
	log.Info("Registered user routes at /api/users")

	projectRoutes := routes.NewProjectRoutes(projectHandler, cfg.Auth.JWTSecret)
	projectRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered project routes at /api/projects")

	taskRoutes := routes.NewTaskRoutes(taskHandler, cfg.Auth.JWTSecret)
	taskRoutes.RegisterRoutes(router, cacheMiddleware)
	log.Info("Registered task routes at /api/tasks")

	activityRoutes := routes.NewActivityRoutes(activityHandler, cfg.Auth.JWTSecret)
	activityRoutes.RegisterRoutes(router)
	log.Info("Registered activity log routes at /api/activity-logs")

	if cfg.Swagger.Enabled {
		router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
		log.Info("Swagger documentation available at /swagger/index.html")
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info(fmt.Sprintf("Server starting on port %d", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited properly")
}
