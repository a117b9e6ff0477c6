package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	httpHandler "community-board/internal/handler/http"
	wsHandler "community-board/internal/handler/websocket"
	"community-board/internal/hub"
	gormpersistence "community-board/internal/infra/persistence/gorm"
	"community-board/internal/infra/push"
	"community-board/internal/infra/setup"
	redisstate "community-board/internal/infra/state/redis"
	"community-board/internal/middleware"
	"community-board/internal/service"
	"community-board/internal/tasks"
	"community-board/internal/worker"
)

// App 包含应用的所有组件和配置
type App struct {
	Config         *Config
	Log            *logrus.Logger
	DB             *gorm.DB
	RedisClient    *redis.Client
	AsynqClient    *asynq.Client
	AsynqServer    *worker.WorkerServer
	Scheduler      *asynq.Scheduler
	Hub            *hub.Hub
	HttpServer     *http.Server
	redisClientOpt asynq.RedisClientOpt
	stopHub        context.CancelFunc
}

// NewApp 创建并初始化应用的所有组件
func NewApp() (*App, error) {
	// 1. 加载配置
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	// 2. 初始化 Logger
	log := newLogger(cfg)
	log.Info("Configuration loaded successfully")

	// 3. 初始化基础设施
	db, err := setup.InitDB(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Infof("Database initialized and migrated (driver: %s)", cfg.DB.Driver)

	redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}

	redisClientOpt := asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	asynqClient := asynq.NewClient(redisClientOpt)
	pushClient := push.NewClient(cfg.PushGatewayURL, cfg.PushServerKey, cfg.PushTimeout)
	log.WithField("push_enabled", pushClient.Enabled()).Info("Infrastructure initialized")

	// 4. Repositories
	userRepo := gormpersistence.NewGormUserRepository(db)
	roomRepo := gormpersistence.NewGormRoomRepository(db)
	dmRepo := gormpersistence.NewGormDmRepository(db)
	blockRepo := gormpersistence.NewGormBlockRepository(db)
	transactor := gormpersistence.NewGormTransactor(db)
	stateRepo := redisstate.NewRedisStateRepository(redisClient, cfg.KeyPrefix)

	// 5. Services
	authService, err := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiryHours)
	if err != nil {
		return nil, fmt.Errorf("failed to create AuthService: %w", err)
	}
	notifier := tasks.NewNotificationEnqueuer(asynqClient)
	dmService := service.NewDmService(roomRepo, dmRepo, userRepo, blockRepo, transactor, notifier)
	blockService := service.NewBlockService(blockRepo, userRepo)
	log.Info("Services initialized")

	// 6. Hub
	hubInstance := hub.NewHub(stateRepo)

	// 7. Handlers
	authHandler := httpHandler.NewAuthHandler(authService)
	dmHandler := httpHandler.NewDmHandler(dmService)
	blockHandler := httpHandler.NewBlockHandler(blockService)
	notificationWS := wsHandler.NewWebSocketHandler(hubInstance, cfg.AllowedOrigins())

	// 8. Worker Server
	workerServer := worker.NewWorkerServer(
		redisClientOpt,
		cfg.WorkerConcurrency,
		worker.NewNotificationHandler(stateRepo, pushClient),
		worker.NewReconcileHandler(dmService),
		log,
	)

	// 9. Gin Engine 和路由
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(LoggerMiddleware(log))
	router.Use(CORSMiddleware(cfg.AllowedOrigins()))
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow))

	api := router.Group("/api")
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}
	dmRoutes := api.Group("/dm").Use(middleware.Auth(cfg.JWTSecret))
	{
		dmRoutes.POST("", middleware.RateLimitByUser(redisClient, "dm_send", cfg.DmRateLimitMax, cfg.DmRateLimitWindow), dmHandler.SendDm)
		dmRoutes.GET("/rooms", dmHandler.GetRoomList)
		dmRoutes.GET("/rooms/:roomId", dmHandler.GetDmList)
		dmRoutes.DELETE("/rooms/:roomId", dmHandler.DeleteRoom)
		dmRoutes.GET("/unread-count", dmHandler.GetUnreadCount)
	}
	userRoutes := api.Group("/users").Use(middleware.Auth(cfg.JWTSecret))
	{
		userRoutes.GET("/blocks", blockHandler.List)
		userRoutes.POST("/:userId/block", blockHandler.Block)
		userRoutes.DELETE("/:userId/block", blockHandler.Unblock)
	}
	wsRoutes := router.Group("/ws").Use(middleware.Auth(cfg.JWTSecret))
	{
		wsRoutes.GET("/notifications", notificationWS.HandleNotifications)
	}
	router.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	// 10. HTTP Server
	httpServer := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		Config:         cfg,
		Log:            log,
		DB:             db,
		RedisClient:    redisClient,
		AsynqClient:    asynqClient,
		AsynqServer:    workerServer,
		Hub:            hubInstance,
		HttpServer:     httpServer,
		redisClientOpt: redisClientOpt,
	}, nil
}

func newLogger(cfg *Config) *logrus.Logger {
	log := logrus.New()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, ForceColors: true})
	}
	level, _ := logrus.ParseLevel(cfg.LogLevel)
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	// 包级 logrus 调用 (service/hub/worker) 与 App logger 保持一致
	logrus.SetFormatter(log.Formatter)
	logrus.SetLevel(level)
	return log
}

// Start 启动应用的所有后台 Goroutine 和 HTTP 服务器
func (a *App) Start() {
	hubCtx, cancel := context.WithCancel(context.Background())
	a.stopHub = cancel
	go a.Hub.Run(hubCtx)

	go a.AsynqServer.Start()

	a.registerPeriodicTasks()

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

func (a *App) registerPeriodicTasks() {
	scheduler := asynq.NewScheduler(a.redisClientOpt, &asynq.SchedulerOpts{})

	payload, err := tasks.NewUnreadReconciliationTask()
	if err != nil {
		a.Log.Errorf("Failed to create unread reconciliation task payload: %v", err)
		return
	}
	task := asynq.NewTask(tasks.TypeUnreadReconciliation, payload)

	schedule := a.Config.ReconcileSchedule
	entryID, err := scheduler.Register(schedule, task, asynq.Queue("low"))
	if err != nil {
		a.Log.Errorf("Could not register unread reconciliation task: %v", err)
		return
	}
	a.Log.Infof("Unread reconciliation task registered with schedule '%s' (EntryID: %s)", schedule, entryID)

	a.Scheduler = scheduler
	go func() {
		if err := scheduler.Run(); err != nil && !errors.Is(err, asynq.ErrServerClosed) {
			a.Log.Errorf("Asynq scheduler Run() failed: %v", err)
		}
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 先停止接收新请求
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	}

	// 2. 停止 Hub，关闭所有通知连接
	if a.stopHub != nil {
		a.stopHub()
	}

	// 3. Scheduler 与 Worker
	if a.Scheduler != nil {
		a.Scheduler.Shutdown()
	}
	if a.AsynqServer != nil {
		a.AsynqServer.Shutdown()
	}

	// 4. 客户端连接
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		}
	}

	a.Log.Info("Application shutdown complete.")
}

// LoggerMiddleware 创建一个 Gin 中间件用于记录请求日志
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()
		path := c.Request.URL.Path
		if c.Request.URL.RawQuery != "" {
			path = path + "?" + c.Request.URL.RawQuery
		}

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        path,
			"request_id":  c.GetString(middleware.ContextRequestID),
		})

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			entry.Error(errorMessage)
			return
		}
		switch {
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}

// CORSMiddleware 按允许的来源列表设置 CORS 头
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		for _, allowed := range allowedOrigins {
			if allowed == "*" || strings.EqualFold(allowed, origin) {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				break
			}
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, X-Request-ID")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
