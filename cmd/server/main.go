// Package main 是服务端的入口点
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"workshop-server/internal/cache"
	"workshop-server/internal/config"
	"workshop-server/internal/handler"
	"workshop-server/internal/middleware"
	"workshop-server/internal/model"
	"workshop-server/internal/repository"
	"workshop-server/internal/serializer"
	"workshop-server/internal/service"
	"workshop-server/pkg/jwt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// 加载配置
	cfg, err := config.Load("./configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化数据库
	db, err := initDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}

	// 自动迁移数据库表
	if err := autoMigrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 初始化 Redis
	redisCache, err := cache.NewRedisCache(cfg)
	if err != nil {
		log.Fatalf("Failed to init redis: %v", err)
	}

	// 初始化 JWT 服务
	jwtService := jwt.NewJWTService(
		cfg.JWT.Secret,
		cfg.JWT.AccessExpire,
		cfg.JWT.RefreshExpire,
	)

	// 初始化 Repository 层
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	osRepo := repository.NewOSRepository(db)
	scriptRepo := repository.NewScriptRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	// 初始化 Service 层
	authService := service.NewAuthService(userRepo, redisCache, jwtService)
	userService := service.NewUserService(userRepo, groupRepo)
	groupService := service.NewGroupService(groupRepo)
	osService := service.NewOSService(osRepo)
	scriptService := service.NewScriptService(scriptRepo, osRepo, redisCache)
	ratingService := service.NewRatingService(ratingRepo, scriptRepo)

	// 初始化序列化器（资源超链接前缀）
	sz := serializer.New(cfg.Server.BaseURL)

	// 初始化 Handler 层
	authHandler := handler.NewAuthHandler(authService, sz)
	userHandler := handler.NewUserHandler(userService, sz)
	groupHandler := handler.NewGroupHandler(groupService, sz)
	osHandler := handler.NewOSHandler(osService, sz)
	scriptHandler := handler.NewScriptHandler(scriptService, sz)
	ratingHandler := handler.NewRatingHandler(ratingService, sz)

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 创建 Gin 引擎
	router := gin.New()

	// 全局中间件
	corsConfig := middleware.CORSConfigWithOrigins(cfg.Server.CORS)
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(corsConfig))

	// 注册路由
	registerRoutes(router, jwtService, redisCache,
		authHandler, userHandler, groupHandler, osHandler, scriptHandler, ratingHandler)

	// 创建 HTTP 服务器
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// 在 goroutine 中启动服务器
	go func() {
		log.Printf("Server starting on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// 创建关闭上下文，设置超时
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// 关闭 HTTP 服务器
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	// 关闭 Redis 连接
	if err := redisCache.Close(); err != nil {
		log.Printf("Failed to close redis: %v", err)
	}

	log.Println("Server exited")
}

// initDatabase 初始化数据库连接
func initDatabase(cfg *config.Config) (*gorm.DB, error) {
	// 构建 DSN (Data Source Name)
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.MySQL.Username,
		cfg.MySQL.Password,
		cfg.MySQL.Host,
		cfg.MySQL.Port,
		cfg.MySQL.Database,
		cfg.MySQL.Charset,
	)

	// 配置 GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.Mode == "release" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	// 连接数据库
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	// 获取底层 sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// 配置连接池
	sqlDB.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MySQL.MaxLifetime) * time.Second)

	log.Println("Database connected successfully")
	return db, nil
}

// autoMigrate 自动迁移数据库表
func autoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	if err := db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.OS{},
		&model.Script{},
		&model.Rating{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// registerRoutes 注册所有路由
// 读接口对匿名开放（可选认证，用于区分本人视图），写接口要求登录，
// 具体的所有权和管理员判断在各 Handler 内完成
func registerRoutes(
	router *gin.Engine,
	jwtService *jwt.JWTService,
	redisCache *cache.RedisCache,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	groupHandler *handler.GroupHandler,
	osHandler *handler.OSHandler,
	scriptHandler *handler.ScriptHandler,
	ratingHandler *handler.RatingHandler,
) {
	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	optionalAuth := middleware.OptionalAuthMiddleware(jwtService, redisCache)
	requireAuth := middleware.AuthMiddleware(jwtService, redisCache)

	// API v1 路由组
	v1 := router.Group("/api/v1")
	v1.Use(optionalAuth)

	// 认证相关（无需登录）
	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/logout", requireAuth, authHandler.Logout)
	}

	// 注册入口
	v1.POST("/register", authHandler.Register)
	v1.GET("/register", authHandler.ListRegistrations)

	// 用户（不接受 POST，新用户走注册入口）
	users := v1.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", requireAuth, userHandler.UpdateUser)
		users.PATCH("/:id", requireAuth, userHandler.UpdateUser)
		users.DELETE("/:id", requireAuth, userHandler.DeleteUser)
	}

	// 分组（写操作限管理员）
	groups := v1.Group("/groups")
	{
		groups.GET("", groupHandler.ListGroups)
		groups.GET("/:id", groupHandler.GetGroup)
		groups.POST("", requireAuth, groupHandler.CreateGroup)
		groups.PUT("/:id", requireAuth, groupHandler.UpdateGroup)
		groups.PATCH("/:id", requireAuth, groupHandler.UpdateGroup)
		groups.DELETE("/:id", requireAuth, groupHandler.DeleteGroup)
	}

	// 操作系统目录（写操作限管理员）
	oses := v1.Group("/os")
	{
		oses.GET("", osHandler.ListOS)
		oses.GET("/:id", osHandler.GetOS)
		oses.POST("", requireAuth, osHandler.CreateOS)
		oses.PUT("/:id", requireAuth, osHandler.UpdateOS)
		oses.PATCH("/:id", requireAuth, osHandler.UpdateOS)
		oses.DELETE("/:id", requireAuth, osHandler.DeleteOS)
	}

	// 脚本
	scripts := v1.Group("/scripts")
	{
		scripts.GET("", scriptHandler.ListScripts)
		scripts.GET("/trending", scriptHandler.Trending)
		scripts.GET("/:id", scriptHandler.GetScript)
		scripts.POST("", requireAuth, scriptHandler.CreateScript)
		scripts.PUT("/:id", requireAuth, scriptHandler.UpdateScript)
		scripts.PATCH("/:id", requireAuth, scriptHandler.UpdateScript)
		scripts.DELETE("/:id", requireAuth, scriptHandler.DeleteScript)
	}

	// 评分
	ratings := v1.Group("/ratings")
	{
		ratings.GET("", ratingHandler.ListRatings)
		ratings.GET("/:id", ratingHandler.GetRating)
		ratings.POST("", requireAuth, ratingHandler.CreateRating)
		ratings.PUT("/:id", requireAuth, ratingHandler.UpdateRating)
		ratings.PATCH("/:id", requireAuth, ratingHandler.UpdateRating)
		ratings.DELETE("/:id", requireAuth, ratingHandler.DeleteRating)
	}
}
