package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"workshop-server/internal/middleware"
	"workshop-server/internal/model"
	"workshop-server/internal/repository"
	"workshop-server/internal/serializer"
	"workshop-server/internal/service"
	"workshop-server/pkg/jwt"
	"workshop-server/pkg/response"
	"workshop-server/pkg/util"
)

// testEnv 组装一套完整的路由用于接口测试
// 数据库为内存 SQLite，不依赖 Redis
type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	jwt    *jwt.JWTService
}

func setupTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.OS{},
		&model.Script{},
		&model.Rating{},
	))

	jwtService := jwt.NewJWTService("test-secret-key-for-unit-tests-only", time.Hour, 24*time.Hour)

	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	osRepo := repository.NewOSRepository(db)
	scriptRepo := repository.NewScriptRepository(db)
	ratingRepo := repository.NewRatingRepository(db)

	authService := service.NewAuthService(userRepo, nil, jwtService)
	userService := service.NewUserService(userRepo, groupRepo)
	groupService := service.NewGroupService(groupRepo)
	osService := service.NewOSService(osRepo)
	scriptService := service.NewScriptService(scriptRepo, osRepo, nil)
	ratingService := service.NewRatingService(ratingRepo, scriptRepo)

	sz := serializer.New("/api/v1")

	authHandler := NewAuthHandler(authService, sz)
	userHandler := NewUserHandler(userService, sz)
	groupHandler := NewGroupHandler(groupService, sz)
	osHandler := NewOSHandler(osService, sz)
	scriptHandler := NewScriptHandler(scriptService, sz)
	ratingHandler := NewRatingHandler(ratingService, sz)

	optionalAuth := middleware.OptionalAuthMiddleware(jwtService, nil)
	requireAuth := middleware.AuthMiddleware(jwtService, nil)

	router := gin.New()
	v1 := router.Group("/api/v1")
	v1.Use(optionalAuth)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
	}

	v1.POST("/register", authHandler.Register)
	v1.GET("/register", authHandler.ListRegistrations)

	users := v1.Group("/users")
	{
		users.GET("", userHandler.ListUsers)
		users.GET("/:id", userHandler.GetUser)
		users.PUT("/:id", requireAuth, userHandler.UpdateUser)
		users.PATCH("/:id", requireAuth, userHandler.UpdateUser)
		users.DELETE("/:id", requireAuth, userHandler.DeleteUser)
	}

	groups := v1.Group("/groups")
	{
		groups.GET("", groupHandler.ListGroups)
		groups.GET("/:id", groupHandler.GetGroup)
		groups.POST("", requireAuth, groupHandler.CreateGroup)
		groups.PUT("/:id", requireAuth, groupHandler.UpdateGroup)
		groups.DELETE("/:id", requireAuth, groupHandler.DeleteGroup)
	}

	oses := v1.Group("/os")
	{
		oses.GET("", osHandler.ListOS)
		oses.GET("/:id", osHandler.GetOS)
		oses.POST("", requireAuth, osHandler.CreateOS)
		oses.PUT("/:id", requireAuth, osHandler.UpdateOS)
		oses.DELETE("/:id", requireAuth, osHandler.DeleteOS)
	}

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

	ratings := v1.Group("/ratings")
	{
		ratings.GET("", ratingHandler.ListRatings)
		ratings.GET("/:id", ratingHandler.GetRating)
		ratings.POST("", requireAuth, ratingHandler.CreateRating)
		ratings.PUT("/:id", requireAuth, ratingHandler.UpdateRating)
		ratings.DELETE("/:id", requireAuth, ratingHandler.DeleteRating)
	}

	return &testEnv{router: router, db: db, jwt: jwtService}
}

// createUser 直接在数据库中写入测试用户
func (e *testEnv) createUser(t *testing.T, username string, isStaff bool) *model.User {
	hash, err := util.HashPassword("secret123")
	require.NoError(t, err)

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsStaff:      isStaff,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

// createScript 直接在数据库中写入测试脚本
func (e *testEnv) createScript(t *testing.T, authorID int64) *model.Script {
	script := &model.Script{
		Name:     "fizzbuzz",
		Files:    []byte(`{"main.py":"print(1)"}`),
		Language: "python",
		Version:  model.DefaultScriptVersion,
		Licence:  model.DefaultScriptLicence,
		AuthorID: authorID,
	}
	require.NoError(t, e.db.Create(script).Error)
	return script
}

// tokenFor 为用户签发测试 Token
func (e *testEnv) tokenFor(t *testing.T, user *model.User) string {
	token, err := e.jwt.GenerateAccessToken(user.ID, user.Username, user.IsStaff)
	require.NoError(t, err)
	return token
}

// do 发起一次测试请求，body 为 nil 时不携带请求体
func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// decode 解析统一响应结构，data 保留原始 JSON 供调用方断言
func decode(t *testing.T, w *httptest.ResponseRecorder) (response.Response, json.RawMessage) {
	var resp struct {
		Code    int               `json:"code"`
		Message string            `json:"message"`
		Data    json.RawMessage   `json:"data"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return response.Response{
		Code:    resp.Code,
		Message: resp.Message,
		Errors:  resp.Errors,
	}, resp.Data
}
