package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"workshop-server/internal/model"
	"workshop-server/internal/permission"
	"workshop-server/pkg/util"
)

// setupTestDB 创建内存 SQLite 数据库
// 每个测试使用独立的数据库名，互不干扰
func setupTestDB(t *testing.T) *gorm.DB {
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
	return db
}

// createTestUser 创建测试用户
func createTestUser(t *testing.T, db *gorm.DB, username string, isStaff bool) *model.User {
	hash, err := util.HashPassword("secret123")
	require.NoError(t, err)

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: hash,
		IsStaff:      isStaff,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTestGroup 创建测试分组
func createTestGroup(t *testing.T, db *gorm.DB, name string) *model.Group {
	group := &model.Group{Name: name}
	require.NoError(t, db.Create(group).Error)
	return group
}

// createTestOS 创建测试操作系统
func createTestOS(t *testing.T, db *gorm.DB, name string) *model.OS {
	os := &model.OS{Name: name, URL: "https://example.com/" + name}
	require.NoError(t, db.Create(os).Error)
	return os
}

// actorFor 构造用户对应的请求者身份
func actorFor(u *model.User) *permission.Actor {
	return &permission.Actor{
		UserID:   u.ID,
		Username: u.Username,
		IsStaff:  u.IsStaff,
	}
}
