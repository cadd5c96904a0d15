// Package model 定义了与数据库表对应的数据结构
// 这些结构体类似于 Java 中的 Entity 类
package model

import (
	"time"
)

// User 用户模型
// 对应数据库表 users
// 存储用户的基本信息，包括认证凭据
type User struct {
	// ID 用户唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// Username 用户名，用于登录，全局唯一
	// 长度限制 50 字符，建立唯一索引
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`

	// Email 用户邮箱，注册时必填，全局唯一
	// 格式由 validator.ValidateEmail 校验
	Email string `gorm:"size:100;uniqueIndex;not null" json:"email"`

	// PasswordHash 密码的 bcrypt 哈希值
	// 永远不要存储明文密码！
	PasswordHash string `gorm:"size:255;not null" json:"-"` // json:"-" 表示序列化时忽略此字段

	// IsStaff 是否为管理员
	// 管理员可以编辑任意资源以及用户的分组
	IsStaff bool `gorm:"default:false" json:"is_staff"`

	// CreatedAt 注册时间，由 GORM 自动填充
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// UpdatedAt 更新时间，由 GORM 自动更新
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Groups 用户所属的分组（多对多关系）
	// 通过中间表 user_groups 关联
	Groups []Group `gorm:"many2many:user_groups" json:"groups,omitempty"`

	// Scripts 用户发布的脚本（一对多关系，作为作者）
	// 删除用户时级联删除其脚本
	Scripts []Script `gorm:"foreignKey:AuthorID" json:"scripts,omitempty"`

	// Ratings 用户发表的评分（一对多关系）
	Ratings []Rating `gorm:"foreignKey:UserID" json:"ratings,omitempty"`
}

// TableName 指定表名
// GORM 会使用这个方法返回的表名，而不是默认的复数形式
func (User) TableName() string {
	return "users"
}
