// Package model 定义了与数据库表对应的数据结构
package model

import (
	"time"
)

// Rating 评分的取值范围
const (
	// MinRating 最低评分
	MinRating = 0.0

	// MaxRating 最高评分
	MaxRating = 5.0
)

// Rating 评分模型
// 对应数据库表 ratings
// 一个用户对一个脚本的评分，取值 [0, 5]，可附带评论
type Rating struct {
	// ID 评分唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// Rating 评分值，范围 [0, 5]，边界值有效
	Rating float64 `gorm:"not null" json:"rating"`

	// Comment 评论内容，可为空
	Comment string `gorm:"type:text" json:"comment"`

	// UserID 评分人用户ID，外键关联 users.id
	// 创建时由服务端设置为当前登录用户，之后不可修改
	UserID int64 `gorm:"index;not null" json:"user_id"`

	// ScriptID 被评分的脚本ID，外键关联 scripts.id
	ScriptID int64 `gorm:"index;not null" json:"script_id"`

	// CreatedAt 创建时间，由 GORM 自动填充
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// UpdatedAt 最后修改时间，由 GORM 自动更新
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// User 评分人（多对一关系）
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Script 被评分的脚本（多对一关系）
	Script *Script `gorm:"foreignKey:ScriptID" json:"script,omitempty"`
}

// TableName 指定表名
func (Rating) TableName() string {
	return "ratings"
}
