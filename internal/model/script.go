// Package model 定义了与数据库表对应的数据结构
package model

import (
	"time"

	"gorm.io/datatypes"
)

// Script 默认值常量
const (
	// DefaultScriptVersion 新建脚本的默认版本号
	DefaultScriptVersion = "1.0"

	// DefaultScriptLicence 新建脚本的默认许可证
	DefaultScriptLicence = "MIT"
)

// Script 脚本模型
// 对应数据库表 scripts
// 一个脚本是一组带元数据的文件（文件名 -> 内容），归属于唯一的作者
type Script struct {
	// ID 脚本唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// Name 脚本名称
	Name string `gorm:"size:100;not null" json:"name"`

	// Files 脚本包含的文件，JSON 文档（文件名 -> 内容）
	// 结构和总大小由 validator.ValidateScriptFiles 校验
	Files datatypes.JSON `gorm:"type:json;not null" json:"files"`

	// Language 脚本使用的编程语言
	// 必须在 validator.AllowedLanguages 枚举中
	Language string `gorm:"size:100;not null" json:"language"`

	// Version 脚本版本号，默认 "1.0"
	Version string `gorm:"size:100;default:1.0" json:"version"`

	// Description 脚本描述，可为空
	Description string `gorm:"type:text" json:"description"`

	// Licence 脚本许可证，默认 "MIT"
	Licence string `gorm:"size:100;default:MIT" json:"licence"`

	// Views 脚本被查看的次数
	// 只能由服务端递增，客户端不可修改
	Views int64 `gorm:"default:0;not null" json:"views"`

	// AuthorID 作者用户ID，外键关联 users.id
	// 创建时由服务端设置为当前登录用户，之后不可修改
	AuthorID int64 `gorm:"index;not null" json:"author_id"`

	// CreatedAt 创建时间，由 GORM 自动填充
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// UpdatedAt 最后修改时间，由 GORM 自动更新
	// 注意: 浏览计数的递增不会更新此字段
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Author 作者（多对一关系）
	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	// Compatibility 兼容的操作系统（多对多关系，可为空）
	// 通过中间表 script_compatibility 关联
	Compatibility []OS `gorm:"many2many:script_compatibility" json:"compatibility,omitempty"`

	// Ratings 脚本收到的评分（一对多关系）
	// 删除脚本时级联删除评分
	Ratings []Rating `gorm:"foreignKey:ScriptID" json:"ratings,omitempty"`
}

// TableName 指定表名
func (Script) TableName() string {
	return "scripts"
}
