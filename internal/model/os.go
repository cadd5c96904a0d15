// Package model 定义了与数据库表对应的数据结构
package model

// OS 操作系统模型
// 对应数据库表 os
// 表示脚本的兼容目标（如某个计算器固件），只被脚本引用，不属于任何用户
type OS struct {
	// ID 操作系统唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// Name 操作系统名称
	Name string `gorm:"size:100;not null" json:"name"`

	// Description 操作系统描述，可为空
	Description string `gorm:"type:text" json:"description"`

	// URL 操作系统的官方链接，可为空
	URL string `gorm:"size:500" json:"url"`
}

// TableName 指定表名
func (OS) TableName() string {
	return "os"
}
