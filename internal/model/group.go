// Package model 定义了与数据库表对应的数据结构
package model

// Group 分组模型
// 对应数据库表 groups
// 表示一个命名的角色，来自认证子系统，与用户是多对多关系
type Group struct {
	// ID 分组唯一标识，自增主键
	ID int64 `gorm:"primaryKey" json:"id"`

	// Name 分组名称，全局唯一
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`

	// Users 分组中的用户（多对多关系）
	// 与 User.Groups 共用中间表 user_groups
	Users []User `gorm:"many2many:user_groups" json:"users,omitempty"`
}

// TableName 指定表名
func (Group) TableName() string {
	return "groups"
}
