// Package repository 提供数据访问层的实现
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"workshop-server/internal/model"
)

// GroupRepository 分组数据访问层
type GroupRepository struct {
	db *gorm.DB // GORM 数据库连接实例
}

// NewGroupRepository 创建 GroupRepository 实例
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create 创建新分组
// 参数:
//   - ctx: 上下文
//   - group: 分组对象，ID 字段会被自动填充
//
// 返回:
//   - error: 分组名重复会返回错误
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// GetByID 根据 ID 获取分组
// 预加载分组成员，供序列化使用
// 参数:
//   - ctx: 上下文
//   - id: 分组ID
//
// 返回:
//   - *model.Group: 分组对象，如果未找到返回 nil
//   - error: 数据库错误
func (r *GroupRepository) GetByID(ctx context.Context, id int64) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).Preload("Users").First(&group, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &group, nil
}

// GetByIDs 根据 ID 集合获取分组
// 用于校验用户分组更新请求中的分组是否都存在
// 参数:
//   - ctx: 上下文
//   - ids: 分组ID列表
//
// 返回:
//   - []model.Group: 分组列表
//   - error: 数据库错误
func (r *GroupRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Group, error) {
	if len(ids) == 0 {
		return []model.Group{}, nil
	}
	var groups []model.Group
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&groups).Error
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// List 分页获取分组列表，支持搜索
// 搜索字段: 分组名、成员用户名
// 默认按分组名倒序排列
// 参数:
//   - ctx: 上下文
//   - search: 搜索关键字，空字符串表示不过滤
//   - page: 页码，从 1 开始
//   - pageSize: 每页数量
//
// 返回:
//   - []model.Group: 分组列表
//   - int64: 总记录数
//   - error: 数据库错误
func (r *GroupRepository) List(ctx context.Context, search string, page, pageSize int) ([]model.Group, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Group{})

	if search != "" {
		like := "%" + search + "%"
		// groups 是 MySQL 8 的保留字，手写 SQL 片段必须自行加反引号
		query = query.
			Joins("LEFT JOIN user_groups ON user_groups.group_id = `groups`.id").
			Joins("LEFT JOIN users ON users.id = user_groups.user_id").
			Where("`groups`.name LIKE ? OR users.username LIKE ?", like, like)
	}

	var total int64
	if err := query.Distinct("`groups`.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var groups []model.Group
	offset := (page - 1) * pageSize
	err := query.
		Distinct("`groups`.*").
		Preload("Users").
		Order("`groups`.name DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&groups).Error
	if err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

// Update 更新分组
// 参数:
//   - ctx: 上下文
//   - group: 包含要更新字段的分组对象，必须包含 ID
//
// 返回:
//   - error: 数据库错误
func (r *GroupRepository) Update(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Omit("Users").Save(group).Error
}

// Delete 删除分组
// 同时清理用户与分组的关联，在一个事务中完成
// 参数:
//   - ctx: 上下文
//   - id: 分组ID
//
// 返回:
//   - error: 数据库错误
func (r *GroupRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM user_groups WHERE group_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, id).Error
	})
}
