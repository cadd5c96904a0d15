// Package repository 提供数据访问层的实现
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"workshop-server/internal/model"
)

// OSRepository 操作系统数据访问层
type OSRepository struct {
	db *gorm.DB // GORM 数据库连接实例
}

// NewOSRepository 创建 OSRepository 实例
func NewOSRepository(db *gorm.DB) *OSRepository {
	return &OSRepository{db: db}
}

// Create 创建新操作系统
// 参数:
//   - ctx: 上下文
//   - os: 操作系统对象，ID 字段会被自动填充
//
// 返回:
//   - error: 数据库错误
func (r *OSRepository) Create(ctx context.Context, os *model.OS) error {
	return r.db.WithContext(ctx).Create(os).Error
}

// GetByID 根据 ID 获取操作系统
// 参数:
//   - ctx: 上下文
//   - id: 操作系统ID
//
// 返回:
//   - *model.OS: 操作系统对象，如果未找到返回 nil
//   - error: 数据库错误
func (r *OSRepository) GetByID(ctx context.Context, id int64) (*model.OS, error) {
	var os model.OS
	err := r.db.WithContext(ctx).First(&os, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &os, nil
}

// GetByIDs 根据 ID 集合获取操作系统
// 用于校验脚本兼容性请求中的操作系统是否都存在
// 参数:
//   - ctx: 上下文
//   - ids: 操作系统ID列表
//
// 返回:
//   - []model.OS: 操作系统列表
//   - error: 数据库错误
func (r *OSRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.OS, error) {
	if len(ids) == 0 {
		return []model.OS{}, nil
	}
	var oses []model.OS
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&oses).Error
	if err != nil {
		return nil, err
	}
	return oses, nil
}

// List 分页获取操作系统列表，支持搜索
// 搜索字段: 名称、链接、描述
// 默认按名称倒序排列
// 参数:
//   - ctx: 上下文
//   - search: 搜索关键字，空字符串表示不过滤
//   - page: 页码，从 1 开始
//   - pageSize: 每页数量
//
// 返回:
//   - []model.OS: 操作系统列表
//   - int64: 总记录数
//   - error: 数据库错误
func (r *OSRepository) List(ctx context.Context, search string, page, pageSize int) ([]model.OS, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.OS{})

	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name LIKE ? OR url LIKE ? OR description LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var oses []model.OS
	offset := (page - 1) * pageSize
	err := query.
		Order("name DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&oses).Error
	if err != nil {
		return nil, 0, err
	}
	return oses, total, nil
}

// Update 更新操作系统
// 参数:
//   - ctx: 上下文
//   - os: 包含要更新字段的操作系统对象，必须包含 ID
//
// 返回:
//   - error: 数据库错误
func (r *OSRepository) Update(ctx context.Context, os *model.OS) error {
	return r.db.WithContext(ctx).Save(os).Error
}

// Delete 删除操作系统
// 同时清理脚本与操作系统的兼容性关联，在一个事务中完成
// 参数:
//   - ctx: 上下文
//   - id: 操作系统ID
//
// 返回:
//   - error: 数据库错误
func (r *OSRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM script_compatibility WHERE os_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.OS{}, id).Error
	})
}
