// Package repository 提供数据访问层的实现
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"workshop-server/internal/model"
)

// RatingRepository 评分数据访问层
type RatingRepository struct {
	db *gorm.DB // GORM 数据库连接实例
}

// NewRatingRepository 创建 RatingRepository 实例
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create 创建新评分
// 参数:
//   - ctx: 上下文
//   - rating: 评分对象，ID 字段会被自动填充
//
// 返回:
//   - error: 数据库错误
func (r *RatingRepository) Create(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

// GetByID 根据 ID 获取评分
// 参数:
//   - ctx: 上下文
//   - id: 评分ID
//
// 返回:
//   - *model.Rating: 评分对象，如果未找到返回 nil
//   - error: 数据库错误
func (r *RatingRepository) GetByID(ctx context.Context, id int64) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.WithContext(ctx).First(&rating, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

// List 分页获取评分列表，支持搜索
// 搜索字段: 被评脚本名、脚本作者用户名、评分值
// 默认按创建时间倒序排列
// 参数:
//   - ctx: 上下文
//   - search: 搜索关键字，空字符串表示不过滤
//   - page: 页码，从 1 开始
//   - pageSize: 每页数量
//
// 返回:
//   - []model.Rating: 评分列表
//   - int64: 总记录数
//   - error: 数据库错误
func (r *RatingRepository) List(ctx context.Context, search string, page, pageSize int) ([]model.Rating, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Rating{})

	if search != "" {
		like := "%" + search + "%"
		query = query.
			Joins("LEFT JOIN scripts ON scripts.id = ratings.script_id").
			Joins("LEFT JOIN users ON users.id = scripts.author_id").
			Where("scripts.name LIKE ? OR users.username LIKE ? OR ratings.rating LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Distinct("ratings.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ratings []model.Rating
	offset := (page - 1) * pageSize
	err := query.
		Distinct("ratings.*").
		Order("ratings.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

// Update 更新评分
// 参数:
//   - ctx: 上下文
//   - rating: 包含要更新字段的评分对象，必须包含 ID
//
// 返回:
//   - error: 数据库错误
func (r *RatingRepository) Update(ctx context.Context, rating *model.Rating) error {
	return r.db.WithContext(ctx).Save(rating).Error
}

// Delete 删除评分
// 参数:
//   - ctx: 上下文
//   - id: 评分ID
//
// 返回:
//   - error: 数据库错误
func (r *RatingRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Rating{}, id).Error
}
