// Package service 提供业务逻辑层的实现
package service

import (
	"context"

	"workshop-server/internal/model"
	"workshop-server/internal/permission"
	"workshop-server/internal/repository"
	"workshop-server/internal/validator"
)

// RatingService 评分服务
// 处理评分的创建、查询、更新和删除
type RatingService struct {
	ratingRepo *repository.RatingRepository // 评分数据访问层
	scriptRepo *repository.ScriptRepository // 脚本数据访问层
}

// NewRatingService 创建 RatingService 实例
func NewRatingService(ratingRepo *repository.RatingRepository, scriptRepo *repository.ScriptRepository) *RatingService {
	return &RatingService{
		ratingRepo: ratingRepo,
		scriptRepo: scriptRepo,
	}
}

// CreateRatingRequest 创建评分请求
// rating 使用指针以区分"未提供"和边界值 0；user 为只读字段
type CreateRatingRequest struct {
	Rating  *float64 `json:"rating" binding:"required"` // 评分值，范围 [0, 5]
	Comment string   `json:"comment"`                   // 评论，可为空
	Script  int64    `json:"script" binding:"required"` // 被评分的脚本ID
}

// CreateRating 创建评分
// 评分人强制设置为当前登录用户，忽略请求中的任何用户信息
// 参数:
//   - ctx: 上下文
//   - actor: 请求者身份（已通过认证检查）
//   - req: 创建请求
//
// 返回:
//   - *model.Rating: 新建的评分
//   - error: 校验错误或脚本不存在
func (s *RatingService) CreateRating(ctx context.Context, actor *permission.Actor, req *CreateRatingRequest) (*model.Rating, error) {
	// 1. 评分值范围校验，边界值 0 和 5 均有效
	if err := validator.ValidateRating(*req.Rating); err != nil {
		return nil, ValidationErrors{"rating": err.Error()}
	}

	// 2. 检查被评分的脚本是否存在
	script, err := s.scriptRepo.GetByID(ctx, req.Script)
	if err != nil {
		return nil, err
	}
	if script == nil {
		return nil, ErrScriptNotFound
	}

	// 3. 创建评分，评分人为当前用户
	rating := &model.Rating{
		Rating:   *req.Rating,
		Comment:  req.Comment,
		UserID:   actor.UserID,
		ScriptID: req.Script,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}

	return rating, nil
}

// GetRating 获取评分
// 参数:
//   - ctx: 上下文
//   - id: 评分ID
//
// 返回:
//   - *model.Rating: 评分信息
//   - error: 评分不存在返回 ErrRatingNotFound
func (s *RatingService) GetRating(ctx context.Context, id int64) (*model.Rating, error) {
	rating, err := s.ratingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rating == nil {
		return nil, ErrRatingNotFound
	}
	return rating, nil
}

// ListRatings 分页获取评分列表
// 参数:
//   - ctx: 上下文
//   - search: 搜索关键字
//   - page: 页码
//   - pageSize: 每页数量
//
// 返回:
//   - []model.Rating: 评分列表
//   - int64: 总记录数
//   - error: 数据库错误
func (s *RatingService) ListRatings(ctx context.Context, search string, page, pageSize int) ([]model.Rating, int64, error) {
	return s.ratingRepo.List(ctx, search, page, pageSize)
}

// UpdateRatingRequest 更新评分请求
// 指针字段为 nil 表示不修改；user 为只读字段
type UpdateRatingRequest struct {
	Rating  *float64 `json:"rating"`  // 评分值
	Comment *string  `json:"comment"` // 评论
	Script  *int64   `json:"script"`  // 被评分的脚本ID
}

// UpdateRating 更新评分
// 评分人不可修改；所有权检查在 handler 层已完成
// 参数:
//   - ctx: 上下文
//   - rating: 被更新的评分（由 handler 预先获取）
//   - req: 更新请求
//
// 返回:
//   - *model.Rating: 更新后的评分
//   - error: 校验错误
func (s *RatingService) UpdateRating(ctx context.Context, rating *model.Rating, req *UpdateRatingRequest) (*model.Rating, error) {
	// 1. 字段校验
	if req.Rating != nil {
		if err := validator.ValidateRating(*req.Rating); err != nil {
			return nil, ValidationErrors{"rating": err.Error()}
		}
	}
	if req.Script != nil {
		script, err := s.scriptRepo.GetByID(ctx, *req.Script)
		if err != nil {
			return nil, err
		}
		if script == nil {
			return nil, ErrScriptNotFound
		}
	}

	// 2. 应用变更
	if req.Rating != nil {
		rating.Rating = *req.Rating
	}
	if req.Comment != nil {
		rating.Comment = *req.Comment
	}
	if req.Script != nil {
		rating.ScriptID = *req.Script
	}

	if err := s.ratingRepo.Update(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// DeleteRating 删除评分
// 所有权检查在 handler 层已完成
// 参数:
//   - ctx: 上下文
//   - id: 评分ID
//
// 返回:
//   - error: 数据库错误
func (s *RatingService) DeleteRating(ctx context.Context, id int64) error {
	return s.ratingRepo.Delete(ctx, id)
}
