// Package service 提供业务逻辑层的实现
package service

import (
	"context"

	"workshop-server/internal/model"
	"workshop-server/internal/repository"
)

// OSService 操作系统服务
// 操作系统的写操作只对管理员开放，权限在 handler 层检查
type OSService struct {
	osRepo *repository.OSRepository // 操作系统数据访问层
}

// NewOSService 创建 OSService 实例
func NewOSService(osRepo *repository.OSRepository) *OSService {
	return &OSService{osRepo: osRepo}
}

// CreateOSRequest 创建操作系统请求
type CreateOSRequest struct {
	Name        string `json:"name" binding:"required,max=100"` // 名称
	Description string `json:"description"`                     // 描述，可为空
	URL         string `json:"url"`                             // 官方链接，可为空
}

// CreateOS 创建操作系统
// 参数:
//   - ctx: 上下文
//   - req: 创建请求
//
// 返回:
//   - *model.OS: 新建的操作系统
//   - error: 数据库错误
func (s *OSService) CreateOS(ctx context.Context, req *CreateOSRequest) (*model.OS, error) {
	os := &model.OS{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
	}
	if err := s.osRepo.Create(ctx, os); err != nil {
		return nil, err
	}
	return os, nil
}

// GetOS 获取操作系统
// 参数:
//   - ctx: 上下文
//   - id: 操作系统ID
//
// 返回:
//   - *model.OS: 操作系统信息
//   - error: 不存在返回 ErrOSNotFound
func (s *OSService) GetOS(ctx context.Context, id int64) (*model.OS, error) {
	os, err := s.osRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if os == nil {
		return nil, ErrOSNotFound
	}
	return os, nil
}

// ListOS 分页获取操作系统列表
// 参数:
//   - ctx: 上下文
//   - search: 搜索关键字
//   - page: 页码
//   - pageSize: 每页数量
//
// 返回:
//   - []model.OS: 操作系统列表
//   - int64: 总记录数
//   - error: 数据库错误
func (s *OSService) ListOS(ctx context.Context, search string, page, pageSize int) ([]model.OS, int64, error) {
	return s.osRepo.List(ctx, search, page, pageSize)
}

// UpdateOSRequest 更新操作系统请求
type UpdateOSRequest struct {
	Name        *string `json:"name"`        // 名称
	Description *string `json:"description"` // 描述
	URL         *string `json:"url"`         // 官方链接
}

// UpdateOS 更新操作系统
// 参数:
//   - ctx: 上下文
//   - os: 被更新的操作系统（由 handler 预先获取）
//   - req: 更新请求
//
// 返回:
//   - *model.OS: 更新后的操作系统
//   - error: 数据库错误
func (s *OSService) UpdateOS(ctx context.Context, os *model.OS, req *UpdateOSRequest) (*model.OS, error) {
	if req.Name != nil {
		os.Name = *req.Name
	}
	if req.Description != nil {
		os.Description = *req.Description
	}
	if req.URL != nil {
		os.URL = *req.URL
	}
	if err := s.osRepo.Update(ctx, os); err != nil {
		return nil, err
	}
	return os, nil
}

// DeleteOS 删除操作系统
// 参数:
//   - ctx: 上下文
//   - id: 操作系统ID
//
// 返回:
//   - error: 数据库错误
func (s *OSService) DeleteOS(ctx context.Context, id int64) error {
	return s.osRepo.Delete(ctx, id)
}
