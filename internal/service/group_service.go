// Package service 提供业务逻辑层的实现
package service

import (
	"context"

	"workshop-server/internal/model"
	"workshop-server/internal/repository"
)

// GroupService 分组服务
// 分组的写操作只对管理员开放，权限在 handler 层检查
type GroupService struct {
	groupRepo *repository.GroupRepository // 分组数据访问层
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(groupRepo *repository.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// CreateGroupRequest 创建分组请求
// user_set 为只读字段，成员关系通过用户更新接口维护
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,max=100"` // 分组名称
}

// CreateGroup 创建分组
// 参数:
//   - ctx: 上下文
//   - req: 创建请求
//
// 返回:
//   - *model.Group: 新建的分组
//   - error: 数据库错误
func (s *GroupService) CreateGroup(ctx context.Context, req *CreateGroupRequest) (*model.Group, error) {
	group := &model.Group{Name: req.Name}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}
	return group, nil
}

// GetGroup 获取分组
// 参数:
//   - ctx: 上下文
//   - id: 分组ID
//
// 返回:
//   - *model.Group: 分组信息（预加载成员）
//   - error: 分组不存在返回 ErrGroupNotFound
func (s *GroupService) GetGroup(ctx context.Context, id int64) (*model.Group, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return group, nil
}

// ListGroups 分页获取分组列表
// 参数:
//   - ctx: 上下文
//   - search: 搜索关键字
//   - page: 页码
//   - pageSize: 每页数量
//
// 返回:
//   - []model.Group: 分组列表
//   - int64: 总记录数
//   - error: 数据库错误
func (s *GroupService) ListGroups(ctx context.Context, search string, page, pageSize int) ([]model.Group, int64, error) {
	return s.groupRepo.List(ctx, search, page, pageSize)
}

// UpdateGroupRequest 更新分组请求
type UpdateGroupRequest struct {
	Name *string `json:"name"` // 分组名称
}

// UpdateGroup 更新分组
// 参数:
//   - ctx: 上下文
//   - group: 被更新的分组（由 handler 预先获取）
//   - req: 更新请求
//
// 返回:
//   - *model.Group: 更新后的分组
//   - error: 数据库错误
func (s *GroupService) UpdateGroup(ctx context.Context, group *model.Group, req *UpdateGroupRequest) (*model.Group, error) {
	if req.Name != nil {
		group.Name = *req.Name
	}
	if err := s.groupRepo.Update(ctx, group); err != nil {
		return nil, err
	}
	return s.GetGroup(ctx, group.ID)
}

// DeleteGroup 删除分组
// 参数:
//   - ctx: 上下文
//   - id: 分组ID
//
// 返回:
//   - error: 数据库错误
func (s *GroupService) DeleteGroup(ctx context.Context, id int64) error {
	return s.groupRepo.Delete(ctx, id)
}
