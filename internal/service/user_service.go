// Package service 提供业务逻辑层的实现
package service

import (
	"context"

	"workshop-server/internal/model"
	"workshop-server/internal/permission"
	"workshop-server/internal/repository"
	"workshop-server/internal/validator"
)

// UserService 用户服务
// 处理用户信息的查询、更新和删除
type UserService struct {
	userRepo  *repository.UserRepository  // 用户数据访问层
	groupRepo *repository.GroupRepository // 分组数据访问层
}

// NewUserService 创建 UserService 实例
func NewUserService(userRepo *repository.UserRepository, groupRepo *repository.GroupRepository) *UserService {
	return &UserService{
		userRepo:  userRepo,
		groupRepo: groupRepo,
	}
}

// GetUser 获取用户
// 参数:
//   - ctx: 上下文
//   - id: 用户ID
//
// 返回:
//   - *model.User: 用户信息（预加载关联）
//   - error: 用户不存在返回 ErrUserNotFound
func (s *UserService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ListUsers 分页获取用户列表
// 参数:
//   - ctx: 上下文
//   - search: 搜索关键字
//   - page: 页码
//   - pageSize: 每页数量
//
// 返回:
//   - []model.User: 用户列表
//   - int64: 总记录数
//   - error: 数据库错误
func (s *UserService) ListUsers(ctx context.Context, search string, page, pageSize int) ([]model.User, int64, error) {
	return s.userRepo.List(ctx, search, page, pageSize)
}

// UpdateUserRequest 更新用户请求
// 指针字段为 nil 表示不修改；scripts/ratings 等只读字段不在此结构中
type UpdateUserRequest struct {
	Username *string  `json:"username"` // 用户名
	Email    *string  `json:"email"`    // 邮箱
	Groups   *[]int64 `json:"groups"`   // 分组ID集合，仅管理员可修改
}

// UpdateUser 更新用户信息
// 非管理员试图改变自己的分组归属会被拒绝（ErrGroupSelfEdit），
// 且不产生任何写入；所有权检查在 handler 层已完成
// 参数:
//   - ctx: 上下文
//   - actor: 请求者身份
//   - user: 被更新的用户（由 handler 预先获取）
//   - req: 更新请求
//
// 返回:
//   - *model.User: 更新后的用户信息
//   - error: 校验或权限错误
func (s *UserService) UpdateUser(ctx context.Context, actor *permission.Actor, user *model.User, req *UpdateUserRequest) (*model.User, error) {
	// 1. 分组修改的权限检查，先于任何变更执行
	var newGroups []model.Group
	if req.Groups != nil {
		groups, err := s.groupRepo.GetByIDs(ctx, *req.Groups)
		if err != nil {
			return nil, err
		}
		if len(groups) != len(uniqueIDs(*req.Groups)) {
			return nil, ErrGroupNotFound
		}

		if !permission.CanEditGroups(actor) && groupsChanged(user.Groups, groups) {
			return nil, ErrGroupSelfEdit
		}
		newGroups = groups
	}

	// 2. 字段校验
	fields := make(map[string]interface{})

	if req.Email != nil && *req.Email != user.Email {
		if err := validator.ValidateEmail(*req.Email); err != nil {
			return nil, ValidationErrors{"email": err.Error()}
		}
		// 检查邮箱是否已被其他用户使用
		exists, err := s.userRepo.ExistsByEmail(ctx, *req.Email, user.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrEmailExists
		}
		fields["email"] = *req.Email
	}

	if req.Username != nil && *req.Username != user.Username {
		exists, err := s.userRepo.ExistsByUsername(ctx, *req.Username)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrUserExists
		}
		fields["username"] = *req.Username
	}

	// 3. 应用变更
	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, user.ID, fields); err != nil {
			return nil, err
		}
	}
	if req.Groups != nil && permission.CanEditGroups(actor) {
		if err := s.userRepo.ReplaceGroups(ctx, user, newGroups); err != nil {
			return nil, err
		}
	}

	// 4. 重新获取更新后的用户信息
	return s.GetUser(ctx, user.ID)
}

// DeleteUser 删除用户
// 级联删除其脚本和评分；所有权检查在 handler 层已完成
// 参数:
//   - ctx: 上下文
//   - id: 用户ID
//
// 返回:
//   - error: 数据库错误
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	return s.userRepo.Delete(ctx, id)
}

// uniqueIDs 去重 ID 列表
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// groupsChanged 判断两个分组集合是否不同（忽略顺序）
func groupsChanged(current, requested []model.Group) bool {
	if len(current) != len(requested) {
		return true
	}
	currentIDs := make(map[int64]struct{}, len(current))
	for _, g := range current {
		currentIDs[g.ID] = struct{}{}
	}
	for _, g := range requested {
		if _, ok := currentIDs[g.ID]; !ok {
			return true
		}
	}
	return false
}
