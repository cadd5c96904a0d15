// Package repository 提供数据访问层的实现
// 封装所有与数据库的交互操作
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"workshop-server/internal/model"
)

// UserRepository 用户数据访问层
// 负责用户相关的所有数据库操作
type UserRepository struct {
	db *gorm.DB // GORM 数据库连接实例
}

// NewUserRepository 创建 UserRepository 实例
// 参数:
//   - db: GORM 数据库连接
//
// 返回:
//   - *UserRepository: 用户仓库实例
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建新用户
// 参数:
//   - ctx: 上下文，用于控制请求生命周期
//   - user: 用户对象，ID 字段会被自动填充
//
// 返回:
//   - error: 如果用户名或邮箱重复，会返回错误
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByID 根据 ID 获取用户
// 预加载分组、脚本和评分的反向关联，供序列化使用
// 参数:
//   - ctx: 上下文
//   - id: 用户ID
//
// 返回:
//   - *model.User: 用户对象，如果未找到返回 nil
//   - error: 数据库错误（不包括记录未找到）
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Preload("Groups").
		Preload("Scripts").
		Preload("Ratings").
		First(&user, id).Error
	if err != nil {
		// 检查是否是"记录未找到"错误
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 未找到返回 nil，不当作错误
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername 根据用户名获取用户
// 用于登录验证
// 参数:
//   - ctx: 上下文
//   - username: 用户名
//
// 返回:
//   - *model.User: 用户对象，如果未找到返回 nil
//   - error: 数据库错误
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// List 分页获取用户列表，支持搜索
// 搜索字段: 用户名、所属分组名、发布的脚本名
// 默认按注册时间倒序排列
// 参数:
//   - ctx: 上下文
//   - search: 搜索关键字，空字符串表示不过滤
//   - page: 页码，从 1 开始
//   - pageSize: 每页数量
//
// 返回:
//   - []model.User: 用户列表
//   - int64: 总记录数
//   - error: 数据库错误
func (r *UserRepository) List(ctx context.Context, search string, page, pageSize int) ([]model.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.User{})

	if search != "" {
		like := "%" + search + "%"
		// groups 是 MySQL 8 的保留字，手写 SQL 片段必须自行加反引号
		query = query.
			Joins("LEFT JOIN user_groups ON user_groups.user_id = users.id").
			Joins("LEFT JOIN `groups` ON `groups`.id = user_groups.group_id").
			Joins("LEFT JOIN scripts ON scripts.author_id = users.id").
			Where("users.username LIKE ? OR `groups`.name LIKE ? OR scripts.name LIKE ?", like, like, like)
	}

	// 统计总数（JOIN 可能产生重复行，按主键去重）
	var total int64
	if err := query.Distinct("users.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []model.User
	offset := (page - 1) * pageSize
	err := query.
		Distinct("users.*").
		Preload("Groups").
		Preload("Scripts").
		Preload("Ratings").
		Order("users.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Update 更新用户信息
// 参数:
//   - ctx: 上下文
//   - user: 包含要更新字段的用户对象，必须包含 ID
//
// 返回:
//   - error: 数据库错误
func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// UpdateFields 更新用户的指定字段
// 参数:
//   - ctx: 上下文
//   - id: 用户ID
//   - fields: 要更新的字段映射，如 map[string]interface{}{"email": "xxx"}
//
// 返回:
//   - error: 数据库错误
func (r *UserRepository) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// ReplaceGroups 替换用户的分组归属
// 只有管理员路径会走到这里，权限在 service 层检查
// 参数:
//   - ctx: 上下文
//   - user: 用户对象
//   - groups: 新的分组集合
//
// 返回:
//   - error: 数据库错误
func (r *UserRepository) ReplaceGroups(ctx context.Context, user *model.User, groups []model.Group) error {
	return r.db.WithContext(ctx).Model(user).Association("Groups").Replace(groups)
}

// Delete 删除用户
// 级联删除用户发布的脚本（连同脚本收到的评分）、用户发表的评分
// 以及分组关联，全部在一个事务中完成
// 参数:
//   - ctx: 上下文
//   - id: 用户ID
//
// 返回:
//   - error: 数据库错误
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 用户发表的评分
		if err := tx.Where("user_id = ?", id).Delete(&model.Rating{}).Error; err != nil {
			return err
		}

		// 用户发布的脚本收到的评分
		if err := tx.Where("script_id IN (?)",
			tx.Model(&model.Script{}).Select("id").Where("author_id = ?", id),
		).Delete(&model.Rating{}).Error; err != nil {
			return err
		}

		// 脚本的兼容性关联
		if err := tx.Exec("DELETE FROM script_compatibility WHERE script_id IN (SELECT id FROM scripts WHERE author_id = ?)", id).Error; err != nil {
			return err
		}

		// 用户发布的脚本
		if err := tx.Where("author_id = ?", id).Delete(&model.Script{}).Error; err != nil {
			return err
		}

		// 分组关联
		if err := tx.Exec("DELETE FROM user_groups WHERE user_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&model.User{}, id).Error
	})
}

// ExistsByUsername 检查用户名是否已存在
// 参数:
//   - ctx: 上下文
//   - username: 用户名
//
// 返回:
//   - bool: 是否存在
//   - error: 数据库错误
func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ExistsByEmail 检查邮箱是否已被使用
// 参数:
//   - ctx: 上下文
//   - email: 邮箱
//   - excludeID: 排除的用户ID（更新自己的邮箱时传入自身ID，新建时传 0）
//
// 返回:
//   - bool: 是否存在
//   - error: 数据库错误
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}
