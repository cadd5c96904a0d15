// Package repository 提供数据访问层的实现
package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"workshop-server/internal/model"
)

// ScriptRepository 脚本数据访问层
type ScriptRepository struct {
	db *gorm.DB // GORM 数据库连接实例
}

// NewScriptRepository 创建 ScriptRepository 实例
func NewScriptRepository(db *gorm.DB) *ScriptRepository {
	return &ScriptRepository{db: db}
}

// Create 创建新脚本
// Compatibility 关联会一并写入中间表
// 参数:
//   - ctx: 上下文
//   - script: 脚本对象，ID 字段会被自动填充
//
// 返回:
//   - error: 数据库错误
func (r *ScriptRepository) Create(ctx context.Context, script *model.Script) error {
	return r.db.WithContext(ctx).Create(script).Error
}

// GetByID 根据 ID 获取脚本
// 预加载评分和兼容性关联，供序列化使用
// 参数:
//   - ctx: 上下文
//   - id: 脚本ID
//
// 返回:
//   - *model.Script: 脚本对象，如果未找到返回 nil
//   - error: 数据库错误
func (r *ScriptRepository) GetByID(ctx context.Context, id int64) (*model.Script, error) {
	var script model.Script
	err := r.db.WithContext(ctx).
		Preload("Ratings").
		Preload("Compatibility").
		First(&script, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &script, nil
}

// GetByIDs 根据 ID 集合获取脚本
// 返回结果保持传入 ID 的顺序，用于热门排行
// 参数:
//   - ctx: 上下文
//   - ids: 脚本ID列表
//
// 返回:
//   - []model.Script: 脚本列表
//   - error: 数据库错误
func (r *ScriptRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Script, error) {
	if len(ids) == 0 {
		return []model.Script{}, nil
	}

	var scripts []model.Script
	err := r.db.WithContext(ctx).
		Preload("Ratings").
		Preload("Compatibility").
		Where("id IN ?", ids).
		Find(&scripts).Error
	if err != nil {
		return nil, err
	}

	// 按传入顺序重排
	byID := make(map[int64]model.Script, len(scripts))
	for _, s := range scripts {
		byID[s.ID] = s
	}
	ordered := make([]model.Script, 0, len(scripts))
	for _, id := range ids {
		if s, ok := byID[id]; ok {
			ordered = append(ordered, s)
		}
	}
	return ordered, nil
}

// List 分页获取脚本列表，支持搜索
// 搜索字段: 名称、描述、文件内容、许可证（前缀匹配）、版本、语言、
// 作者用户名、兼容的操作系统名
// 默认按创建时间倒序排列
// 参数:
//   - ctx: 上下文
//   - search: 搜索关键字，空字符串表示不过滤
//   - page: 页码，从 1 开始
//   - pageSize: 每页数量
//
// 返回:
//   - []model.Script: 脚本列表
//   - int64: 总记录数
//   - error: 数据库错误
func (r *ScriptRepository) List(ctx context.Context, search string, page, pageSize int) ([]model.Script, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Script{})

	if search != "" {
		like := "%" + search + "%"
		prefix := search + "%"
		query = query.
			Joins("LEFT JOIN users ON users.id = scripts.author_id").
			Joins("LEFT JOIN script_compatibility ON script_compatibility.script_id = scripts.id").
			Joins("LEFT JOIN os ON os.id = script_compatibility.os_id").
			Where(
				"scripts.name LIKE ? OR scripts.description LIKE ? OR scripts.files LIKE ? OR scripts.licence LIKE ? OR scripts.version LIKE ? OR scripts.language LIKE ? OR users.username LIKE ? OR os.name LIKE ?",
				like, like, like, prefix, like, like, like, like,
			)
	}

	var total int64
	if err := query.Distinct("scripts.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var scripts []model.Script
	offset := (page - 1) * pageSize
	err := query.
		Distinct("scripts.*").
		Preload("Ratings").
		Preload("Compatibility").
		Order("scripts.created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&scripts).Error
	if err != nil {
		return nil, 0, err
	}
	return scripts, total, nil
}

// Update 更新脚本
// 跳过 views 列，避免覆盖其他请求并发递增的浏览计数
// 关联（评分、兼容性）也不随更新回写
// 参数:
//   - ctx: 上下文
//   - script: 包含要更新字段的脚本对象，必须包含 ID
//
// 返回:
//   - error: 数据库错误
func (r *ScriptRepository) Update(ctx context.Context, script *model.Script) error {
	return r.db.WithContext(ctx).Omit("views", "Ratings", "Compatibility").Save(script).Error
}

// ReplaceCompatibility 替换脚本的兼容性关联
// 参数:
//   - ctx: 上下文
//   - script: 脚本对象
//   - oses: 新的操作系统集合
//
// 返回:
//   - error: 数据库错误
func (r *ScriptRepository) ReplaceCompatibility(ctx context.Context, script *model.Script, oses []model.OS) error {
	return r.db.WithContext(ctx).Model(script).Association("Compatibility").Replace(oses)
}

// IncrementViews 原子递增脚本的浏览计数
// 使用数据库端的自增表达式，并发查看同一脚本不会丢失更新
// 使用 UpdateColumn 跳过钩子，因此不会推进 updated_at
// 参数:
//   - ctx: 上下文
//   - id: 脚本ID
//
// 返回:
//   - error: 数据库错误
func (r *ScriptRepository) IncrementViews(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).
		Model(&model.Script{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// Delete 删除脚本
// 级联删除脚本收到的评分和兼容性关联，全部在一个事务中完成
// 参数:
//   - ctx: 上下文
//   - id: 脚本ID
//
// 返回:
//   - error: 数据库错误
func (r *ScriptRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("script_id = ?", id).Delete(&model.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM script_compatibility WHERE script_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Script{}, id).Error
	})
}
