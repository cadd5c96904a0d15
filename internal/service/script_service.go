// Package service 提供业务逻辑层的实现
package service

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"workshop-server/internal/cache"
	"workshop-server/internal/model"
	"workshop-server/internal/permission"
	"workshop-server/internal/repository"
	"workshop-server/internal/validator"
)

// ScriptService 脚本服务
// 处理脚本的创建、查询（含浏览计数）、更新和删除
type ScriptService struct {
	scriptRepo *repository.ScriptRepository // 脚本数据访问层
	osRepo     *repository.OSRepository     // 操作系统数据访问层
	cache      *cache.RedisCache            // Redis 缓存，可为 nil（热门排行不可用）
}

// NewScriptService 创建 ScriptService 实例
func NewScriptService(
	scriptRepo *repository.ScriptRepository,
	osRepo *repository.OSRepository,
	cache *cache.RedisCache,
) *ScriptService {
	return &ScriptService{
		scriptRepo: scriptRepo,
		osRepo:     osRepo,
		cache:      cache,
	}
}

// CreateScriptRequest 创建脚本请求
// created/modified/views/author/ratings 为只读字段，不接受客户端输入
type CreateScriptRequest struct {
	Name          string            `json:"name" binding:"required,max=100"` // 脚本名称
	Files         map[string]string `json:"files" binding:"required"`        // 文件名 -> 内容
	Language      string            `json:"language" binding:"required"`     // 编程语言
	Version       string            `json:"version"`                         // 版本号，默认 "1.0"
	Description   string            `json:"description"`                     // 描述
	Licence       string            `json:"licence"`                         // 许可证，默认 "MIT"
	Compatibility []int64           `json:"compatibility"`                   // 兼容的操作系统ID集合，可为空
}

// CreateScript 创建脚本
// 作者强制设置为当前登录用户，忽略请求中的任何作者信息
// 参数:
//   - ctx: 上下文
//   - actor: 请求者身份（已通过认证检查）
//   - req: 创建请求
//
// 返回:
//   - *model.Script: 新建的脚本（预加载关联）
//   - error: 校验错误
func (s *ScriptService) CreateScript(ctx context.Context, actor *permission.Actor, req *CreateScriptRequest) (*model.Script, error) {
	// 1. 字段校验，任何失败都不会产生写入
	if verr := validateScriptFields(req.Language, req.Files); verr != nil {
		return nil, verr
	}

	// 2. 校验兼容性列表中的操作系统是否都存在
	oses, err := s.osRepo.GetByIDs(ctx, req.Compatibility)
	if err != nil {
		return nil, err
	}
	if len(oses) != len(uniqueIDs(req.Compatibility)) {
		return nil, ErrOSNotFound
	}

	// 3. 填充默认值
	version := req.Version
	if version == "" {
		version = model.DefaultScriptVersion
	}
	licence := req.Licence
	if licence == "" {
		licence = model.DefaultScriptLicence
	}

	files, err := json.Marshal(req.Files)
	if err != nil {
		return nil, err
	}

	// 4. 创建脚本，作者为当前用户
	script := &model.Script{
		Name:          req.Name,
		Files:         datatypes.JSON(files),
		Language:      req.Language,
		Version:       version,
		Description:   req.Description,
		Licence:       licence,
		AuthorID:      actor.UserID,
		Compatibility: oses,
	}
	if err := s.scriptRepo.Create(ctx, script); err != nil {
		return nil, err
	}

	return s.GetScript(ctx, script.ID)
}

// GetScript 获取脚本，不产生副作用
// 供 handler 层做权限检查和更新前查询使用
// 参数:
//   - ctx: 上下文
//   - id: 脚本ID
//
// 返回:
//   - *model.Script: 脚本信息（预加载关联）
//   - error: 脚本不存在返回 ErrScriptNotFound
func (s *ScriptService) GetScript(ctx context.Context, id int64) (*model.Script, error) {
	script, err := s.scriptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if script == nil {
		return nil, ErrScriptNotFound
	}
	return script, nil
}

// RetrieveScript 获取脚本并递增浏览计数
// 这是唯一带有读取副作用的操作: 浏览计数在存储层原子 +1，
// 不推进 modified 时间戳，并发读取不会丢失更新；
// 响应返回递增后的最新数据
// 参数:
//   - ctx: 上下文
//   - id: 脚本ID
//
// 返回:
//   - *model.Script: 脚本信息（浏览计数已递增）
//   - error: 脚本不存在返回 ErrScriptNotFound
func (s *ScriptService) RetrieveScript(ctx context.Context, id int64) (*model.Script, error) {
	// 先确认脚本存在，避免对不存在的 ID 执行 UPDATE
	script, err := s.scriptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if script == nil {
		return nil, ErrScriptNotFound
	}

	// 存储层原子递增
	if err := s.scriptRepo.IncrementViews(ctx, id); err != nil {
		return nil, err
	}

	// 热门排行是尽力而为的辅助数据，失败不影响主流程
	if s.cache != nil {
		_ = s.cache.IncrScriptViews(ctx, id)
	}

	return s.GetScript(ctx, id)
}

// ListScripts 分页获取脚本列表
// 参数:
//   - ctx: 上下文
//   - search: 搜索关键字
//   - page: 页码
//   - pageSize: 每页数量
//
// 返回:
//   - []model.Script: 脚本列表
//   - int64: 总记录数
//   - error: 数据库错误
func (s *ScriptService) ListScripts(ctx context.Context, search string, page, pageSize int) ([]model.Script, int64, error) {
	return s.scriptRepo.List(ctx, search, page, pageSize)
}

// TrendingScripts 获取热门脚本
// 按 Redis 排行榜的热度降序返回，Redis 不可用时返回空列表
// 参数:
//   - ctx: 上下文
//   - limit: 返回的最大数量
//
// 返回:
//   - []model.Script: 热门脚本列表
//   - error: 数据库错误
func (s *ScriptService) TrendingScripts(ctx context.Context, limit int64) ([]model.Script, error) {
	if s.cache == nil {
		return []model.Script{}, nil
	}
	ids, err := s.cache.GetTrendingScripts(ctx, limit)
	if err != nil {
		return []model.Script{}, nil
	}
	return s.scriptRepo.GetByIDs(ctx, ids)
}

// UpdateScriptRequest 更新脚本请求
// 指针字段为 nil 表示不修改；只读字段不在此结构中
type UpdateScriptRequest struct {
	Name          *string            `json:"name"`          // 脚本名称
	Files         *map[string]string `json:"files"`         // 文件名 -> 内容
	Language      *string            `json:"language"`      // 编程语言
	Version       *string            `json:"version"`       // 版本号
	Description   *string            `json:"description"`   // 描述
	Licence       *string            `json:"licence"`       // 许可证
	Compatibility *[]int64           `json:"compatibility"` // 兼容的操作系统ID集合
}

// UpdateScript 更新脚本
// 作者和浏览计数不可修改；所有权检查在 handler 层已完成
// 参数:
//   - ctx: 上下文
//   - script: 被更新的脚本（由 handler 预先获取）
//   - req: 更新请求
//
// 返回:
//   - *model.Script: 更新后的脚本
//   - error: 校验错误
func (s *ScriptService) UpdateScript(ctx context.Context, script *model.Script, req *UpdateScriptRequest) (*model.Script, error) {
	// 1. 字段校验
	if req.Language != nil {
		if err := validator.ValidateLanguage(*req.Language); err != nil {
			return nil, ValidationErrors{"language": err.Error()}
		}
	}
	if req.Files != nil {
		if err := validator.ValidateScriptFiles(*req.Files); err != nil {
			return nil, ValidationErrors{"files": err.Error()}
		}
	}

	var newOSes []model.OS
	if req.Compatibility != nil {
		oses, err := s.osRepo.GetByIDs(ctx, *req.Compatibility)
		if err != nil {
			return nil, err
		}
		if len(oses) != len(uniqueIDs(*req.Compatibility)) {
			return nil, ErrOSNotFound
		}
		newOSes = oses
	}

	// 2. 应用变更
	if req.Name != nil {
		script.Name = *req.Name
	}
	if req.Language != nil {
		script.Language = *req.Language
	}
	if req.Version != nil {
		script.Version = *req.Version
	}
	if req.Description != nil {
		script.Description = *req.Description
	}
	if req.Licence != nil {
		script.Licence = *req.Licence
	}
	if req.Files != nil {
		files, err := json.Marshal(*req.Files)
		if err != nil {
			return nil, err
		}
		script.Files = datatypes.JSON(files)
	}

	if err := s.scriptRepo.Update(ctx, script); err != nil {
		return nil, err
	}
	if req.Compatibility != nil {
		if err := s.scriptRepo.ReplaceCompatibility(ctx, script, newOSes); err != nil {
			return nil, err
		}
	}

	return s.GetScript(ctx, script.ID)
}

// DeleteScript 删除脚本
// 级联删除其评分，并从热门排行中移除；所有权检查在 handler 层已完成
// 参数:
//   - ctx: 上下文
//   - id: 脚本ID
//
// 返回:
//   - error: 数据库错误
func (s *ScriptService) DeleteScript(ctx context.Context, id int64) error {
	if err := s.scriptRepo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.RemoveScriptFromTrending(ctx, id)
	}
	return nil
}

// validateScriptFields 校验脚本的语言和文件包
// 返回 nil 或包含全部字段错误的 ValidationErrors
func validateScriptFields(language string, files map[string]string) ValidationErrors {
	verr := ValidationErrors{}
	if err := validator.ValidateLanguage(language); err != nil {
		verr["language"] = err.Error()
	}
	if err := validator.ValidateScriptFiles(files); err != nil {
		verr["files"] = err.Error()
	}
	if len(verr) == 0 {
		return nil
	}
	return verr
}
