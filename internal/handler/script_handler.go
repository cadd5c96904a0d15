package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"workshop-server/internal/middleware"
	"workshop-server/internal/permission"
	"workshop-server/internal/serializer"
	"workshop-server/internal/service"
	"workshop-server/pkg/response"
)

// ScriptHandler 脚本请求处理器
// 脚本对所有人可读，创建需登录，修改和删除限作者本人或管理员
type ScriptHandler struct {
	scriptService *service.ScriptService
	serializer    *serializer.Serializer
}

// NewScriptHandler 创建 ScriptHandler 实例
func NewScriptHandler(scriptService *service.ScriptService, sz *serializer.Serializer) *ScriptHandler {
	return &ScriptHandler{
		scriptService: scriptService,
		serializer:    sz,
	}
}

// ListScripts 获取脚本列表
// 列表浏览不计入浏览次数
// @Summary 获取脚本列表
// @Tags 脚本
// @Produce json
// @Param search query string false "搜索关键字"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/scripts [get]
func (h *ScriptHandler) ListScripts(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	scripts, total, err := h.scriptService.ListScripts(c.Request.Context(), search, page, pageSize)
	if err != nil {
		response.InternalError(c, "获取脚本列表失败")
		return
	}

	response.Success(c, gin.H{
		"scripts":   h.serializer.ScriptList(scripts),
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetScript 获取脚本详情
// 每次访问详情会将浏览次数加一，响应中的 views 为加一后的值
// @Summary 获取脚本详情
// @Tags 脚本
// @Produce json
// @Param id path int true "脚本ID"
// @Success 200 {object} response.Response{data=serializer.ScriptResponse}
// @Router /api/v1/scripts/{id} [get]
func (h *ScriptHandler) GetScript(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的脚本ID")
		return
	}

	script, err := h.scriptService.RetrieveScript(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrScriptNotFound) {
			response.ScriptNotFound(c)
		} else {
			response.InternalError(c, "获取脚本失败")
		}
		return
	}

	response.Success(c, h.serializer.Script(script))
}

// Trending 获取热门脚本
// 按近期浏览热度倒序返回脚本列表
// @Summary 获取热门脚本
// @Tags 脚本
// @Produce json
// @Param limit query int false "返回数量" default(10)
// @Success 200 {object} response.Response
// @Router /api/v1/scripts/trending [get]
func (h *ScriptHandler) Trending(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if limit < 1 || limit > 100 {
		limit = 10
	}

	scripts, err := h.scriptService.TrendingScripts(c.Request.Context(), limit)
	if err != nil {
		response.InternalError(c, "获取热门脚本失败")
		return
	}

	response.Success(c, gin.H{
		"scripts": h.serializer.ScriptList(scripts),
	})
}

// CreateScript 创建脚本
// 作者强制为当前登录用户，不接受请求体指定
// @Summary 创建脚本
// @Tags 脚本
// @Security Bearer
// @Accept json
// @Produce json
// @Param body body service.CreateScriptRequest true "脚本信息"
// @Success 201 {object} response.Response{data=serializer.ScriptResponse}
// @Router /api/v1/scripts [post]
func (h *ScriptHandler) CreateScript(c *gin.Context) {
	actor := middleware.GetActor(c)
	if !permission.IsAuthenticatedOrReadOnly(actor, c.Request.Method) {
		response.Unauthorized(c, "请先登录")
		return
	}

	var req service.CreateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	script, err := h.scriptService.CreateScript(c.Request.Context(), actor, &req)
	if err != nil {
		var verrs service.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			response.ValidationFailed(c, verrs)
		case errors.Is(err, service.ErrOSNotFound):
			response.OSNotFound(c)
		default:
			response.InternalError(c, "创建脚本失败")
		}
		return
	}

	response.Created(c, h.serializer.Script(script))
}

// UpdateScript 更新脚本
// 只有作者本人或管理员可以修改，作者字段不可变更
// @Summary 更新脚本
// @Tags 脚本
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path int true "脚本ID"
// @Param body body service.UpdateScriptRequest true "更新内容"
// @Success 200 {object} response.Response{data=serializer.ScriptResponse}
// @Router /api/v1/scripts/{id} [put]
func (h *ScriptHandler) UpdateScript(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的脚本ID")
		return
	}

	// 更新操作不触发浏览计数
	script, err := h.scriptService.GetScript(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrScriptNotFound) {
			response.ScriptNotFound(c)
		} else {
			response.InternalError(c, "获取脚本失败")
		}
		return
	}

	actor := middleware.GetActor(c)
	if !permission.IsScriptOwnerOrReadOnly(actor, script.AuthorID, c.Request.Method) {
		response.Forbidden(c, "无权修改此脚本")
		return
	}

	var req service.UpdateScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	updated, err := h.scriptService.UpdateScript(c.Request.Context(), script, &req)
	if err != nil {
		var verrs service.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			response.ValidationFailed(c, verrs)
		case errors.Is(err, service.ErrOSNotFound):
			response.OSNotFound(c)
		default:
			response.InternalError(c, "更新脚本失败")
		}
		return
	}

	response.Success(c, h.serializer.Script(updated))
}

// DeleteScript 删除脚本
// 只有作者本人或管理员可以删除，关联评分一并清理
// @Summary 删除脚本
// @Tags 脚本
// @Security Bearer
// @Produce json
// @Param id path int true "脚本ID"
// @Success 200 {object} response.Response
// @Router /api/v1/scripts/{id} [delete]
func (h *ScriptHandler) DeleteScript(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的脚本ID")
		return
	}

	script, err := h.scriptService.GetScript(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrScriptNotFound) {
			response.ScriptNotFound(c)
		} else {
			response.InternalError(c, "获取脚本失败")
		}
		return
	}

	actor := middleware.GetActor(c)
	if !permission.IsScriptOwnerOrReadOnly(actor, script.AuthorID, c.Request.Method) {
		response.Forbidden(c, "无权删除此脚本")
		return
	}

	if err := h.scriptService.DeleteScript(c.Request.Context(), script.ID); err != nil {
		response.InternalError(c, "删除脚本失败")
		return
	}

	response.NoContent(c)
}
