package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"workshop-server/internal/middleware"
	"workshop-server/internal/permission"
	"workshop-server/internal/serializer"
	"workshop-server/internal/service"
	"workshop-server/pkg/response"
)

// OSHandler 操作系统目录请求处理器
// 目录对所有人可读，维护操作只对管理员开放
type OSHandler struct {
	osService  *service.OSService
	serializer *serializer.Serializer
}

// NewOSHandler 创建 OSHandler 实例
func NewOSHandler(osService *service.OSService, sz *serializer.Serializer) *OSHandler {
	return &OSHandler{
		osService:  osService,
		serializer: sz,
	}
}

// ListOS 获取操作系统列表
// @Summary 获取操作系统列表
// @Tags 操作系统
// @Produce json
// @Param search query string false "搜索关键字"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/os [get]
func (h *OSHandler) ListOS(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	oses, total, err := h.osService.ListOS(c.Request.Context(), search, page, pageSize)
	if err != nil {
		response.InternalError(c, "获取操作系统列表失败")
		return
	}

	response.Success(c, gin.H{
		"os":        h.serializer.OSList(oses),
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetOS 获取操作系统详情
// @Summary 获取操作系统详情
// @Tags 操作系统
// @Produce json
// @Param id path int true "操作系统ID"
// @Success 200 {object} response.Response{data=serializer.OSResponse}
// @Router /api/v1/os/{id} [get]
func (h *OSHandler) GetOS(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的操作系统ID")
		return
	}

	os, err := h.osService.GetOS(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOSNotFound) {
			response.OSNotFound(c)
		} else {
			response.InternalError(c, "获取操作系统失败")
		}
		return
	}

	response.Success(c, h.serializer.OS(os))
}

// CreateOS 创建操作系统
// @Summary 创建操作系统
// @Tags 操作系统
// @Security Bearer
// @Accept json
// @Produce json
// @Param body body service.CreateOSRequest true "操作系统信息"
// @Success 201 {object} response.Response{data=serializer.OSResponse}
// @Router /api/v1/os [post]
func (h *OSHandler) CreateOS(c *gin.Context) {
	actor := middleware.GetActor(c)
	if !permission.IsAdminOrReadOnly(actor, c.Request.Method) {
		response.Forbidden(c, "只有管理员可以维护操作系统目录")
		return
	}

	var req service.CreateOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	os, err := h.osService.CreateOS(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c, "创建操作系统失败")
		return
	}

	response.Created(c, h.serializer.OS(os))
}

// UpdateOS 更新操作系统
// @Summary 更新操作系统
// @Tags 操作系统
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path int true "操作系统ID"
// @Param body body service.UpdateOSRequest true "更新内容"
// @Success 200 {object} response.Response{data=serializer.OSResponse}
// @Router /api/v1/os/{id} [put]
func (h *OSHandler) UpdateOS(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的操作系统ID")
		return
	}

	os, err := h.osService.GetOS(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOSNotFound) {
			response.OSNotFound(c)
		} else {
			response.InternalError(c, "获取操作系统失败")
		}
		return
	}

	actor := middleware.GetActor(c)
	if !permission.IsAdminOrReadOnly(actor, c.Request.Method) {
		response.Forbidden(c, "只有管理员可以维护操作系统目录")
		return
	}

	var req service.UpdateOSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	updated, err := h.osService.UpdateOS(c.Request.Context(), os, &req)
	if err != nil {
		response.InternalError(c, "更新操作系统失败")
		return
	}

	response.Success(c, h.serializer.OS(updated))
}

// DeleteOS 删除操作系统
// 删除时清理脚本与操作系统的兼容性关联
// @Summary 删除操作系统
// @Tags 操作系统
// @Security Bearer
// @Produce json
// @Param id path int true "操作系统ID"
// @Success 200 {object} response.Response
// @Router /api/v1/os/{id} [delete]
func (h *OSHandler) DeleteOS(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的操作系统ID")
		return
	}

	os, err := h.osService.GetOS(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrOSNotFound) {
			response.OSNotFound(c)
		} else {
			response.InternalError(c, "获取操作系统失败")
		}
		return
	}

	actor := middleware.GetActor(c)
	if !permission.IsAdminOrReadOnly(actor, c.Request.Method) {
		response.Forbidden(c, "只有管理员可以维护操作系统目录")
		return
	}

	if err := h.osService.DeleteOS(c.Request.Context(), os.ID); err != nil {
		response.InternalError(c, "删除操作系统失败")
		return
	}

	response.NoContent(c)
}
