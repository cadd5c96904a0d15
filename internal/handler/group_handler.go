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

// GroupHandler 用户分组请求处理器
// 分组对所有人可读，写操作只对管理员开放
type GroupHandler struct {
	groupService *service.GroupService
	serializer   *serializer.Serializer
}

// NewGroupHandler 创建 GroupHandler 实例
func NewGroupHandler(groupService *service.GroupService, sz *serializer.Serializer) *GroupHandler {
	return &GroupHandler{
		groupService: groupService,
		serializer:   sz,
	}
}

// ListGroups 获取分组列表
// @Summary 获取分组列表
// @Tags 分组
// @Produce json
// @Param search query string false "搜索关键字"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	groups, total, err := h.groupService.ListGroups(c.Request.Context(), search, page, pageSize)
	if err != nil {
		response.InternalError(c, "获取分组列表失败")
		return
	}

	response.Success(c, gin.H{
		"groups":    h.serializer.GroupList(groups),
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetGroup 获取分组详情
// @Summary 获取分组详情
// @Tags 分组
// @Produce json
// @Param id path int true "分组ID"
// @Success 200 {object} response.Response{data=serializer.GroupResponse}
// @Router /api/v1/groups/{id} [get]
func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的分组ID")
		return
	}

	group, err := h.groupService.GetGroup(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.GroupNotFound(c)
		} else {
			response.InternalError(c, "获取分组失败")
		}
		return
	}

	response.Success(c, h.serializer.Group(group))
}

// CreateGroup 创建分组
// @Summary 创建分组
// @Tags 分组
// @Security Bearer
// @Accept json
// @Produce json
// @Param body body service.CreateGroupRequest true "分组信息"
// @Success 201 {object} response.Response{data=serializer.GroupResponse}
// @Router /api/v1/groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	actor := middleware.GetActor(c)
	if !permission.IsAdminOrReadOnly(actor, c.Request.Method) {
		response.Forbidden(c, "只有管理员可以创建分组")
		return
	}

	var req service.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	group, err := h.groupService.CreateGroup(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c, "创建分组失败")
		return
	}

	response.Created(c, h.serializer.Group(group))
}

// UpdateGroup 更新分组
// @Summary 更新分组
// @Tags 分组
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path int true "分组ID"
// @Param body body service.UpdateGroupRequest true "更新内容"
// @Success 200 {object} response.Response{data=serializer.GroupResponse}
// @Router /api/v1/groups/{id} [put]
func (h *GroupHandler) UpdateGroup(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的分组ID")
		return
	}

	group, err := h.groupService.GetGroup(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.GroupNotFound(c)
		} else {
			response.InternalError(c, "获取分组失败")
		}
		return
	}

	actor := middleware.GetActor(c)
	if !permission.IsAdminOrReadOnly(actor, c.Request.Method) {
		response.Forbidden(c, "只有管理员可以修改分组")
		return
	}

	var req service.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	updated, err := h.groupService.UpdateGroup(c.Request.Context(), group, &req)
	if err != nil {
		response.InternalError(c, "更新分组失败")
		return
	}

	response.Success(c, h.serializer.Group(updated))
}

// DeleteGroup 删除分组
// 删除时清理用户与分组的关联记录
// @Summary 删除分组
// @Tags 分组
// @Security Bearer
// @Produce json
// @Param id path int true "分组ID"
// @Success 200 {object} response.Response
// @Router /api/v1/groups/{id} [delete]
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的分组ID")
		return
	}

	group, err := h.groupService.GetGroup(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrGroupNotFound) {
			response.GroupNotFound(c)
		} else {
			response.InternalError(c, "获取分组失败")
		}
		return
	}

	actor := middleware.GetActor(c)
	if !permission.IsAdminOrReadOnly(actor, c.Request.Method) {
		response.Forbidden(c, "只有管理员可以删除分组")
		return
	}

	if err := h.groupService.DeleteGroup(c.Request.Context(), group.ID); err != nil {
		response.InternalError(c, "删除分组失败")
		return
	}

	response.NoContent(c)
}
