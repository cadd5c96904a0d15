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

// UserHandler 用户请求处理器
// 用户集合不接受 POST，新用户通过注册入口创建
type UserHandler struct {
	userService *service.UserService
	serializer  *serializer.Serializer
}

// NewUserHandler 创建 UserHandler 实例
func NewUserHandler(userService *service.UserService, sz *serializer.Serializer) *UserHandler {
	return &UserHandler{
		userService: userService,
		serializer:  sz,
	}
}

// ListUsers 获取用户列表
// 对非本人用户隐藏邮箱等隐私字段
// @Summary 获取用户列表
// @Tags 用户
// @Produce json
// @Param search query string false "搜索关键字"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response{data=UserListResponse}
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	users, total, err := h.userService.ListUsers(c.Request.Context(), search, page, pageSize)
	if err != nil {
		response.InternalError(c, "获取用户列表失败")
		return
	}

	actor := middleware.GetActor(c)
	response.Success(c, gin.H{
		"users":     h.serializer.UserList(users, actor),
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// UserListResponse 用户列表响应
type UserListResponse struct {
	Users    []interface{} `json:"users"`
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// GetUser 获取用户详情
// 本人和管理员能看到完整信息，其他人看到脱敏后的信息
// @Summary 获取用户详情
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.UserNotFound(c)
		} else {
			response.InternalError(c, "获取用户失败")
		}
		return
	}

	response.Success(c, h.serializer.User(user, middleware.GetActor(c)))
}

// UpdateUser 更新用户
// 只有本人和管理员可以修改，分组变更限管理员
// @Summary 更新用户
// @Tags 用户
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Param body body service.UpdateUserRequest true "更新内容"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.UserNotFound(c)
		} else {
			response.InternalError(c, "获取用户失败")
		}
		return
	}

	// 权限检查: 只有本人或管理员可以写
	actor := middleware.GetActor(c)
	if !permission.IsOwnerOrReadOnly(actor, user.ID, c.Request.Method) {
		response.Forbidden(c, "无权修改此用户")
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	updated, err := h.userService.UpdateUser(c.Request.Context(), actor, user, &req)
	if err != nil {
		var verrs service.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			response.ValidationFailed(c, verrs)
		case errors.Is(err, service.ErrGroupSelfEdit):
			response.Forbidden(c, service.ErrGroupSelfEdit.Error())
		case errors.Is(err, service.ErrGroupNotFound):
			response.GroupNotFound(c)
		case errors.Is(err, service.ErrUserExists):
			response.ErrorWithCode(c, 400, response.CodeBadRequest, "用户名已被占用")
		case errors.Is(err, service.ErrEmailExists):
			response.ErrorWithCode(c, 400, response.CodeBadRequest, "邮箱已被注册")
		default:
			response.InternalError(c, "更新用户失败")
		}
		return
	}

	response.Success(c, h.serializer.User(updated, actor))
}

// DeleteUser 删除用户
// 只有本人和管理员可以删除，关联的脚本和评分一并清理
// @Summary 删除用户
// @Tags 用户
// @Security Bearer
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} response.Response
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的用户ID")
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.UserNotFound(c)
		} else {
			response.InternalError(c, "获取用户失败")
		}
		return
	}

	actor := middleware.GetActor(c)
	if !permission.IsOwnerOrReadOnly(actor, user.ID, c.Request.Method) {
		response.Forbidden(c, "无权删除此用户")
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), id); err != nil {
		response.InternalError(c, "删除用户失败")
		return
	}

	response.NoContent(c)
}
