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

// RatingHandler 评分请求处理器
// 评分对所有人可读，创建需登录，修改和删除限评分者本人或管理员
type RatingHandler struct {
	ratingService *service.RatingService
	serializer    *serializer.Serializer
}

// NewRatingHandler 创建 RatingHandler 实例
func NewRatingHandler(ratingService *service.RatingService, sz *serializer.Serializer) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		serializer:    sz,
	}
}

// ListRatings 获取评分列表
// @Summary 获取评分列表
// @Tags 评分
// @Produce json
// @Param search query string false "搜索关键字"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} response.Response
// @Router /api/v1/ratings [get]
func (h *RatingHandler) ListRatings(c *gin.Context) {
	page, pageSize := parsePagination(c)
	search := c.Query("search")

	ratings, total, err := h.ratingService.ListRatings(c.Request.Context(), search, page, pageSize)
	if err != nil {
		response.InternalError(c, "获取评分列表失败")
		return
	}

	response.Success(c, gin.H{
		"ratings":   h.serializer.RatingList(ratings),
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetRating 获取评分详情
// @Summary 获取评分详情
// @Tags 评分
// @Produce json
// @Param id path int true "评分ID"
// @Success 200 {object} response.Response{data=serializer.RatingResponse}
// @Router /api/v1/ratings/{id} [get]
func (h *RatingHandler) GetRating(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的评分ID")
		return
	}

	rating, err := h.ratingService.GetRating(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			response.RatingNotFound(c)
		} else {
			response.InternalError(c, "获取评分失败")
		}
		return
	}

	response.Success(c, h.serializer.Rating(rating))
}

// CreateRating 创建评分
// 评分者强制为当前登录用户
// @Summary 创建评分
// @Tags 评分
// @Security Bearer
// @Accept json
// @Produce json
// @Param body body service.CreateRatingRequest true "评分信息"
// @Success 201 {object} response.Response{data=serializer.RatingResponse}
// @Router /api/v1/ratings [post]
func (h *RatingHandler) CreateRating(c *gin.Context) {
	actor := middleware.GetActor(c)
	if !permission.IsAuthenticatedOrReadOnly(actor, c.Request.Method) {
		response.Unauthorized(c, "请先登录")
		return
	}

	var req service.CreateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	rating, err := h.ratingService.CreateRating(c.Request.Context(), actor, &req)
	if err != nil {
		var verrs service.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			response.ValidationFailed(c, verrs)
		case errors.Is(err, service.ErrScriptNotFound):
			response.ScriptNotFound(c)
		default:
			response.InternalError(c, "创建评分失败")
		}
		return
	}

	response.Created(c, h.serializer.Rating(rating))
}

// UpdateRating 更新评分
// 只有评分者本人或管理员可以修改
// @Summary 更新评分
// @Tags 评分
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path int true "评分ID"
// @Param body body service.UpdateRatingRequest true "更新内容"
// @Success 200 {object} response.Response{data=serializer.RatingResponse}
// @Router /api/v1/ratings/{id} [put]
func (h *RatingHandler) UpdateRating(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的评分ID")
		return
	}

	rating, err := h.ratingService.GetRating(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			response.RatingNotFound(c)
		} else {
			response.InternalError(c, "获取评分失败")
		}
		return
	}

	actor := middleware.GetActor(c)
	if !permission.IsRatingOwnerOrReadOnly(actor, rating.UserID, c.Request.Method) {
		response.Forbidden(c, "无权修改此评分")
		return
	}

	var req service.UpdateRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	updated, err := h.ratingService.UpdateRating(c.Request.Context(), rating, &req)
	if err != nil {
		var verrs service.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			response.ValidationFailed(c, verrs)
		case errors.Is(err, service.ErrScriptNotFound):
			response.ScriptNotFound(c)
		default:
			response.InternalError(c, "更新评分失败")
		}
		return
	}

	response.Success(c, h.serializer.Rating(updated))
}

// DeleteRating 删除评分
// 只有评分者本人或管理员可以删除
// @Summary 删除评分
// @Tags 评分
// @Security Bearer
// @Produce json
// @Param id path int true "评分ID"
// @Success 200 {object} response.Response
// @Router /api/v1/ratings/{id} [delete]
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		response.BadRequest(c, "无效的评分ID")
		return
	}

	rating, err := h.ratingService.GetRating(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRatingNotFound) {
			response.RatingNotFound(c)
		} else {
			response.InternalError(c, "获取评分失败")
		}
		return
	}

	actor := middleware.GetActor(c)
	if !permission.IsRatingOwnerOrReadOnly(actor, rating.UserID, c.Request.Method) {
		response.Forbidden(c, "无权删除此评分")
		return
	}

	if err := h.ratingService.DeleteRating(c.Request.Context(), rating.ID); err != nil {
		response.InternalError(c, "删除评分失败")
		return
	}

	response.NoContent(c)
}
