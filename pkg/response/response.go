// Package response 提供统一的 HTTP 响应格式
// 所有 API 都使用相同的响应结构，便于前端处理
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
// code: 业务状态码（0 表示成功）
// message: 提示信息
// data: 响应数据
// errors: 校验失败时的 字段 -> 错误信息 映射
type Response struct {
	Code    int               `json:"code"`             // 业务状态码
	Message string            `json:"message"`          // 提示信息
	Data    interface{}       `json:"data,omitempty"`   // 响应数据，可选
	Errors  map[string]string `json:"errors,omitempty"` // 字段校验错误，可选
}

// 业务状态码定义
const (
	CodeSuccess          = 0    // 成功
	CodeBadRequest       = 1000 // 请求参数错误
	CodeUnauthorized     = 1001 // 未授权
	CodeForbidden        = 1002 // 禁止访问
	CodeNotFound         = 1003 // 资源不存在
	CodeInternalError    = 1004 // 服务器内部错误
	CodeValidationFailed = 1005 // 字段校验失败
	CodeUserExists       = 1101 // 用户已存在
	CodeUserNotFound     = 1102 // 用户不存在
	CodePasswordWrong    = 1103 // 密码错误
	CodeEmailExists      = 1104 // 邮箱已被注册
	CodeScriptNotFound   = 1201 // 脚本不存在
	CodeRatingNotFound   = 1301 // 评分不存在
	CodeGroupNotFound    = 1401 // 分组不存在
	CodeOSNotFound       = 1501 // 操作系统不存在
)

// Success 返回成功响应
// 参数:
//   - c: Gin 上下文
//   - data: 响应数据，可以是任意类型
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// SuccessWithMessage 返回成功响应（带自定义消息）
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: message,
		Data:    data,
	})
}

// Created 返回 201 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "created",
		Data:    data,
	})
}

// NoContent 返回 204 无内容响应（用于删除操作）
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 返回错误响应
// 参数:
//   - c: Gin 上下文
//   - httpCode: HTTP 状态码
//   - message: 错误信息
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, Response{
		Code:    httpCode,
		Message: message,
	})
}

// ErrorWithCode 返回错误响应（带业务状态码）
// 参数:
//   - c: Gin 上下文
//   - httpCode: HTTP 状态码
//   - bizCode: 业务状态码
//   - message: 错误信息
func ErrorWithCode(c *gin.Context, httpCode, bizCode int, message string) {
	c.JSON(httpCode, Response{
		Code:    bizCode,
		Message: message,
	})
}

// BadRequest 返回 400 错误（请求参数错误）
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    CodeBadRequest,
		Message: message,
	})
}

// ValidationFailed 返回 400 错误（字段校验失败）
// 携带 字段 -> 错误信息 的映射，任何字段校验失败都不会产生部分写入
// 参数:
//   - c: Gin 上下文
//   - errors: 字段校验错误映射
func ValidationFailed(c *gin.Context, errors map[string]string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    CodeValidationFailed,
		Message: "validation failed",
		Errors:  errors,
	})
}

// FieldError 返回单个字段的 400 校验错误
// 参数:
//   - c: Gin 上下文
//   - field: 字段名
//   - err: 校验错误
func FieldError(c *gin.Context, field string, err error) {
	ValidationFailed(c, map[string]string{field: err.Error()})
}

// Unauthorized 返回 401 错误（未授权）
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, Response{
		Code:    CodeUnauthorized,
		Message: message,
	})
}

// Forbidden 返回 403 错误（禁止访问）
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, Response{
		Code:    CodeForbidden,
		Message: message,
	})
}

// NotFound 返回 404 错误（资源不存在）
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeNotFound,
		Message: message,
	})
}

// InternalError 返回 500 错误（服务器内部错误）
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, Response{
		Code:    CodeInternalError,
		Message: message,
	})
}

// UserNotFound 返回用户不存在错误
func UserNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeUserNotFound,
		Message: "用户不存在",
	})
}

// ScriptNotFound 返回脚本不存在错误
func ScriptNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeScriptNotFound,
		Message: "脚本不存在",
	})
}

// RatingNotFound 返回评分不存在错误
func RatingNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeRatingNotFound,
		Message: "评分不存在",
	})
}

// GroupNotFound 返回分组不存在错误
func GroupNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeGroupNotFound,
		Message: "分组不存在",
	})
}

// OSNotFound 返回操作系统不存在错误
func OSNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, Response{
		Code:    CodeOSNotFound,
		Message: "操作系统不存在",
	})
}
