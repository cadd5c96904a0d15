// Package service 提供业务逻辑层的实现
// 服务层封装具体的业务逻辑，协调 Repository 和 Cache
package service

import (
	"errors"
	"sort"
	"strings"

	"workshop-server/internal/permission"
)

// 定义业务错误
var (
	ErrUserExists     = errors.New("用户名已存在")
	ErrEmailExists    = errors.New("邮箱已被注册")
	ErrUserNotFound   = errors.New("用户不存在")
	ErrPasswordWrong  = errors.New("密码错误")
	ErrScriptNotFound = errors.New("脚本不存在")
	ErrRatingNotFound = errors.New("评分不存在")
	ErrGroupNotFound  = errors.New("分组不存在")
	ErrOSNotFound     = errors.New("操作系统不存在")
	ErrGroupSelfEdit  = errors.New(permission.MsgGroupSelfEdit)
)

// ValidationErrors 字段校验错误集合
// 键为字段名，值为错误信息；任何字段校验失败都不会产生写入
type ValidationErrors map[string]string

// Error 实现 error 接口
// 按字段名排序，保证错误信息稳定
func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return strings.Join(parts, "; ")
}
