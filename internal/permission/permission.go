// Package permission 提供按请求求值的权限谓词
// 每个谓词是一个纯函数，在任何对象变更发生之前求值
// 任一谓词失败，请求以 403 终止且不产生副作用
package permission

import (
	"net/http"
)

// Actor 表示发起请求的身份
// nil 表示匿名请求
type Actor struct {
	UserID   int64  // 用户 ID
	Username string // 用户名
	IsStaff  bool   // 是否为管理员
}

// MsgGroupSelfEdit 非管理员修改自己分组时返回的固定提示
const MsgGroupSelfEdit = "You can't add or remove yourself from groups"

// isReadMethod 判断 HTTP 方法是否为只读方法
// GET / HEAD / OPTIONS 视为只读
func isReadMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// IsAdminOrReadOnly 写操作要求管理员，读操作始终允许
// 用于 Group 和 OS 资源
// 参数:
//   - actor: 请求者身份，nil 表示匿名
//   - method: HTTP 方法
//
// 返回:
//   - bool: 是否允许
func IsAdminOrReadOnly(actor *Actor, method string) bool {
	if isReadMethod(method) {
		return true
	}
	return actor != nil && actor.IsStaff
}

// ReadWriteWithoutPost 允许读取和更新/删除，禁止创建
// 用户资源通过注册接口创建，不允许直接 POST
// 参数:
//   - method: HTTP 方法
//
// 返回:
//   - bool: 是否允许
func ReadWriteWithoutPost(method string) bool {
	return method != http.MethodPost
}

// IsAuthenticatedOrReadOnly 写操作要求已登录，读操作始终允许
// 用于 Script 和 Rating 资源
// 参数:
//   - actor: 请求者身份，nil 表示匿名
//   - method: HTTP 方法
//
// 返回:
//   - bool: 是否允许
func IsAuthenticatedOrReadOnly(actor *Actor, method string) bool {
	if isReadMethod(method) {
		return true
	}
	return actor != nil
}

// IsOwnerOrReadOnly 对 User 对象的写操作要求请求者就是该用户（或管理员）
// 参数:
//   - actor: 请求者身份
//   - ownerID: 目标用户的 ID
//   - method: HTTP 方法
//
// 返回:
//   - bool: 是否允许
func IsOwnerOrReadOnly(actor *Actor, ownerID int64, method string) bool {
	if isReadMethod(method) {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.IsStaff || actor.UserID == ownerID
}

// IsScriptOwnerOrReadOnly 对 Script 的写/删操作要求请求者是作者（或管理员）
// 参数:
//   - actor: 请求者身份
//   - authorID: 脚本作者的用户 ID
//   - method: HTTP 方法
//
// 返回:
//   - bool: 是否允许
func IsScriptOwnerOrReadOnly(actor *Actor, authorID int64, method string) bool {
	if isReadMethod(method) {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.IsStaff || actor.UserID == authorID
}

// IsRatingOwnerOrReadOnly 对 Rating 的写/删操作要求请求者是评分人（或管理员）
// 参数:
//   - actor: 请求者身份
//   - raterID: 评分人的用户 ID
//   - method: HTTP 方法
//
// 返回:
//   - bool: 是否允许
func IsRatingOwnerOrReadOnly(actor *Actor, raterID int64, method string) bool {
	if isReadMethod(method) {
		return true
	}
	if actor == nil {
		return false
	}
	return actor.IsStaff || actor.UserID == raterID
}

// CanViewFullProfile 判断请求者能否看到某用户的完整资料
// 只有用户本人和管理员能看到邮箱等私有字段
// 其他请求者（包括匿名）只能看到脱敏后的公开资料
// 参数:
//   - actor: 请求者身份
//   - targetID: 被查看用户的 ID
//
// 返回:
//   - bool: 能否查看完整资料
func CanViewFullProfile(actor *Actor, targetID int64) bool {
	if actor == nil {
		return false
	}
	return actor.IsStaff || actor.UserID == targetID
}

// CanEditGroups 判断请求者能否修改某用户的分组
// 只有管理员可以；用户不能修改自己的分组归属
// 参数:
//   - actor: 请求者身份
//
// 返回:
//   - bool: 能否修改分组
func CanEditGroups(actor *Actor) bool {
	return actor != nil && actor.IsStaff
}
