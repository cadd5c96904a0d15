// Package serializer 提供实体到响应表示的转换
// 对应关系参考超链接风格的 REST 表示: 关联字段序列化为资源 URL
// 每种表示都显式声明自己的字段集合，读方向和写方向分离
// （写方向的请求结构体定义在 service 层，字段集中不包含只读字段）
package serializer

import (
	"encoding/json"
	"fmt"
	"time"

	"workshop-server/internal/model"
	"workshop-server/internal/permission"
)

// Serializer 将实体转换为带超链接的响应表示
type Serializer struct {
	baseURL string // 资源 URL 前缀，如 "/api/v1"
}

// New 创建 Serializer 实例
// 参数:
//   - baseURL: 资源 URL 前缀
func New(baseURL string) *Serializer {
	return &Serializer{baseURL: baseURL}
}

// UserURL 返回用户资源的 URL
func (s *Serializer) UserURL(id int64) string {
	return fmt.Sprintf("%s/users/%d", s.baseURL, id)
}

// GroupURL 返回分组资源的 URL
func (s *Serializer) GroupURL(id int64) string {
	return fmt.Sprintf("%s/groups/%d", s.baseURL, id)
}

// ScriptURL 返回脚本资源的 URL
func (s *Serializer) ScriptURL(id int64) string {
	return fmt.Sprintf("%s/scripts/%d", s.baseURL, id)
}

// RatingURL 返回评分资源的 URL
func (s *Serializer) RatingURL(id int64) string {
	return fmt.Sprintf("%s/ratings/%d", s.baseURL, id)
}

// OSURL 返回操作系统资源的 URL
func (s *Serializer) OSURL(id int64) string {
	return fmt.Sprintf("%s/os/%d", s.baseURL, id)
}

// UserResponse 用户的完整表示
// 仅用户本人和管理员可见
// 字段: url, username, email, groups, scripts, ratings
type UserResponse struct {
	URL      string   `json:"url"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Groups   []string `json:"groups"`
	Scripts  []string `json:"scripts"` // 只读的反向关联
	Ratings  []string `json:"ratings"` // 只读的反向关联
}

// PublicUserResponse 用户的脱敏公开表示
// 第三方（非本人且非管理员）看到的视图，永远不包含邮箱
// 字段: url, username, groups, scripts, ratings
type PublicUserResponse struct {
	URL      string   `json:"url"`
	Username string   `json:"username"`
	Groups   []string `json:"groups"`
	Scripts  []string `json:"scripts"`
	Ratings  []string `json:"ratings"`
}

// User 序列化用户
// 根据请求者身份选择完整表示或脱敏表示
// 参数:
//   - u: 用户实体（需要预加载 Groups/Scripts/Ratings）
//   - actor: 请求者身份，nil 表示匿名
//
// 返回:
//   - interface{}: UserResponse 或 PublicUserResponse
func (s *Serializer) User(u *model.User, actor *permission.Actor) interface{} {
	groups := make([]string, 0, len(u.Groups))
	for _, g := range u.Groups {
		groups = append(groups, s.GroupURL(g.ID))
	}
	scripts := make([]string, 0, len(u.Scripts))
	for _, sc := range u.Scripts {
		scripts = append(scripts, s.ScriptURL(sc.ID))
	}
	ratings := make([]string, 0, len(u.Ratings))
	for _, r := range u.Ratings {
		ratings = append(ratings, s.RatingURL(r.ID))
	}

	if permission.CanViewFullProfile(actor, u.ID) {
		return UserResponse{
			URL:      s.UserURL(u.ID),
			Username: u.Username,
			Email:    u.Email,
			Groups:   groups,
			Scripts:  scripts,
			Ratings:  ratings,
		}
	}

	return PublicUserResponse{
		URL:      s.UserURL(u.ID),
		Username: u.Username,
		Groups:   groups,
		Scripts:  scripts,
		Ratings:  ratings,
	}
}

// UserList 序列化用户列表
func (s *Serializer) UserList(users []model.User, actor *permission.Actor) []interface{} {
	out := make([]interface{}, 0, len(users))
	for i := range users {
		out = append(out, s.User(&users[i], actor))
	}
	return out
}

// GroupResponse 分组的表示
// 字段: url, name, user_set（只读）
type GroupResponse struct {
	URL     string   `json:"url"`
	Name    string   `json:"name"`
	UserSet []string `json:"user_set"`
}

// Group 序列化分组
// 参数:
//   - g: 分组实体（需要预加载 Users）
func (s *Serializer) Group(g *model.Group) GroupResponse {
	users := make([]string, 0, len(g.Users))
	for _, u := range g.Users {
		users = append(users, s.UserURL(u.ID))
	}
	return GroupResponse{
		URL:     s.GroupURL(g.ID),
		Name:    g.Name,
		UserSet: users,
	}
}

// GroupList 序列化分组列表
func (s *Serializer) GroupList(groups []model.Group) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		out = append(out, s.Group(&groups[i]))
	}
	return out
}

// ScriptResponse 脚本的表示
// 字段: url, name, created, modified, language, version, description,
// ratings, author, files, licence, compatibility, views
// 只读字段: created, modified, views, author, ratings
type ScriptResponse struct {
	URL           string          `json:"url"`
	Name          string          `json:"name"`
	Created       time.Time       `json:"created"`
	Modified      time.Time       `json:"modified"`
	Language      string          `json:"language"`
	Version       string          `json:"version"`
	Description   string          `json:"description"`
	Ratings       []string        `json:"ratings"`
	Author        string          `json:"author"`
	Files         json.RawMessage `json:"files"`
	Licence       string          `json:"licence"`
	Compatibility []string        `json:"compatibility"`
	Views         int64           `json:"views"`
}

// Script 序列化脚本
// 参数:
//   - sc: 脚本实体（需要预加载 Ratings/Compatibility）
func (s *Serializer) Script(sc *model.Script) ScriptResponse {
	ratings := make([]string, 0, len(sc.Ratings))
	for _, r := range sc.Ratings {
		ratings = append(ratings, s.RatingURL(r.ID))
	}
	compat := make([]string, 0, len(sc.Compatibility))
	for _, o := range sc.Compatibility {
		compat = append(compat, s.OSURL(o.ID))
	}
	return ScriptResponse{
		URL:           s.ScriptURL(sc.ID),
		Name:          sc.Name,
		Created:       sc.CreatedAt,
		Modified:      sc.UpdatedAt,
		Language:      sc.Language,
		Version:       sc.Version,
		Description:   sc.Description,
		Ratings:       ratings,
		Author:        s.UserURL(sc.AuthorID),
		Files:         json.RawMessage(sc.Files),
		Licence:       sc.Licence,
		Compatibility: compat,
		Views:         sc.Views,
	}
}

// ScriptList 序列化脚本列表
func (s *Serializer) ScriptList(scripts []model.Script) []ScriptResponse {
	out := make([]ScriptResponse, 0, len(scripts))
	for i := range scripts {
		out = append(out, s.Script(&scripts[i]))
	}
	return out
}

// RatingResponse 评分的表示
// 字段: url, rating, comment, user, script, created, modified
// 只读字段: user
type RatingResponse struct {
	URL      string    `json:"url"`
	Rating   float64   `json:"rating"`
	Comment  string    `json:"comment"`
	User     string    `json:"user"`
	Script   string    `json:"script"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

// Rating 序列化评分
func (s *Serializer) Rating(r *model.Rating) RatingResponse {
	return RatingResponse{
		URL:      s.RatingURL(r.ID),
		Rating:   r.Rating,
		Comment:  r.Comment,
		User:     s.UserURL(r.UserID),
		Script:   s.ScriptURL(r.ScriptID),
		Created:  r.CreatedAt,
		Modified: r.UpdatedAt,
	}
}

// RatingList 序列化评分列表
func (s *Serializer) RatingList(ratings []model.Rating) []RatingResponse {
	out := make([]RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, s.Rating(&ratings[i]))
	}
	return out
}

// OSResponse 操作系统的表示
// 字段: name, url, description
// url 是资源自身的超链接；模型的官网链接列参与搜索，不在表示中
type OSResponse struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// OS 序列化操作系统
func (s *Serializer) OS(o *model.OS) OSResponse {
	return OSResponse{
		Name:        o.Name,
		URL:         s.OSURL(o.ID),
		Description: o.Description,
	}
}

// OSList 序列化操作系统列表
func (s *Serializer) OSList(oses []model.OS) []OSResponse {
	out := make([]OSResponse, 0, len(oses))
	for i := range oses {
		out = append(out, s.OS(&oses[i]))
	}
	return out
}

// RegisterResponse 注册成功的表示
// 只回显用户名和邮箱，密码永远不会出现在响应中
type RegisterResponse struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register 序列化注册结果
func (s *Serializer) Register(u *model.User) RegisterResponse {
	return RegisterResponse{
		URL:      s.UserURL(u.ID),
		Username: u.Username,
		Email:    u.Email,
	}
}
