// Package validator 提供纯函数形式的字段校验
// 校验失败返回 error，由上层转换为 400 响应中的 field -> message 映射
// 注意: 只做单个字段的约束检查，唯一性等需要查库的检查在 service 层完成
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	v10 "github.com/go-playground/validator/v10"
)

// MaxFileSize 脚本文件包序列化后的最大字节数（100 KB）
const MaxFileSize = 100 * 1024

// MaxFileNameLength 单个文件名的最大长度
const MaxFileNameLength = 100

// AllowedLanguages 脚本允许使用的编程语言枚举
var AllowedLanguages = []string{
	"python",
	"micropython",
	"xcas",
	"lua",
	"javascript",
}

// 校验错误
var (
	ErrInvalidEmail    = errors.New("enter a valid email address")
	ErrEmptyFiles      = errors.New("files must contain at least one file")
	ErrFilesTooLarge   = fmt.Errorf("files must not exceed %d bytes", MaxFileSize)
	ErrInvalidFileName = errors.New("file names must be non-empty and must not contain path separators")
	ErrFileNameTooLong = fmt.Errorf("file names must not exceed %d characters", MaxFileNameLength)
)

// validate 共享的校验器实例，线程安全，内部缓存规则解析结果
var validate = v10.New()

// ValidateEmail 校验邮箱格式
// 与 gin binding 层使用同一套 email 规则，service 层改邮箱时也走这里
// 参数:
//   - value: 邮箱地址
//
// 返回:
//   - error: 格式非法返回 ErrInvalidEmail
func ValidateEmail(value string) error {
	if err := validate.Var(value, "required,email"); err != nil {
		return ErrInvalidEmail
	}
	return nil
}

// ValidateLanguage 校验编程语言是否在允许的枚举中
// 参数:
//   - value: 语言名称
//
// 返回:
//   - error: 不在枚举中返回错误
func ValidateLanguage(value string) error {
	for _, lang := range AllowedLanguages {
		if value == lang {
			return nil
		}
	}
	return fmt.Errorf("language must be one of: %s", strings.Join(AllowedLanguages, ", "))
}

// ValidateScriptFiles 校验脚本文件包
// 文件包是一个 文件名 -> 内容 的映射，要求:
//   - 至少包含一个文件
//   - 文件名非空、不含路径分隔符和 NUL、长度不超过 MaxFileNameLength
//   - 序列化后的总大小不超过 MaxFileSize
//
// 参数:
//   - files: 文件名到内容的映射
//
// 返回:
//   - error: 校验失败返回错误
func ValidateScriptFiles(files map[string]string) error {
	if len(files) == 0 {
		return ErrEmptyFiles
	}

	for name := range files {
		if name == "" || strings.ContainsAny(name, "/\\\x00") {
			return ErrInvalidFileName
		}
		if len(name) > MaxFileNameLength {
			return ErrFileNameTooLong
		}
	}

	// 按序列化后的字节数计算总大小
	serialized, err := json.Marshal(files)
	if err != nil {
		return err
	}
	if len(serialized) > MaxFileSize {
		return ErrFilesTooLarge
	}

	return nil
}

// ValidateRating 校验评分值是否在 [MinRating, MaxRating] 范围内
// 边界值 0 和 5 均有效
// 参数:
//   - value: 评分值
//
// 返回:
//   - error: 超出范围返回错误
func ValidateRating(value float64) error {
	if value < 0 || value > 5 {
		return errors.New("rating must be between 0 and 5")
	}
	return nil
}
