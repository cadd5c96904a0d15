package validator

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	require.NoError(t, ValidateEmail("alice@example.com"))
	require.NoError(t, ValidateEmail("a.b+c@sub.example.org"))

	require.Error(t, ValidateEmail(""))
	require.Error(t, ValidateEmail("alice"))
	require.Error(t, ValidateEmail("alice@"))
	require.Error(t, ValidateEmail("@example.com"))
	require.Error(t, ValidateEmail("alice@example"))
	require.Error(t, ValidateEmail("alice example@example.com"))
}

func TestValidateLanguage(t *testing.T) {
	for _, lang := range AllowedLanguages {
		require.NoError(t, ValidateLanguage(lang))
	}

	require.Error(t, ValidateLanguage(""))
	require.Error(t, ValidateLanguage("cobol"))
	require.Error(t, ValidateLanguage("Python")) // 大小写敏感
}

func TestValidateScriptFiles(t *testing.T) {
	require.NoError(t, ValidateScriptFiles(map[string]string{
		"main.py": "print('hello')",
	}))
	require.NoError(t, ValidateScriptFiles(map[string]string{
		"main.py":  "print('hello')",
		"utils.py": "pi = 3.14",
	}))

	// 空文件包
	require.ErrorIs(t, ValidateScriptFiles(nil), ErrEmptyFiles)
	require.ErrorIs(t, ValidateScriptFiles(map[string]string{}), ErrEmptyFiles)

	// 非法文件名
	require.ErrorIs(t, ValidateScriptFiles(map[string]string{"": "x"}), ErrInvalidFileName)
	require.ErrorIs(t, ValidateScriptFiles(map[string]string{"a/b.py": "x"}), ErrInvalidFileName)
	require.ErrorIs(t, ValidateScriptFiles(map[string]string{"a\\b.py": "x"}), ErrInvalidFileName)
	require.ErrorIs(t, ValidateScriptFiles(map[string]string{strings.Repeat("a", 101): "x"}), ErrFileNameTooLong)
}

func TestValidateScriptFilesSizeLimit(t *testing.T) {
	// 刚好在限制之内的文件包
	small := map[string]string{"main.py": strings.Repeat("a", 1024)}
	require.NoError(t, ValidateScriptFiles(small))

	// 超过 100 KB 的文件包
	big := map[string]string{"main.py": strings.Repeat("a", MaxFileSize+1)}
	require.ErrorIs(t, ValidateScriptFiles(big), ErrFilesTooLarge)
}

func TestValidateRating(t *testing.T) {
	// 边界值 0 和 5 均有效
	require.NoError(t, ValidateRating(0))
	require.NoError(t, ValidateRating(5))
	require.NoError(t, ValidateRating(2.5))

	require.Error(t, ValidateRating(-0.1))
	require.Error(t, ValidateRating(5.1))
}
