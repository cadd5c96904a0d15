package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"workshop-server/pkg/response"
)

func TestRegisterEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/register", "", gin.H{
		"username": "alice",
		"password": "secret123",
		"email":    "alice@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	resp, data := decode(t, w)
	require.Equal(t, response.CodeSuccess, resp.Code)

	// 响应绝不包含密码或哈希
	body := w.Body.String()
	require.NotContains(t, body, "password")
	require.NotContains(t, body, "secret123")
	require.Contains(t, string(data), "alice@example.com")
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice", false)

	w := env.do(t, http.MethodPost, "/api/v1/register", "", gin.H{
		"username": "alice",
		"password": "secret123",
		"email":    "fresh@example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterEndpointInvalidEmail(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/register", "", gin.H{
		"username": "alice",
		"password": "secret123",
		"email":    "nope",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp, _ := decode(t, w)
	require.Contains(t, resp.Errors, "email")
}

func TestRegisterListIsEmpty(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice", false)

	// 注册入口不暴露已有用户
	w := env.do(t, http.MethodGet, "/api/v1/register", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decode(t, w)
	require.Equal(t, "[]", strings.TrimSpace(string(data)))
}

func TestLoginEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice", false)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "access_token")
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	env := setupTestEnv(t)
	env.createUser(t, "alice", false)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
