package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCreateScriptUnauthenticated(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/scripts", "", gin.H{
		"name":     "fizzbuzz",
		"files":    gin.H{"main.py": "print(1)"},
		"language": "python",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateScriptEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)

	w := env.do(t, http.MethodPost, "/api/v1/scripts", env.tokenFor(t, alice), gin.H{
		"name":     "fizzbuzz",
		"files":    gin.H{"main.py": "print(1)"},
		"language": "python",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	_, data := decode(t, w)
	var resp struct {
		Name    string `json:"name"`
		Author  string `json:"author"`
		Version string `json:"version"`
		Licence string `json:"licence"`
		Views   int64  `json:"views"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	require.Equal(t, "fizzbuzz", resp.Name)
	require.Equal(t, "1.0", resp.Version)
	require.Equal(t, "MIT", resp.Licence)
	require.Equal(t, int64(0), resp.Views)

	// 作者超链接指向当前登录用户
	require.Equal(t, fmt.Sprintf("/api/v1/users/%d", alice.ID), resp.Author)
}

func TestCreateScriptInvalidLanguageEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)

	w := env.do(t, http.MethodPost, "/api/v1/scripts", env.tokenFor(t, alice), gin.H{
		"name":     "fizzbuzz",
		"files":    gin.H{"main.py": "print(1)"},
		"language": "cobol",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	resp, _ := decode(t, w)
	require.Contains(t, resp.Errors, "language")
}

func TestGetScriptIncrementsViews(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)
	script := env.createScript(t, alice.ID)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/scripts/%d", script.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decode(t, w)
	var resp struct {
		Views int64 `json:"views"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	require.Equal(t, int64(1), resp.Views)

	// 再次访问继续递增
	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/scripts/%d", script.ID), "", nil)
	_, data = decode(t, w)
	require.NoError(t, json.Unmarshal(data, &resp))
	require.Equal(t, int64(2), resp.Views)
}

func TestListScriptsDoesNotIncrementViews(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)
	script := env.createScript(t, alice.ID)

	w := env.do(t, http.MethodGet, "/api/v1/scripts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	// 列表浏览不产生计数副作用
	var reloaded int64
	require.NoError(t, env.db.Table("scripts").Where("id = ?", script.ID).Select("views").Scan(&reloaded).Error)
	require.Equal(t, int64(0), reloaded)
}

func TestUpdateScriptByNonOwnerForbidden(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)
	script := env.createScript(t, alice.ID)

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/scripts/%d", script.ID), env.tokenFor(t, bob), gin.H{
		"name": "stolen",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateScriptByAdmin(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)
	admin := env.createUser(t, "admin", true)
	script := env.createScript(t, alice.ID)

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/scripts/%d", script.ID), env.tokenFor(t, admin), gin.H{
		"description": "curated",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "curated")
}

func TestDeleteScriptByOwner(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)
	script := env.createScript(t, alice.ID)

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/scripts/%d", script.ID), env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/scripts/%d", script.ID), "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTrendingEndpointWithoutRedis(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/scripts/trending", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}
