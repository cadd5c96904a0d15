package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"workshop-server/internal/model"
)

func TestGetUserAnonymousHidesEmail(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", false)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", user.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decode(t, w)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))

	// 第三方视角看不到邮箱字段
	require.Contains(t, fields, "username")
	require.NotContains(t, fields, "email")
}

func TestGetUserSelfSeesEmail(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", false)
	token := env.tokenFor(t, user)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", user.ID), token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decode(t, w)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Contains(t, fields, "email")
}

func TestGetUserAdminSeesEmail(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "alice", false)
	admin := env.createUser(t, "admin", true)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", user.ID), env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, data := decode(t, w)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &fields))
	require.Contains(t, fields, "email")
}

func TestGetUserNotFound(t *testing.T) {
	env := setupTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/users/9999", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateUserByOtherForbidden(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)
	bob := env.createUser(t, "bob", false)

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", alice.ID), env.tokenFor(t, bob), gin.H{
		"username": "hacked",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateUserUnauthenticated(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", alice.ID), "", gin.H{
		"username": "hacked",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateUserSelf(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)

	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d", alice.ID), env.tokenFor(t, alice), gin.H{
		"username": "alice2",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "alice2")
}

func TestUpdateUserGroupsSelfEditForbidden(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)

	group := createGroupRow(t, env, "editors")

	w := env.do(t, http.MethodPut, fmt.Sprintf("/api/v1/users/%d", alice.ID), env.tokenFor(t, alice), gin.H{
		"groups": []int64{group},
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Contains(t, w.Body.String(), "You can't add or remove yourself from groups")
}

func TestDeleteUserByAdmin(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)
	admin := env.createUser(t, "admin", true)

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", alice.ID), env.tokenFor(t, admin), nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", alice.ID), "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

// createGroupRow 直接在数据库中写入分组，返回 ID
func createGroupRow(t *testing.T, env *testEnv, name string) int64 {
	group := &model.Group{Name: name}
	require.NoError(t, env.db.Create(group).Error)
	return group.ID
}
