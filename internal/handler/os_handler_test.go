package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"workshop-server/internal/model"
)

func TestCreateOSRequiresAdmin(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)

	w := env.do(t, http.MethodPost, "/api/v1/os", env.tokenFor(t, alice), gin.H{
		"name": "linux",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateOSByAdmin(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "admin", true)

	w := env.do(t, http.MethodPost, "/api/v1/os", env.tokenFor(t, admin), gin.H{
		"name": "linux",
		"url":  "https://kernel.org",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "linux")
}

func TestGetOSAnonymous(t *testing.T) {
	env := setupTestEnv(t)
	os := &model.OS{Name: "linux"}
	require.NoError(t, env.db.Create(os).Error)

	w := env.do(t, http.MethodGet, fmt.Sprintf("/api/v1/os/%d", os.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "linux")
}

func TestCreateGroupRequiresAdmin(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)

	w := env.do(t, http.MethodPost, "/api/v1/groups", env.tokenFor(t, alice), gin.H{
		"name": "editors",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestCreateGroupByAdmin(t *testing.T) {
	env := setupTestEnv(t)
	admin := env.createUser(t, "admin", true)

	w := env.do(t, http.MethodPost, "/api/v1/groups", env.tokenFor(t, admin), gin.H{
		"name": "editors",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.Contains(t, w.Body.String(), "editors")
}

func TestDeleteGroupRequiresAdmin(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.createUser(t, "alice", false)
	group := &model.Group{Name: "editors"}
	require.NoError(t, env.db.Create(group).Error)

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/groups/%d", group.ID), env.tokenFor(t, alice), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}
