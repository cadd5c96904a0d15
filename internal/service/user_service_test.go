package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"workshop-server/internal/model"
	"workshop-server/internal/repository"
	"workshop-server/pkg/util"
)

func newTestUserService(t *testing.T) (*UserService, *gorm.DB) {
	db := setupTestDB(t)
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	return NewUserService(userRepo, groupRepo), db
}

func TestGetUserNotFound(t *testing.T) {
	svc, _ := newTestUserService(t)

	_, err := svc.GetUser(context.Background(), 9999)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsersSearchByGroupName(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	alice := createTestUser(t, db, "alice", false)
	createTestUser(t, db, "bob", false)
	admins := createTestGroup(t, db, "admins")
	require.NoError(t, db.Model(alice).Association("Groups").Append(admins))

	users, total, err := svc.ListUsers(ctx, "admin", 1, 20)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Len(t, users, 1)
	require.Equal(t, "alice", users[0].Username)
}

func TestUpdateUserFields(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice", false)

	loaded, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, actorFor(user), loaded, &UpdateUserRequest{
		Username: util.StringPtr("alice2"),
		Email:    util.StringPtr("alice2@example.com"),
	})
	require.NoError(t, err)
	require.Equal(t, "alice2", updated.Username)
	require.Equal(t, "alice2@example.com", updated.Email)
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice", false)
	createTestUser(t, db, "bob", false)

	loaded, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, actorFor(user), loaded, &UpdateUserRequest{
		Email: util.StringPtr("bob@example.com"),
	})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestUpdateUserInvalidEmail(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice", false)

	loaded, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, actorFor(user), loaded, &UpdateUserRequest{
		Email: util.StringPtr("broken"),
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "email")
}

func TestUpdateUserGroupsDeniedForNonStaff(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice", false)
	group := createTestGroup(t, db, "editors")

	loaded, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)

	// 普通用户不能改变自己的分组归属
	_, err = svc.UpdateUser(ctx, actorFor(user), loaded, &UpdateUserRequest{
		Groups: &[]int64{group.ID},
	})
	require.ErrorIs(t, err, ErrGroupSelfEdit)

	// 拒绝后不产生任何写入
	reloaded, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)
	require.Empty(t, reloaded.Groups)
}

func TestUpdateUserGroupsAllowedForStaff(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	admin := createTestUser(t, db, "admin", true)
	user := createTestUser(t, db, "alice", false)
	group := createTestGroup(t, db, "editors")

	loaded, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)

	updated, err := svc.UpdateUser(ctx, actorFor(admin), loaded, &UpdateUserRequest{
		Groups: &[]int64{group.ID},
	})
	require.NoError(t, err)
	require.Len(t, updated.Groups, 1)
	require.Equal(t, "editors", updated.Groups[0].Name)
}

func TestUpdateUserGroupsSameSetForNonStaff(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice", false)
	group := createTestGroup(t, db, "editors")
	require.NoError(t, db.Model(user).Association("Groups").Append(group))

	loaded, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)

	// 提交与当前一致的分组集合不算修改
	_, err = svc.UpdateUser(ctx, actorFor(user), loaded, &UpdateUserRequest{
		Groups:   &[]int64{group.ID},
		Username: util.StringPtr("alice2"),
	})
	require.NoError(t, err)
}

func TestUpdateUserUnknownGroup(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	admin := createTestUser(t, db, "admin", true)
	user := createTestUser(t, db, "alice", false)

	loaded, err := svc.GetUser(ctx, user.ID)
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, actorFor(admin), loaded, &UpdateUserRequest{
		Groups: &[]int64{9999},
	})
	require.ErrorIs(t, err, ErrGroupNotFound)
}

func TestDeleteUserCascades(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()
	user := createTestUser(t, db, "alice", false)

	script := &model.Script{
		Name:     "fizzbuzz",
		Files:    []byte(`{"main.py":"print(1)"}`),
		Language: "python",
		AuthorID: user.ID,
	}
	require.NoError(t, db.Create(script).Error)

	rating := &model.Rating{Rating: 3, UserID: user.ID, ScriptID: script.ID}
	require.NoError(t, db.Create(rating).Error)

	require.NoError(t, svc.DeleteUser(ctx, user.ID))

	_, err := svc.GetUser(ctx, user.ID)
	require.ErrorIs(t, err, ErrUserNotFound)

	var scripts, ratings int64
	require.NoError(t, db.Model(&model.Script{}).Where("author_id = ?", user.ID).Count(&scripts).Error)
	require.NoError(t, db.Model(&model.Rating{}).Where("user_id = ?", user.ID).Count(&ratings).Error)
	require.Equal(t, int64(0), scripts)
	require.Equal(t, int64(0), ratings)
}
