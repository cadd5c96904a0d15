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

func newTestRatingService(t *testing.T) (*RatingService, *gorm.DB) {
	db := setupTestDB(t)
	ratingRepo := repository.NewRatingRepository(db)
	scriptRepo := repository.NewScriptRepository(db)
	return NewRatingService(ratingRepo, scriptRepo), db
}

func createTestScript(t *testing.T, db *gorm.DB, authorID int64) *model.Script {
	script := &model.Script{
		Name:     "fizzbuzz",
		Files:    []byte(`{"main.py":"print(1)"}`),
		Language: "python",
		AuthorID: authorID,
	}
	require.NoError(t, db.Create(script).Error)
	return script
}

func TestCreateRating(t *testing.T) {
	svc, db := newTestRatingService(t)
	ctx := context.Background()
	author := createTestUser(t, db, "alice", false)
	rater := createTestUser(t, db, "bob", false)
	script := createTestScript(t, db, author.ID)

	rating, err := svc.CreateRating(ctx, actorFor(rater), &CreateRatingRequest{
		Rating:  util.Float64Ptr(4.5),
		Comment: "nice",
		Script:  script.ID,
	})
	require.NoError(t, err)
	require.Equal(t, 4.5, rating.Rating)
	require.Equal(t, "nice", rating.Comment)

	// 评分人强制为当前用户
	require.Equal(t, rater.ID, rating.UserID)
}

func TestCreateRatingBoundaryValues(t *testing.T) {
	svc, db := newTestRatingService(t)
	ctx := context.Background()
	author := createTestUser(t, db, "alice", false)
	rater := createTestUser(t, db, "bob", false)
	script := createTestScript(t, db, author.ID)

	// 边界值 0 和 5 均有效
	for _, value := range []float64{0, 5} {
		rating, err := svc.CreateRating(ctx, actorFor(rater), &CreateRatingRequest{
			Rating: util.Float64Ptr(value),
			Script: script.ID,
		})
		require.NoError(t, err)
		require.Equal(t, value, rating.Rating)
	}
}

func TestCreateRatingOutOfRange(t *testing.T) {
	svc, db := newTestRatingService(t)
	ctx := context.Background()
	author := createTestUser(t, db, "alice", false)
	rater := createTestUser(t, db, "bob", false)
	script := createTestScript(t, db, author.ID)

	for _, value := range []float64{-0.1, 5.1} {
		_, err := svc.CreateRating(ctx, actorFor(rater), &CreateRatingRequest{
			Rating: util.Float64Ptr(value),
			Script: script.ID,
		})

		var verrs ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Contains(t, verrs, "rating")
	}

	// 校验失败不产生写入
	var count int64
	require.NoError(t, db.Model(&model.Rating{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestCreateRatingUnknownScript(t *testing.T) {
	svc, db := newTestRatingService(t)
	rater := createTestUser(t, db, "bob", false)

	_, err := svc.CreateRating(context.Background(), actorFor(rater), &CreateRatingRequest{
		Rating: util.Float64Ptr(3),
		Script: 9999,
	})
	require.ErrorIs(t, err, ErrScriptNotFound)
}

func TestUpdateRating(t *testing.T) {
	svc, db := newTestRatingService(t)
	ctx := context.Background()
	author := createTestUser(t, db, "alice", false)
	rater := createTestUser(t, db, "bob", false)
	script := createTestScript(t, db, author.ID)

	rating, err := svc.CreateRating(ctx, actorFor(rater), &CreateRatingRequest{
		Rating: util.Float64Ptr(2),
		Script: script.ID,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateRating(ctx, rating, &UpdateRatingRequest{
		Rating:  util.Float64Ptr(4),
		Comment: util.StringPtr("better after a second look"),
	})
	require.NoError(t, err)
	require.Equal(t, float64(4), updated.Rating)
	require.Equal(t, "better after a second look", updated.Comment)

	// 评分人不可修改
	require.Equal(t, rater.ID, updated.UserID)
}

func TestUpdateRatingOutOfRange(t *testing.T) {
	svc, db := newTestRatingService(t)
	ctx := context.Background()
	author := createTestUser(t, db, "alice", false)
	rater := createTestUser(t, db, "bob", false)
	script := createTestScript(t, db, author.ID)

	rating, err := svc.CreateRating(ctx, actorFor(rater), &CreateRatingRequest{
		Rating: util.Float64Ptr(2),
		Script: script.ID,
	})
	require.NoError(t, err)

	_, err = svc.UpdateRating(ctx, rating, &UpdateRatingRequest{
		Rating: util.Float64Ptr(6),
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.Contains(t, verrs, "rating")
}

func TestDeleteRating(t *testing.T) {
	svc, db := newTestRatingService(t)
	ctx := context.Background()
	author := createTestUser(t, db, "alice", false)
	rater := createTestUser(t, db, "bob", false)
	script := createTestScript(t, db, author.ID)

	rating, err := svc.CreateRating(ctx, actorFor(rater), &CreateRatingRequest{
		Rating: util.Float64Ptr(3),
		Script: script.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteRating(ctx, rating.ID))

	_, err = svc.GetRating(ctx, rating.ID)
	require.ErrorIs(t, err, ErrRatingNotFound)
}
