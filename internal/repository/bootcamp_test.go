package repository

import (
	"context"
	"regexp"
	"testing"

	"devcamper/internal/geocoder"
	"devcamper/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootcampRepository_DeleteCascade(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBootcampRepository(db)
	ctx := context.Background()

	owner := seedUser(t, db, "owner@example.com", models.RolePublisher)
	reviewer := seedUser(t, db, "reviewer@example.com", models.RoleUser)
	target := seedBootcamp(t, db, "Target", owner.ID, 42.35, -71.06)
	other := seedBootcamp(t, db, "Other", reviewer.ID, 40.7, -73.0)

	seedCourse(t, db, target.ID, owner.ID, 1000)
	seedCourse(t, db, target.ID, owner.ID, 500)
	seedReview(t, db, target.ID, reviewer.ID, 8)
	seedCourse(t, db, other.ID, reviewer.ID, 200)
	seedReview(t, db, other.ID, owner.ID, 3)

	res, err := repo.DeleteCascade(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, CascadeResult{Courses: 2, Reviews: 1, Bootcamp: 1}, res)

	var n int64
	require.NoError(t, db.Model(&models.Course{}).Where("bootcamp_id = ?", target.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&models.Review{}).Where("bootcamp_id = ?", target.ID).Count(&n).Error)
	assert.Zero(t, n)

	// siblings are untouched
	require.NoError(t, db.Model(&models.Course{}).Where("bootcamp_id = ?", other.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	require.NoError(t, db.Model(&models.Review{}).Where("bootcamp_id = ?", other.ID).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	_, err = repo.DeleteCascade(ctx, target.ID)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}

func TestBootcampRepository_DeleteCascade_RollsBack(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewBootcampRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "courses" WHERE bootcamp_id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "reviews" WHERE bootcamp_id = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "bootcamps" WHERE "bootcamps"."id" = $1`)).
		WithArgs(5).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := repo.DeleteCascade(context.Background(), 5)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBootcampRepository_CreateDuplicateName(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBootcampRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", models.RolePublisher)

	seedBootcamp(t, db, "Devworks", owner.ID, 0, 0)
	err := repo.Create(ctx, &models.Bootcamp{
		Name: "Devworks", Slug: "devworks", Description: "d",
		Careers: []string{models.CareerOther}, UserID: owner.ID,
	})
	assert.True(t, models.IsCode(err, models.CodeDuplicate), "got %v", err)
}

func TestBootcampRepository_UpdateKeepsDerivedFields(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBootcampRepository(db)
	aggregates := NewAggregateRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", models.RolePublisher)
	b := seedBootcamp(t, db, "Devworks", owner.ID, 1, 1)

	cost := 750.0
	_, err := aggregates.SetAverageCost(ctx, b.ID, &cost)
	require.NoError(t, err)

	// b still carries a nil AverageCost in memory
	b.Description = "Updated"
	b.Housing = true
	b.Careers = []string{models.CareerUIUX, models.CareerBusiness}
	require.NoError(t, repo.Update(ctx, b))

	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Updated", got.Description)
	assert.True(t, got.Housing)
	assert.Equal(t, []string{models.CareerUIUX, models.CareerBusiness}, got.Careers)
	require.NotNil(t, got.AverageCost)
	assert.Equal(t, 750.0, *got.AverageCost)

	b.ID = 999
	assert.True(t, models.IsCode(repo.Update(ctx, b), models.CodeNotFound))
}

func TestBootcampRepository_ListFilters(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBootcampRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", models.RolePublisher)

	a := seedBootcamp(t, db, "Alpha", owner.ID, 0, 0)
	b := seedBootcamp(t, db, "Beta", owner.ID, 0, 0)
	seedBootcamp(t, db, "Gamma", owner.ID, 0, 0)
	a.Housing = true
	require.NoError(t, repo.Update(ctx, a))
	b.Careers = []string{models.CareerDataScience}
	require.NoError(t, repo.Update(ctx, b))

	housing := true
	got, total, err := repo.List(ctx, BootcampFilter{Housing: &housing})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Alpha", got[0].Name)

	got, total, err = repo.List(ctx, BootcampFilter{Career: models.CareerDataScience})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, "Beta", got[0].Name)

	got, total, err = repo.List(ctx, BootcampFilter{Page: Page{Limit: 2, Offset: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, got, 1)
}

func TestBootcampRepository_WithinBox(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBootcampRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", models.RolePublisher)

	seedBootcamp(t, db, "Near", owner.ID, 40.71, -73.01)
	seedBootcamp(t, db, "FarLng", owner.ID, 40.70, -80.0)
	seedBootcamp(t, db, "FarLat", owner.ID, 45.0, -73.0)

	box := geocoder.Circle{
		Center:  geocoder.Point{Lat: 40.7, Lng: -73.0},
		Radians: geocoder.MilesToRadians(10),
	}.Bounds()
	got, err := repo.WithinBox(ctx, box)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Near", got[0].Name)

	// without a longitude bound only latitude narrows the search
	box.CheckLng = false
	got, err = repo.WithinBox(ctx, box)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestBootcampRepository_PhotoAndCount(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewBootcampRepository(db)
	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", models.RolePublisher)
	b := seedBootcamp(t, db, "Alpha", owner.ID, 0, 0)

	require.NoError(t, repo.UpdatePhoto(ctx, b.ID, "photo_1.jpg"))
	got, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "photo_1.jpg", got.Photo)
	assert.True(t, models.IsCode(repo.UpdatePhoto(ctx, 404, "x.jpg"), models.CodeNotFound))

	n, err := repo.CountByUser(ctx, owner.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	_, err = repo.GetByID(ctx, 404)
	assert.True(t, models.IsCode(err, models.CodeNotFound))
}
